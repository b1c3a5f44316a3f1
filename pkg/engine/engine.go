package engine

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Engine applies declare, install, remove and list operations to a dependency graph
// and an installation registry that it owns.
//
// Every operation holds a single lock for its whole duration, so the reads and writes
// it performs are observed atomically by concurrent callers.
type Engine struct {
	// mu serialises whole operations
	mu sync.Mutex

	graph    *DependencyGraph
	registry *InstallationRegistry
}

// New creates an engine with an empty graph and registry.
func New() *Engine {
	return &Engine{
		graph:    NewDependencyGraph(),
		registry: NewInstallationRegistry(),
	}
}

// Declare replaces the dependency list of target.
// The result carries a NAME_TOO_LONG, EMPTY_NAME or CYCLE_REJECTED error on rejection,
// in which case the graph is unchanged.
func (e *Engine) Declare(target string, deps []string) *Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	res := &Result{Operation: OperationDeclare, Component: target}
	if err := e.graph.Declare(target, deps); err != nil {
		log.Debug().Err(err).Str("component", target).Strs("dependencies", deps).
			Msg("Declaration rejected")
		res.Err = err
		return res
	}

	log.Debug().Str("component", target).Strs("dependencies", deps).Msg("Dependencies declared")
	return res
}

// Install explicitly installs name after installing, as dependencies, whatever it needs
// that is not installed yet. Installing an installed component is a no-op, even when it
// was installed only as a dependency.
func (e *Engine) Install(name string) *Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	res := &Result{Operation: OperationInstall, Component: name}
	if e.registry.IsInstalled(name) {
		res.notify(NotificationAlreadyInstalled, name, false)
		return res
	}

	e.install(name, ModeExplicit, res)
	return res
}

// install walks the dependencies of name depth-first, installing each one that is not
// installed yet before the component that needs it. Installed components are not expanded.
func (e *Engine) install(name string, mode Mode, res *Result) {
	type frame struct {
		name string
		mode Mode
		next int
	}

	stack := []frame{{name: name, mode: mode}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		deps := e.graph.edges[top.name]

		if top.next < len(deps) {
			dep := deps[top.next]
			top.next++
			if !e.registry.IsInstalled(dep) {
				stack = append(stack, frame{name: dep, mode: ModeAsDependency})
			}
			continue
		}

		e.registry.SetStatus(top.name, top.mode.InstalledStatus())
		res.notify(NotificationInstalling, top.name, top.mode == ModeAsDependency)
		log.Debug().Str("component", top.name).Str("mode", string(top.mode)).Msg("Component installed")

		stack = stack[:len(stack)-1]
	}
}

// Remove explicitly removes name, then cascades over its direct dependencies, removing
// those that were installed only as dependencies and that no installed component still needs.
//
// Removing a component that is not installed succeeds with a not-installed notification.
// If an installed component still depends on name, the result carries a STILL_NEEDED error
// and nothing changes.
func (e *Engine) Remove(name string) *Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	res := &Result{Operation: OperationRemove, Component: name}
	if e.registry.IsInstalled(name) {
		if dependent, needed := e.neededBy(name); needed {
			res.Err = NewConflictError(fmt.Sprintf("%s is still needed", name), nil).
				WithCode(ErrCodeStillNeeded).
				WithComponent(name).
				WithOperation(string(OperationRemove)).
				WithDetail(DetailDependent, dependent)
			log.Debug().Str("component", name).Str("dependent", dependent).Msg("Removal blocked")
			return res
		}
	}

	e.remove(name, ModeExplicit, res)
	return res
}

// remove runs the removal of name and the cascade over dependencies.
// Each visited component re-runs the still-needed guard; a blocked cascade step keeps
// that component and does not descend into its dependencies.
func (e *Engine) remove(name string, mode Mode, res *Result) {
	type frame struct {
		name string
		next int
	}

	stack := make([]frame, 0)
	visit := func(name string, mode Mode) {
		cascaded := mode == ModeAsDependency
		if !e.registry.IsInstalled(name) {
			res.notify(NotificationNotInstalled, name, cascaded)
			return
		}
		if dependent, needed := e.neededBy(name); needed {
			log.Debug().Str("component", name).Str("dependent", dependent).Msg("Dependency retained")
			return
		}
		if e.registry.StatusOf(name) == mode.InstalledStatus() {
			e.registry.SetStatus(name, StatusUninstalled)
			res.notify(NotificationRemoving, name, cascaded)
			log.Debug().Str("component", name).Str("mode", string(mode)).Msg("Component removed")
		}
		stack = append(stack, frame{name: name})
	}

	visit(name, mode)
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		deps := e.graph.edges[top.name]

		if top.next < len(deps) {
			dep := deps[top.next]
			top.next++
			visit(dep, ModeAsDependency)
			continue
		}

		stack = stack[:len(stack)-1]
	}
}

// neededBy returns an installed component, other than name, that transitively depends on name.
func (e *Engine) neededBy(name string) (string, bool) {
	for _, other := range e.registry.InstalledInOrder() {
		if other != name && e.graph.IsReachable(other, name) {
			return other, true
		}
	}
	return "", false
}

// List returns the installed components in the order they were first installed.
func (e *Engine) List() *Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	return &Result{
		Operation: OperationList,
		Installed: e.registry.InstalledInOrder(),
	}
}

// InstalledCount returns how many components are installed.
func (e *Engine) InstalledCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.registry.InstalledInOrder())
}

// StatusOf returns the status of name.
func (e *Engine) StatusOf(name string) Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.registry.StatusOf(name)
}

// IsInstalled reports whether name is installed.
func (e *Engine) IsInstalled(name string) bool {
	return e.StatusOf(name).IsInstalled()
}

// Dependencies returns the declared direct dependencies of name.
func (e *Engine) Dependencies(name string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.graph.Dependencies(name)
}

// TransitiveClosure returns name and everything it transitively depends on, deepest first.
func (e *Engine) TransitiveClosure(name string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.graph.TransitiveClosure(name)
}

// IsReachable reports whether from transitively depends on to.
func (e *Engine) IsReachable(from, to string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.graph.IsReachable(from, to)
}

// Snapshot returns every known component: those recorded in the registry, in registry
// order, followed by the components only mentioned in the graph.
func (e *Engine) Snapshot() []ComponentState {
	e.mu.Lock()
	defer e.mu.Unlock()

	states := make([]ComponentState, 0)
	seen := make(map[string]bool)
	for _, entry := range e.registry.Entries() {
		seen[entry.Name] = true
		states = append(states, ComponentState{
			Name:         entry.Name,
			Status:       entry.Status,
			Dependencies: e.graph.Dependencies(entry.Name),
		})
	}
	for _, name := range e.graph.Nodes() {
		if seen[name] {
			continue
		}
		states = append(states, ComponentState{
			Name:         name,
			Status:       StatusNotInstalled,
			Dependencies: e.graph.Dependencies(name),
		})
	}
	return states
}

// ToDOT renders the dependency graph in DOT format, colouring components by status.
func (e *Engine) ToDOT() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.graph.ToDOT(e.registry.StatusOf)
}
