package engine

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// MaxNameLength is the maximum number of characters in a component name.
const MaxNameLength = 10

// DependencyGraph maps component names to their declared dependencies.
// It is not safe for concurrent use; the Engine serialises access to it.
type DependencyGraph struct {
	// edges maps a declared target to its dependencies, in declaration order
	edges map[string][]string

	// targets records targets in the order they were first declared
	targets []string
}

// NewDependencyGraph creates an empty dependency graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		edges:   make(map[string][]string),
		targets: make([]string, 0),
	}
}

// ValidateName checks that a component name is non-empty and at most MaxNameLength characters.
func ValidateName(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	return nil
}

func validateName(name string) *EngineError {
	if name == "" {
		return NewPermanentError("component name is empty", nil).
			WithCode(ErrCodeEmptyName)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return NewPermanentError(
			fmt.Sprintf("component name %s is longer than %d characters", name, MaxNameLength),
			nil,
		).WithCode(ErrCodeNameTooLong).WithComponent(name).WithDetail(DetailLimit, MaxNameLength)
	}
	return nil
}

// Declare replaces the dependency list of target with deps.
//
// Every name is validated first, then each dependency is checked, left to right, against the
// current graph: if the dependency already reaches target the declaration is rejected. The graph
// is left untouched on any rejection. Redeclaring a target discards its previous list.
func (g *DependencyGraph) Declare(target string, deps []string) error {
	for _, name := range append([]string{target}, deps...) {
		if err := validateName(name); err != nil {
			return err.WithOperation("declare")
		}
	}

	for _, dep := range deps {
		// A self-edge is a cycle of length one; accepting it would make every install of target loop.
		if dep == target || g.IsReachable(dep, target) {
			return NewPermanentError(fmt.Sprintf("%s depends on %s", dep, target), nil).
				WithCode(ErrCodeCycleRejected).
				WithComponent(target).
				WithOperation("declare").
				WithDetail(DetailDependency, dep)
		}
	}

	if _, exists := g.edges[target]; !exists {
		g.targets = append(g.targets, target)
	}
	g.edges[target] = append(make([]string, 0, len(deps)), deps...)

	return nil
}

// Dependencies returns a copy of the direct dependencies of name, in declared order.
func (g *DependencyGraph) Dependencies(name string) []string {
	deps, ok := g.edges[name]
	if !ok {
		return nil
	}
	return append(make([]string, 0, len(deps)), deps...)
}

// TransitiveClosure returns name and everything it transitively depends on, in depth-first
// post-order: deepest dependencies first, name itself last. Each component appears once.
func (g *DependencyGraph) TransitiveClosure(name string) []string {
	type frame struct {
		name string
		next int
	}

	order := make([]string, 0)
	visited := map[string]bool{name: true}
	stack := []frame{{name: name}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		deps := g.edges[top.name]

		if top.next < len(deps) {
			dep := deps[top.next]
			top.next++
			if !visited[dep] {
				visited[dep] = true
				stack = append(stack, frame{name: dep})
			}
			continue
		}

		order = append(order, top.name)
		stack = stack[:len(stack)-1]
	}

	return order
}

// IsReachable reports whether from depends on to through at least one edge.
// A component never reaches itself through zero edges.
func (g *DependencyGraph) IsReachable(from, to string) bool {
	if from == to {
		return false
	}
	for _, name := range g.TransitiveClosure(from) {
		if name == to {
			return true
		}
	}
	return false
}

// Targets returns the declared targets, sorted by name.
func (g *DependencyGraph) Targets() []string {
	targets := append(make([]string, 0, len(g.targets)), g.targets...)
	sort.Strings(targets)
	return targets
}

// Nodes returns every component mentioned by the graph, targets and dependencies alike,
// in the order they were first seen.
func (g *DependencyGraph) Nodes() []string {
	seen := make(map[string]bool)
	nodes := make([]string, 0)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			nodes = append(nodes, name)
		}
	}
	for _, target := range g.targets {
		add(target)
		for _, dep := range g.edges[target] {
			add(dep)
		}
	}
	return nodes
}

// ToDOT generates a DOT format representation of the graph for visualization.
// statusOf, when non-nil, is used to colour nodes by installation status.
// The output can be rendered with Graphviz tools.
func (g *DependencyGraph) ToDOT(statusOf func(string) Status) string {
	var sb strings.Builder

	sb.WriteString("digraph Dependencies {\n")
	sb.WriteString("  rankdir=BT;\n")
	sb.WriteString("  node [shape=box, style=\"filled,rounded\"];\n\n")

	for _, name := range g.Nodes() {
		status := StatusNotInstalled
		if statusOf != nil {
			status = statusOf(name)
		}
		sb.WriteString(fmt.Sprintf("  %q [fillcolor=%q];\n", name, getStatusColor(status)))
	}

	if len(g.targets) > 0 {
		sb.WriteString("\n")
	}

	for _, target := range g.targets {
		for _, dep := range g.edges[target] {
			sb.WriteString(fmt.Sprintf("  %q -> %q;\n", target, dep))
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

// getStatusColor returns a color for visualizing installation status.
func getStatusColor(status Status) string {
	switch status {
	case StatusInstalledExplicit:
		return "lightgreen"
	case StatusInstalledAsDependency:
		return "lightblue"
	case StatusUninstalled:
		return "lightcoral"
	default:
		return "white"
	}
}
