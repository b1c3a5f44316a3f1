package engine

// Operation identifies an engine operation.
type Operation string

const (
	// OperationDeclare replaces the dependency list of a component.
	OperationDeclare Operation = "declare"

	// OperationInstall installs a component and whatever it needs.
	OperationInstall Operation = "install"

	// OperationRemove removes a component and cleans up dependencies nobody needs anymore.
	OperationRemove Operation = "remove"

	// OperationList lists installed components.
	OperationList Operation = "list"
)

// Notification is a per-component event emitted while an operation runs.
type Notification struct {
	// Kind is the event type.
	Kind NotificationKind `json:"kind"`

	// Component is the component the event is about.
	Component string `json:"component"`

	// Cascaded is true when the event comes from dependency cleanup rather than the request itself.
	Cascaded bool `json:"cascaded,omitempty"`
}

// Result is the outcome of a single engine operation.
// Exactly one of Err or a successful outcome is meaningful; notifications are
// only recorded for operations that were not rejected.
type Result struct {
	// Operation is the operation that produced this result.
	Operation Operation `json:"operation"`

	// Component is the component the operation was requested for, empty for list.
	Component string `json:"component,omitempty"`

	// Notifications are the events emitted, in the order they happened.
	Notifications []Notification `json:"notifications,omitempty"`

	// Installed is the installed components in registry order, set by list.
	Installed []string `json:"installed,omitempty"`

	// Err is the rejection, if any. It is always an *EngineError.
	Err error `json:"-"`
}

// OK returns true if the operation was not rejected.
func (r *Result) OK() bool {
	return r.Err == nil
}

// Count returns how many notifications of the given kind were emitted.
func (r *Result) Count(kind NotificationKind) int {
	n := 0
	for _, note := range r.Notifications {
		if note.Kind == kind {
			n++
		}
	}
	return n
}

// Components returns the components of the notifications of the given kind, in order.
func (r *Result) Components(kind NotificationKind) []string {
	names := make([]string, 0)
	for _, note := range r.Notifications {
		if note.Kind == kind {
			names = append(names, note.Component)
		}
	}
	return names
}

func (r *Result) notify(kind NotificationKind, component string, cascaded bool) {
	r.Notifications = append(r.Notifications, Notification{
		Kind:      kind,
		Component: component,
		Cascaded:  cascaded,
	})
}

// ComponentState is a point-in-time view of one component.
type ComponentState struct {
	Name         string   `json:"name"`
	Status       Status   `json:"status"`
	Dependencies []string `json:"dependencies,omitempty"`
}
