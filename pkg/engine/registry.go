package engine

// Entry is a component's registry record.
type Entry struct {
	Name   string `json:"name"`
	Status Status `json:"status"`
}

// InstallationRegistry tracks component statuses in first-insertion order.
// Entries are never deleted; removal only changes their status.
type InstallationRegistry struct {
	index   map[string]int
	entries []Entry
}

// NewInstallationRegistry creates an empty registry.
func NewInstallationRegistry() *InstallationRegistry {
	return &InstallationRegistry{
		index:   make(map[string]int),
		entries: make([]Entry, 0),
	}
}

// StatusOf returns the status of name, StatusNotInstalled when it was never recorded.
func (r *InstallationRegistry) StatusOf(name string) Status {
	i, ok := r.index[name]
	if !ok {
		return StatusNotInstalled
	}
	return r.entries[i].Status
}

// IsInstalled reports whether name is installed, explicitly or as a dependency.
func (r *InstallationRegistry) IsInstalled(name string) bool {
	return r.StatusOf(name).IsInstalled()
}

// SetStatus records status for name. A new name is appended; a known one keeps its position.
func (r *InstallationRegistry) SetStatus(name string, status Status) {
	if i, ok := r.index[name]; ok {
		r.entries[i].Status = status
		return
	}
	r.index[name] = len(r.entries)
	r.entries = append(r.entries, Entry{Name: name, Status: status})
}

// InstalledInOrder returns the installed components in the order they were first recorded.
func (r *InstallationRegistry) InstalledInOrder() []string {
	names := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		if e.Status.IsInstalled() {
			names = append(names, e.Name)
		}
	}
	return names
}

// Entries returns a copy of every entry in insertion order, whatever its status.
func (r *InstallationRegistry) Entries() []Entry {
	return append(make([]Entry, 0, len(r.entries)), r.entries...)
}

// Len returns the number of recorded components.
func (r *InstallationRegistry) Len() int {
	return len(r.entries)
}
