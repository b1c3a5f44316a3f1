package engine

import (
	"fmt"
)

// Status represents the installation state of a component.
type Status string

const (
	// StatusNotInstalled is the default for components the registry has never seen.
	StatusNotInstalled Status = "not_installed"

	// StatusInstalledExplicit indicates the component was installed by a direct request.
	StatusInstalledExplicit Status = "installed"

	// StatusInstalledAsDependency indicates the component was pulled in to satisfy
	// another component's requirement.
	StatusInstalledAsDependency Status = "installed_as_dependency"

	// StatusUninstalled indicates the component was installed once and has since been removed.
	StatusUninstalled Status = "uninstalled"
)

// IsInstalled returns true if the status represents an installed component.
func (s Status) IsInstalled() bool {
	return s == StatusInstalledExplicit || s == StatusInstalledAsDependency
}

// Validate checks if the status is valid.
func (s Status) Validate() error {
	switch s {
	case StatusNotInstalled, StatusInstalledExplicit,
		StatusInstalledAsDependency, StatusUninstalled:
		return nil
	default:
		return fmt.Errorf("invalid component status: %s", s)
	}
}

// Mode describes on whose behalf an install or remove is performed.
type Mode string

const (
	// ModeExplicit is a direct user request.
	ModeExplicit Mode = "explicit"

	// ModeAsDependency is an implicit operation performed to satisfy, or clean up after,
	// another component.
	ModeAsDependency Mode = "as_dependency"
)

// InstalledStatus returns the status a component receives when installed in this mode.
func (m Mode) InstalledStatus() Status {
	if m == ModeExplicit {
		return StatusInstalledExplicit
	}
	return StatusInstalledAsDependency
}

// NotificationKind identifies a per-component event emitted by an engine operation.
type NotificationKind string

const (
	// NotificationInstalling is emitted once per newly installed component.
	NotificationInstalling NotificationKind = "installing"

	// NotificationRemoving is emitted once per component whose status flipped to uninstalled.
	NotificationRemoving NotificationKind = "removing"

	// NotificationAlreadyInstalled is emitted when an install request is a no-op.
	NotificationAlreadyInstalled NotificationKind = "already_installed"

	// NotificationNotInstalled is emitted when a remove request targets a component that
	// is not installed.
	NotificationNotInstalled NotificationKind = "not_installed"
)
