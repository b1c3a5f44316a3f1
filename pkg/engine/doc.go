// Package engine provides the dependency state engine behind depctl.
//
// # Overview
//
// The engine tracks a universe of named components, the dependency edges between them and
// the installation status of each one. It enforces three rules:
//
//  1. A component is never installed before everything it transitively depends on.
//  2. No dependency cycle can ever be declared.
//  3. An installed component cannot be removed while another installed component needs it.
//     Removing a component cascades to the dependencies it pulled in, when nothing else
//     needs them anymore.
//
// # Core Types
//
//   - DependencyGraph: component name to ordered dependency list, with cycle-safe
//     wholesale replacement and transitive-closure queries
//   - InstallationRegistry: component name to Status, in first-installation order
//   - Engine: the declare/install/remove/list operations over both structures
//   - Result: the notifications an operation emitted, or its rejection
//
// # Statuses
//
// A component is NotInstalled until it is first installed, either explicitly
// (InstalledExplicit) or to satisfy another component (InstalledAsDependency). Removal moves it
// to Uninstalled; it keeps its position in the registry and a later install reuses it.
//
// Removal is gated on status: a direct remove request only uninstalls components that were
// installed explicitly, and cascade cleanup only uninstalls components that were installed as
// dependencies. Reinstalling a component that is already installed as a dependency does not
// promote it to explicit.
//
// # Usage Example
//
//	eng := engine.New()
//
//	if res := eng.Declare("BROWSER", []string{"TCPIP", "HTML"}); !res.OK() {
//	    return res.Err
//	}
//
//	res := eng.Install("BROWSER")
//	// res.Components(engine.NotificationInstalling) == [TCPIP HTML BROWSER]
//
//	res = eng.Remove("TCPIP")
//	// engine.IsStillNeeded(res.Err) == true
//
// # Error Classification
//
// Rejections are *EngineError values:
//
//   - Permanent: NAME_TOO_LONG, EMPTY_NAME, CYCLE_REJECTED
//   - Conflict: STILL_NEEDED, which may succeed once the dependents are removed
//
// No rejection leaves the graph or the registry partially modified.
//
// # Thread Safety
//
// An Engine is safe for concurrent use. DependencyGraph and InstallationRegistry are not;
// use them through an Engine when sharing.
package engine
