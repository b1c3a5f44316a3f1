// Package manifest loads YAML files that pre-declare a universe of components,
// so a command stream can start from a known dependency graph:
//
//	components:
//	  - name: TCPIP
//	    depends_on: [NETCARD]
//	  - name: BROWSER
//	    depends_on: [TCPIP, HTML]
//
// Names are validated when the file is loaded. Cycles are detected when the
// manifest is applied to an engine, declaration by declaration.
package manifest
