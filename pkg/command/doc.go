// Package command reads the line-oriented depctl command language and drives an
// engine.Engine with it.
//
// Each line holds one command; tokens are separated by runs of whitespace and
// keywords are case-sensitive:
//
//	DEPEND <component> <dependency>...
//	INSTALL <component>
//	REMOVE <component>
//	LIST
//	END
//
// In text format the interpreter echoes every valid command and follows it with
// the engine's messages, one per line:
//
//	INSTALL BROWSER
//	Installing TCPIP
//	Installing BROWSER
//
// Unparseable lines print INVALID COMMAND. Blank lines are skipped. Processing
// stops after END.
//
// In JSON format each processed line produces one Record.
package command
