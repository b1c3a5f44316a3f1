package engine_test

import (
	"fmt"

	"github.com/openfroyo/depctl/pkg/engine"
)

// Example demonstrates installing a component together with its dependencies and
// removing it again.
func Example() {
	eng := engine.New()

	eng.Declare("TCPIP", []string{"NETCARD"})
	eng.Declare("BROWSER", []string{"TCPIP", "HTML"})

	res := eng.Install("BROWSER")
	for _, note := range res.Notifications {
		fmt.Println(note.Kind, note.Component)
	}

	fmt.Println(eng.List().Installed)

	res = eng.Remove("BROWSER")
	for _, note := range res.Notifications {
		fmt.Println(note.Kind, note.Component)
	}

	// Output:
	// installing NETCARD
	// installing TCPIP
	// installing HTML
	// installing BROWSER
	// [NETCARD TCPIP HTML BROWSER]
	// removing BROWSER
	// removing TCPIP
	// removing NETCARD
	// removing HTML
}

// ExampleEngine_Declare shows how cycles are rejected.
func ExampleEngine_Declare() {
	eng := engine.New()

	eng.Declare("TCPIP", []string{"NETCARD"})
	res := eng.Declare("NETCARD", []string{"TCPIP"})

	fmt.Println(engine.IsCycle(res.Err))
	fmt.Println(res.Err)

	// Output:
	// true
	// [permanent] TCPIP depends on NETCARD (component=NETCARD, operation=declare)
}

// ExampleEngine_Remove shows a removal blocked by an installed dependent.
func ExampleEngine_Remove() {
	eng := engine.New()

	eng.Declare("DNS", []string{"TCPIP"})
	eng.Install("DNS")

	res := eng.Remove("TCPIP")
	fmt.Println(engine.IsStillNeeded(res.Err), engine.IsRetryable(res.Err))

	// Output:
	// true true
}
