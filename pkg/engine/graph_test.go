package engine

import (
	"reflect"
	"strconv"
	"strings"
	"testing"
)

func TestDependencyGraph_Declare_Empty(t *testing.T) {
	g := NewDependencyGraph()

	if err := g.Declare("A", nil); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	deps := g.Dependencies("A")
	if deps == nil || len(deps) != 0 {
		t.Errorf("Expected empty non-nil dependency list, got %v", deps)
	}

	if got := g.Dependencies("missing"); got != nil {
		t.Errorf("Expected nil for undeclared component, got %v", got)
	}
}

func TestDependencyGraph_Declare_PreservesOrderAndDuplicates(t *testing.T) {
	g := NewDependencyGraph()

	if err := g.Declare("A", []string{"C", "B", "C"}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	want := []string{"C", "B", "C"}
	if got := g.Dependencies("A"); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestDependencyGraph_Declare_ReplacesWholesale(t *testing.T) {
	g := NewDependencyGraph()

	if err := g.Declare("A", []string{"B", "C"}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if err := g.Declare("A", []string{"D"}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	want := []string{"D"}
	if got := g.Dependencies("A"); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	// B is no longer reachable, so B -> A is now legal
	if err := g.Declare("B", []string{"A"}); err != nil {
		t.Errorf("Expected B -> A to be accepted after redeclaration, got: %v", err)
	}
}

func TestDependencyGraph_Declare_CopiesInput(t *testing.T) {
	g := NewDependencyGraph()
	deps := []string{"B", "C"}

	if err := g.Declare("A", deps); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	deps[0] = "X"

	out := g.Dependencies("A")
	out[1] = "Y"

	want := []string{"B", "C"}
	if got := g.Dependencies("A"); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected graph to be isolated from callers, got %v", got)
	}
}

func TestDependencyGraph_Declare_NameValidation(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		deps      []string
		wantCode  string
		component string
	}{
		{
			name:      "target too long",
			target:    "LOOOOOOOONNNNNGGGGGG",
			deps:      []string{"AAAAAAAAAAAAAAAAAAAAAAA"},
			wantCode:  ErrCodeNameTooLong,
			component: "LOOOOOOOONNNNNGGGGGG",
		},
		{
			name:      "dependency too long",
			target:    "A",
			deps:      []string{"B", "ELEVENCHARS"},
			wantCode:  ErrCodeNameTooLong,
			component: "ELEVENCHARS",
		},
		{
			name:     "empty dependency",
			target:   "A",
			deps:     []string{""},
			wantCode: ErrCodeEmptyName,
		},
		{
			name:     "empty target",
			target:   "",
			wantCode: ErrCodeEmptyName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewDependencyGraph()
			err := g.Declare(tt.target, tt.deps)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if CodeOf(err) != tt.wantCode {
				t.Errorf("Expected code %s, got %s", tt.wantCode, CodeOf(err))
			}
			if !IsPermanent(err) {
				t.Errorf("Expected permanent error, got: %v", err)
			}
			if tt.component != "" {
				var e *EngineError
				e, _ = err.(*EngineError)
				if e == nil || e.Component != tt.component {
					t.Errorf("Expected component %s in error, got: %v", tt.component, err)
				}
			}
			if len(g.Targets()) != 0 {
				t.Errorf("Expected graph to be unchanged, got targets %v", g.Targets())
			}
		})
	}
}

func TestDependencyGraph_Declare_TenCharactersAllowed(t *testing.T) {
	g := NewDependencyGraph()

	if err := g.Declare("TENCHARSXX", []string{"ÅÅÅÅÅÅÅÅÅÅ"}); err != nil {
		t.Errorf("Expected 10-character names to be accepted, got: %v", err)
	}
}

func TestDependencyGraph_Declare_RejectsCycle(t *testing.T) {
	g := NewDependencyGraph()

	if err := g.Declare("TCPIP", []string{"NETCARD"}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	err := g.Declare("NETCARD", []string{"TCPIP"})
	if !IsCycle(err) {
		t.Fatalf("Expected cycle rejection, got: %v", err)
	}

	e := err.(*EngineError)
	if e.Message != "TCPIP depends on NETCARD" {
		t.Errorf("Expected message 'TCPIP depends on NETCARD', got %q", e.Message)
	}
	if e.DetailString(DetailDependency) != "TCPIP" {
		t.Errorf("Expected dependency detail TCPIP, got %q", e.DetailString(DetailDependency))
	}

	if deps := g.Dependencies("NETCARD"); deps != nil {
		t.Errorf("Expected NETCARD to stay undeclared, got %v", deps)
	}
}

func TestDependencyGraph_Declare_RejectsTransitiveCycleAtomically(t *testing.T) {
	g := NewDependencyGraph()

	mustDeclare(t, g, "A", "B")
	mustDeclare(t, g, "B", "C")
	mustDeclare(t, g, "C", "D")

	// the first dependency is fine, the second closes A -> B -> C -> D -> A
	err := g.Declare("D", []string{"E", "A"})
	if !IsCycle(err) {
		t.Fatalf("Expected cycle rejection, got: %v", err)
	}
	if !strings.Contains(err.Error(), "A depends on D") {
		t.Errorf("Expected error to name the offending pair, got: %v", err)
	}
	if deps := g.Dependencies("D"); deps != nil {
		t.Errorf("Expected no partial edge application, got %v", deps)
	}
}

func TestDependencyGraph_Declare_RejectsSelfDependency(t *testing.T) {
	g := NewDependencyGraph()

	err := g.Declare("A", []string{"A"})
	if !IsCycle(err) {
		t.Fatalf("Expected self-dependency to be rejected as a cycle, got: %v", err)
	}
}

func TestDependencyGraph_TransitiveClosure(t *testing.T) {
	g := NewDependencyGraph()

	mustDeclare(t, g, "TELNET", "TCPIP", "NETCARD")
	mustDeclare(t, g, "TCPIP", "NETCARD")
	mustDeclare(t, g, "BROWSER", "TCPIP", "HTML")

	tests := []struct {
		name string
		want []string
	}{
		{name: "TELNET", want: []string{"NETCARD", "TCPIP", "TELNET"}},
		{name: "BROWSER", want: []string{"NETCARD", "TCPIP", "HTML", "BROWSER"}},
		{name: "NETCARD", want: []string{"NETCARD"}},
		{name: "unknown", want: []string{"unknown"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.TransitiveClosure(tt.name); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestDependencyGraph_TransitiveClosure_Diamond(t *testing.T) {
	g := NewDependencyGraph()

	mustDeclare(t, g, "A", "B", "C")
	mustDeclare(t, g, "B", "D")
	mustDeclare(t, g, "C", "D")

	want := []string{"D", "B", "C", "A"}
	if got := g.TransitiveClosure("A"); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestDependencyGraph_TransitiveClosure_DeepChain(t *testing.T) {
	g := NewDependencyGraph()

	const depth = 20000
	names := make([]string, depth)
	for i := range names {
		names[i] = chainName(i)
	}
	for i := 0; i < depth-1; i++ {
		mustDeclare(t, g, names[i], names[i+1])
	}

	closure := g.TransitiveClosure(names[0])
	if len(closure) != depth {
		t.Fatalf("Expected %d components, got %d", depth, len(closure))
	}
	if closure[0] != names[depth-1] || closure[depth-1] != names[0] {
		t.Errorf("Expected deepest dependency first and root last, got %s ... %s",
			closure[0], closure[depth-1])
	}
}

func TestDependencyGraph_IsReachable(t *testing.T) {
	g := NewDependencyGraph()

	mustDeclare(t, g, "A", "B")
	mustDeclare(t, g, "B", "C")

	tests := []struct {
		from, to string
		want     bool
	}{
		{"A", "B", true},
		{"A", "C", true},
		{"B", "C", true},
		{"C", "A", false},
		{"B", "A", false},
		{"A", "A", false},
		{"X", "A", false},
	}

	for _, tt := range tests {
		if got := g.IsReachable(tt.from, tt.to); got != tt.want {
			t.Errorf("IsReachable(%s, %s): expected %v, got %v", tt.from, tt.to, tt.want, got)
		}
	}
}

func TestDependencyGraph_NeverReachesItself(t *testing.T) {
	g := NewDependencyGraph()

	declarations := [][]string{
		{"A", "B", "C"},
		{"B", "C"},
		{"C", "A"},
		{"C", "D"},
		{"D", "B"},
		{"E", "A", "D"},
		{"D", "E"},
		{"A", "A"},
	}

	for _, d := range declarations {
		_ = g.Declare(d[0], d[1:])
		for _, name := range g.Nodes() {
			for _, dep := range g.Dependencies(name) {
				if g.IsReachable(dep, name) {
					t.Fatalf("Cycle through %s -> %s after declaring %v", name, dep, d)
				}
			}
		}
	}
}

func TestDependencyGraph_ToDOT(t *testing.T) {
	g := NewDependencyGraph()
	mustDeclare(t, g, "A", "B")

	dot := g.ToDOT(func(name string) Status {
		if name == "B" {
			return StatusInstalledAsDependency
		}
		return StatusNotInstalled
	})

	for _, want := range []string{
		"digraph Dependencies {",
		`"A" [fillcolor="white"];`,
		`"B" [fillcolor="lightblue"];`,
		`"A" -> "B";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("Expected DOT output to contain %q, got:\n%s", want, dot)
		}
	}
}

func mustDeclare(t *testing.T, g *DependencyGraph, target string, deps ...string) {
	t.Helper()
	if err := g.Declare(target, deps); err != nil {
		t.Fatalf("Declare(%s, %v) failed: %v", target, deps, err)
	}
}

func chainName(i int) string {
	return "N" + strconv.Itoa(i)
}
