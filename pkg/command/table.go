package command

import (
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/openfroyo/depctl/pkg/engine"
)

// TableOptions controls how the state table is drawn.
type TableOptions struct {
	// Color highlights the status column.
	Color bool
}

// WriteStateTable writes one row per known component: its name, status and
// declared dependencies, followed by a footer with the installed count.
func WriteStateTable(w io.Writer, states []engine.ComponentState, opts TableOptions) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{"Component", "Status", "Depends On"})

	installed := 0
	for _, state := range states {
		if state.Status.IsInstalled() {
			installed++
		}
		t.AppendRow(table.Row{
			state.Name,
			statusCell(state.Status, opts.Color),
			strings.Join(state.Dependencies, ", "),
		})
	}

	t.AppendFooter(table.Row{"Installed", installed, ""})
	t.Render()
}

func statusCell(status engine.Status, color bool) string {
	label := string(status)
	if !color {
		return label
	}

	switch status {
	case engine.StatusInstalledExplicit:
		return text.FgGreen.Sprint(label)
	case engine.StatusInstalledAsDependency:
		return text.FgCyan.Sprint(label)
	case engine.StatusUninstalled:
		return text.FgYellow.Sprint(label)
	default:
		return text.FgHiBlack.Sprint(label)
	}
}
