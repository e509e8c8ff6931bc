// Package report renders the end-of-run summary for the terminal.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/vvka-141/rawload/pkg/rawload"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	tableStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

// Renderer writes load summaries to a terminal or any writer.
type Renderer struct {
	out io.Writer
}

// NewRenderer creates a Renderer writing to out.
func NewRenderer(out io.Writer) *Renderer {
	if out == nil {
		panic("out cannot be nil")
	}
	return &Renderer{out: out}
}

// Render prints the summary for a completed run: status line, per-table
// counts, and the run identity footer.
func (r *Renderer) Render(report *rawload.LoadReport) {
	fmt.Fprintln(r.out)
	if report.Skipped {
		fmt.Fprintln(r.out, titleStyle.Render("Raw load skipped")+
			dimStyle.Render("  (data already present, set FORCE_RELOAD=1 to reload)"))
	} else {
		fmt.Fprintln(r.out, titleStyle.Render("Raw load complete"))
	}

	for _, t := range report.Tables {
		status := successStyle.Render(fmt.Sprintf("%6d loaded", t.Loaded))
		if report.Skipped {
			status = skippedStyle.Render("  skipped")
		}
		fmt.Fprintf(r.out, "  %s  %s  %s\n",
			tableStyle.Render(fmt.Sprintf("%-20s", t.Table)),
			status,
			dimStyle.Render(fmt.Sprintf("%d total", t.Total)))
	}

	fmt.Fprintln(r.out, dimStyle.Render(fmt.Sprintf("  database=%s run=%s duration=%s",
		report.Database, report.RunID, report.Duration().Round(time.Millisecond))))
}
