package session

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/teranos/efmig/errors"
	"github.com/teranos/efmig/parse"
	"github.com/teranos/efmig/tool"
	"github.com/teranos/efmig/workflow"
)

// Render writes an operation outcome for the user.
func Render(w io.Writer, out workflow.Outcome) {
	if out.Operation == "list" && out.Kind == workflow.Success {
		RenderMigrations(w, out.Migrations)
		printAll(w, pterm.Info, out.Messages)
		return
	}

	switch out.Kind {
	case workflow.Success:
		printAll(w, pterm.Success, out.Messages)
	case workflow.UpToDate, workflow.Empty, workflow.Cancelled:
		printAll(w, pterm.Info, out.Messages)
	case workflow.Invalid, workflow.Ambiguous:
		printAll(w, pterm.Warning, out.Messages)
	case workflow.Failure:
		printAll(w, pterm.Error, out.Messages)
		for _, hint := range errors.GetAllHints(out.Err) {
			fmt.Fprintf(w, "  %s %s\n", pterm.Gray("hint:"), hint)
		}
	}

	for _, step := range out.Steps {
		mark := pterm.Green("✓")
		if step.Kind != workflow.Success && step.Kind != workflow.UpToDate {
			mark = pterm.Red("✗")
		}
		fmt.Fprintf(w, "  %s %s %s %s\n", mark, step.Verb, step.Migration.ID, pterm.Gray(step.Kind.String()))
	}

	// ambiguous output is the only evidence of what happened, show it all
	if out.Kind == workflow.Ambiguous || out.Kind == workflow.Failure {
		for _, line := range out.Lines {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}

func printAll(w io.Writer, printer pterm.PrefixPrinter, messages []string) {
	for _, msg := range messages {
		fmt.Fprint(w, printer.Sprintln(msg))
	}
}

// RenderMigrations prints migrations as a numbered table, oldest first.
func RenderMigrations(w io.Writer, migrations []parse.Migration) {
	data := pterm.TableData{{"#", "Migration", "Status", "Source"}}
	for i, m := range migrations {
		status := pterm.Green("applied")
		if m.Pending {
			status = pterm.Yellow("pending")
		}
		source := m.SourceFile
		if source == "" {
			source = pterm.Gray("-")
		}
		data = append(data, []string{strconv.Itoa(i + 1), m.ID, status, source})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		for _, row := range data[1:] {
			fmt.Fprintln(w, row[0], row[1], row[2])
		}
		return
	}
	fmt.Fprintln(w, table)
}

// RenderUpdate reports a tool update run.
func RenderUpdate(w io.Writer, report tool.UpdateReport) {
	switch {
	case report.After == nil:
		fmt.Fprint(w, pterm.Warning.Sprintln("Tool updated, but its version could not be read."))
	case report.Before == nil:
		fmt.Fprint(w, pterm.Success.Sprintfln("Tool installed at %s", report.After))
	case report.Changed():
		fmt.Fprint(w, pterm.Success.Sprintfln("Tool updated %s → %s", report.Before, report.After))
	default:
		fmt.Fprint(w, pterm.Info.Sprintfln("Tool already at %s", report.After))
	}
}

// RenderError prints a failed step with its hints.
func RenderError(w io.Writer, err error) {
	fmt.Fprint(w, pterm.Error.Sprintln(err.Error()))
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(w, "  %s %s\n", pterm.Gray("hint:"), hint)
	}
}
