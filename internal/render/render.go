package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/agentx-labs/commitx/internal/compose"
	"github.com/agentx-labs/commitx/internal/pipeline"
)

var (
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed, color.Bold)
	hintColor = color.New(color.FgCyan)
	okColor   = color.New(color.FgGreen)
)

// SetColor forces coloured output on or off.
func SetColor(enabled bool) {
	color.NoColor = !enabled //nolint:reassign // library global
}

// Plan writes the proposals of plan as a table followed by its warnings and
// problems.
func Plan(w io.Writer, plan *pipeline.Plan) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Format.Footer = text.FormatDefault
	tbl.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})

	tbl.AppendHeader(table.Row{"#", "Message", "Files", "Lines", "Confidence"})
	for i, pr := range plan.Proposals {
		header := pr.Message.Header
		if pr.Err != nil {
			header = fmt.Sprintf("(needs a description) %s", pr.Group.Type.Code())
		}
		tbl.AppendRow(table.Row{
			i + 1,
			header + "\n" + fileList(pr),
			len(pr.Group.Files),
			lines(pr.Group.Delta),
			pr.Group.Confidence.String(),
		})
	}
	tbl.AppendFooter(table.Row{"", fmt.Sprintf("%d commit(s), %d file(s)",
		len(plan.Proposals), plan.Files()), "", "", ""})
	tbl.Render()

	Warnings(w, plan)
}

func fileList(pr pipeline.Proposal) string {
	var b strings.Builder
	for i, c := range pr.Group.Files {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("  ")
		if old := c.File.OldPath(); old != "" {
			b.WriteString(old + " -> ")
		}
		b.WriteString(c.File.Path())
	}
	return b.String()
}

func lines(n int) string {
	return humanize.Comma(int64(n))
}

// Warnings writes the oversized-group warnings and the uncomposable groups
// of plan. It writes nothing for a clean plan.
func Warnings(w io.Writer, plan *pipeline.Plan) {
	for _, warn := range plan.Warnings() {
		warnColor.Fprintf(w, "warning: commit %d: %s\n", warn.Proposal+1, warn.Message)
	}
	for i, pr := range plan.Proposals {
		if pr.Err == nil {
			continue
		}
		warnColor.Fprintf(w, "warning: commit %d: %v\n", i+1, pr.Err)
		var uerr *compose.UncomposableMessageError
		if errors.As(pr.Err, &uerr) {
			hintColor.Fprintf(w, "hint: describe it with --message\n")
		}
	}
}

// Report writes the commits created by Apply.
func Report(w io.Writer, report *pipeline.Report, dryRun bool) {
	verb := "committed"
	if dryRun {
		verb = "would commit"
	}
	for _, c := range report.Commits {
		okColor.Fprintf(w, "%s ", verb)
		fmt.Fprintf(w, "%s (%s)\n", c.Message.Header, pluralFiles(len(c.Paths)))
	}
	for _, pr := range report.Skipped {
		warnColor.Fprintf(w, "skipped %s\n", strings.Join(pr.Group.Paths(), ", "))
	}
}

func pluralFiles(n int) string {
	return english.Plural(n, "path", "")
}

// Error writes err and any hints attached to it.
func Error(w io.Writer, err error) {
	errColor.Fprintf(w, "Error: ")
	fmt.Fprintln(w, err.Error())
	for _, hint := range errors.GetAllHints(err) {
		hintColor.Fprintf(w, "hint: %s\n", hint)
	}
}
