package report

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/bslint/pkg/analysis"
	"github.com/Sumatoshi-tech/bslint/pkg/rules"
)

// palette colours severities and status lines. Colours are forced on or off
// per palette, independent of the terminal detection in [color.NoColor].
type palette struct {
	severity map[rules.Severity]*color.Color
	failure  *color.Color
	success  *color.Color
	dim      *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		severity: map[rules.Severity]*color.Color{
			rules.SeverityInfo:     color.New(color.FgCyan),
			rules.SeverityWarning:  color.New(color.FgYellow),
			rules.SeverityError:    color.New(color.FgRed),
			rules.SeverityCritical: color.New(color.FgRed, color.Bold),
		},
		failure: color.New(color.FgRed),
		success: color.New(color.FgGreen),
		dim:     color.New(color.Faint),
	}

	all := []*color.Color{p.failure, p.success, p.dim}
	for _, c := range p.severity {
		all = append(all, c)
	}

	for _, c := range all {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return p
}

func (p palette) sev(s rules.Severity) string {
	c, ok := p.severity[s]
	if !ok {
		return string(s)
	}

	return c.Sprint(string(s))
}

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateHeader = false

	return tbl
}

func writeText(w io.Writer, rep *analysis.Report, opts Options) error {
	p := newPalette(opts.Color)

	var b strings.Builder

	if len(rep.Violations) > 0 {
		tbl := newTable()
		tbl.AppendHeader(table.Row{"Module", "Location", "Severity", "Code", "Message"})

		for _, v := range rep.Violations {
			tbl.AppendRow(table.Row{
				v.ModuleName,
				fmt.Sprintf("%d:%d", v.Line, v.Column),
				p.sev(v.Severity),
				v.RuleCode,
				v.Message,
			})

			if opts.Snippets && v.CodeSnippet != "" {
				tbl.AppendRow(table.Row{"", "", "", "", p.dim.Sprint(strings.TrimSpace(v.CodeSnippet))})
			}
		}

		b.WriteString(tbl.Render())
		b.WriteString("\n\n")
	} else {
		b.WriteString(p.success.Sprint("No violations found."))
		b.WriteString("\n")
	}

	for _, m := range rep.Failed() {
		b.WriteString(p.failure.Sprintf("%s %s: %v", m.Status, m.Path, m.Err))
		b.WriteString("\n")
	}

	b.WriteString(summaryLine(rep, p))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	if err != nil {
		return fmt.Errorf("write text report: %w", err)
	}

	return nil
}

// summaryLine renders e.g. "3 violations (1 error, 2 warnings) in 2 modules, 1 failed, 12ms".
func summaryLine(rep *analysis.Report, p palette) string {
	counts := rep.CountBySeverity()

	var parts []string

	levels := rules.Severities()
	slices.Reverse(levels)

	for _, s := range levels {
		n := counts[s]
		if n == 0 {
			continue
		}

		word := english.PluralWord(n, strings.ToLower(string(s)), "")
		if c, ok := p.severity[s]; ok {
			word = c.Sprint(word)
		}

		parts = append(parts, humanize.Comma(int64(n))+" "+word)
	}

	line := fmt.Sprintf("%s %s", humanize.Comma(int64(len(rep.Violations))),
		english.PluralWord(len(rep.Violations), "violation", ""))
	if len(parts) > 0 {
		line += " (" + strings.Join(parts, ", ") + ")"
	}

	line += fmt.Sprintf(" in %s %s", humanize.Comma(int64(len(rep.Modules))),
		english.PluralWord(len(rep.Modules), "module", ""))

	if failed := len(rep.Failed()); failed > 0 {
		line += ", " + p.failure.Sprintf("%s failed", humanize.Comma(int64(failed)))
	}

	return line + ", " + rep.Duration.Round(time.Millisecond).String()
}

// WriteRules renders the rule catalog as a table.
func WriteRules(w io.Writer, rs []rules.Rule, colored bool) error {
	p := newPalette(colored)

	tbl := newTable()
	tbl.AppendHeader(table.Row{"Code", "Name", "Severity", "Description"})

	for _, r := range rs {
		tbl.AppendRow(table.Row{r.Code(), r.Name(), p.sev(r.Severity()), r.Description()})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d rules", len(rs))})

	_, err := fmt.Fprintln(w, tbl.Render())
	if err != nil {
		return fmt.Errorf("write rules table: %w", err)
	}

	return nil
}
