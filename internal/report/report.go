// Package report renders stored results as Markdown documents and HTML pages.
package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"statkit/domain/core"
	"statkit/domain/stats"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Markdown renders res as a Markdown document. Sections follow the report
// labels: metrics, groups, post-hoc comparisons, frequency table and vectors.
func Markdown(res *stats.Result) ([]byte, error) {
	if res == nil {
		return nil, core.ErrNoResultAvailable
	}
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", res.Kind())
	fmt.Fprintf(&b, "- Identifiant : `%s`\n", res.ID())
	fmt.Fprintf(&b, "- Date : %s\n\n", res.CreatedAt().UTC().Format(time.RFC3339))

	if metrics := res.Metrics(); len(metrics) > 0 {
		b.WriteString("## " + stats.LabelResults + "\n\n")
		rows := make([][]string, len(metrics))
		for i, m := range metrics {
			rows[i] = []string{res.MetricLabel(m.Name), formatFloat(m.Value)}
		}
		writeTable(&b, []string{"Mesure", "Valeur"}, rows)
	}

	if groups := res.Groups(); len(groups) > 0 {
		b.WriteString("## " + stats.LabelGroups + "\n\n")
		for _, g := range groups {
			fmt.Fprintf(&b, "- %s\n", escape(g))
		}
		b.WriteString("\n")
	}

	if coef, ok := res.Vector(stats.KeyCoefficients); ok {
		b.WriteString("## " + stats.LabelCoefficient + "\n\n")
		terms := res.Terms()
		rows := make([][]string, len(coef))
		for i, c := range coef {
			name := fmt.Sprintf("x%d", i)
			if i < len(terms) {
				name = terms[i]
			}
			rows[i] = []string{escape(name), formatFloat(c)}
		}
		writeTable(&b, []string{stats.LabelTerms, stats.LabelCoefficient}, rows)
	}

	if ph := res.PostHoc(); ph != nil {
		fmt.Fprintf(&b, "## %s : %s\n\n", stats.LabelPostHoc, ph.Method)
		header := []string{stats.LabelGroup1, stats.LabelGroup2, stats.LabelStatistic, stats.LabelPValue}
		tukey := ph.Method == stats.PostHocTukey
		if tukey {
			header = append(header, "Différence", "Rejet")
		}
		rows := make([][]string, len(ph.Comparisons))
		for i, c := range ph.Comparisons {
			row := []string{escape(c.Group1), escape(c.Group2), formatFloat(c.Statistic), formatFloat(c.PValue)}
			if tukey {
				row = append(row, formatFloat(c.MeanDiff), strconv.FormatBool(c.Reject))
			}
			rows[i] = row
		}
		writeTable(&b, header, rows)
	}

	if table, ok := res.Table(); ok {
		b.WriteString("## " + stats.LabelValues + "\n\n")
		header := append([]string{stats.LabelValues}, table.Columns...)
		rows := make([][]string, len(table.Index))
		for r, label := range table.Index {
			row := []string{escape(label)}
			for c := range table.Columns {
				row = append(row, formatFloat(table.Values[c][r]))
			}
			rows[r] = row
		}
		writeTable(&b, header, rows)
	}

	if rolled, ok := res.Vector(stats.KeyRollingValues); ok {
		b.WriteString("## Moyennes glissantes\n\n")
		parts := make([]string, len(rolled))
		for i, v := range rolled {
			parts[i] = formatFloat(v)
		}
		b.WriteString(strings.Join(parts, ", ") + "\n")
	}

	return []byte(b.String()), nil
}

// HTML renders res as a complete HTML page
func HTML(res *stats.Result) ([]byte, error) {
	md, err := Markdown(res)
	if err != nil {
		return nil, err
	}
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: string(res.Kind()),
		Flags: html.CommonFlags | html.CompletePage | html.HrefTargetBlank,
	})
	return markdown.ToHTML(md, p, renderer), nil
}

func writeTable(b *strings.Builder, header []string, rows [][]string) {
	b.WriteString("| " + strings.Join(header, " | ") + " |\n")
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	b.WriteString("| " + strings.Join(sep, " | ") + " |\n")
	for _, row := range rows {
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	b.WriteString("\n")
}

func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
