// Package report renders table summaries as Markdown and HTML documents.
package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	domain "goviz/domain/summary"
)

// Markdown renders s as a Markdown document headed by title.
func Markdown(title string, s domain.TableSummary) []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "# %s\n\n", escape(title))
	fmt.Fprintf(&b, "- Rows: %d\n- Columns: %d\n- Data kind: %s\n\n", s.RowCount, s.ColumnCount, s.DataKind)

	b.WriteString("## Columns\n\n")
	b.WriteString("| Column | Type | Missing |\n|---|---|---|\n")
	for _, c := range s.Columns {
		fmt.Fprintf(&b, "| %s | %s | %d |\n", escape(c.Name), c.Type, c.MissingCount)
	}
	b.WriteString("\n")

	writeNumeric(&b, s.Columns)
	writeCategorical(&b, s.Columns)

	return b.Bytes()
}

func writeNumeric(b *bytes.Buffer, columns []domain.ColumnSummary) {
	var rows []string
	for _, c := range columns {
		if c.Kind != domain.KindNumeric {
			continue
		}
		if c.Numeric == nil {
			rows = append(rows, fmt.Sprintf("| %s | %s |||||\n", escape(c.Name), escape(c.StatsError)))
			continue
		}
		n := c.Numeric
		rows = append(rows, fmt.Sprintf("| %s | %s | %s | %s | %s | %s |\n",
			escape(c.Name), decimal(n.Min), decimal(n.Max), decimal(n.Mean), decimal(n.Median), number(n.StdDev)))
	}
	if len(rows) == 0 {
		return
	}

	b.WriteString("## Numeric columns\n\n")
	b.WriteString("| Column | Min | Max | Mean | Median | Std |\n|---|---|---|---|---|---|\n")
	for _, r := range rows {
		b.WriteString(r)
	}
	b.WriteString("\n")
}

func writeCategorical(b *bytes.Buffer, columns []domain.ColumnSummary) {
	header := false
	for _, c := range columns {
		if c.Categorical == nil {
			continue
		}
		if !header {
			b.WriteString("## Categorical columns\n\n")
			header = true
		}

		cat := c.Categorical
		fmt.Fprintf(b, "### %s\n\n", escape(c.Name))
		fmt.Fprintf(b, "Unique values: %d", cat.UniqueCount)
		if cat.Truncated {
			b.WriteString(" (showing the most frequent)")
		}
		b.WriteString("\n\n")

		if len(cat.TopValues) == 0 {
			continue
		}
		b.WriteString("| Value | Count |\n|---|---|\n")
		for _, vc := range cat.TopValues {
			fmt.Fprintf(b, "| %s | %d |\n", escape(vc.Value), vc.Count)
		}
		b.WriteString("\n")
	}
}

// HTML renders s as an HTML fragment.
func HTML(title string, s domain.TableSummary) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse(Markdown(title, s))

	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return markdown.Render(doc, renderer)
}

func decimal(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func number(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 4, 64)
}

var escaper = strings.NewReplacer(
	"|", `\|`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"<", "&lt;",
	">", "&gt;",
	"\n", " ",
)

// escape makes s safe to place in a Markdown table cell or heading.
func escape(s string) string {
	return escaper.Replace(s)
}
