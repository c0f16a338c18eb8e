package report

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/wenchiehlee-investment/Gemini-CLI/internal/core"
)

const (
	modelColumnWidth = 30
	limitColumnWidth = 15
	ruleWidth        = 85
	columnSeparator  = " | "
	missingCell      = "-"
)

var legend = []string{
	"RPM = Requests Per Minute, RPD = Requests Per Day, TPM = Tokens Per Minute",
	"'-' means no specific limit found (or unlimited if not explicitly set to -1).",
}

// Render formats the given models of the table as a fixed-width text report.
// Every line, including the last, ends in a newline.
func Render(table core.ModelLimitsTable, models []string) string {
	return render(table, models, nil)
}

// Block wraps a rendered report in a fenced text region for a managed
// document section. A non-zero generatedAt adds a "Last updated" line.
func Block(report string, generatedAt time.Time) string {
	var sb strings.Builder
	sb.WriteString("\n```text\n")
	if !generatedAt.IsZero() {
		sb.WriteString("Last updated: ")
		sb.WriteString(generatedAt.UTC().Format(time.RFC3339))
		sb.WriteString("\n\n")
	}
	sb.WriteString(report)
	if !strings.HasSuffix(report, "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString("```\n")
	return sb.String()
}

func render(table core.ModelLimitsTable, models []string, st *Styler) string {
	var sb strings.Builder
	line := func(s string) {
		sb.WriteString(s)
		sb.WriteString("\n")
	}

	header := []string{pad("Model Name", modelColumnWidth)}
	for _, cat := range core.Categories {
		header = append(header, pad(cat.Abbrev(), limitColumnWidth))
	}
	rule := strings.Repeat("-", ruleWidth)

	line(st.header(strings.Join(header, columnSeparator)))
	line(st.rule(rule))
	for _, model := range models {
		cells := []string{pad(model, modelColumnWidth)}
		for _, cat := range core.Categories {
			cells = append(cells, st.cell(table, model, cat))
		}
		line(strings.Join(cells, columnSeparator))
	}
	line(st.rule(rule))
	for _, l := range legend {
		line(st.legend(l))
	}
	return sb.String()
}

func cellText(table core.ModelLimitsTable, model string, cat core.LimitCategory) (string, core.LimitValue, bool) {
	v, ok := table.Get(model, cat)
	if !ok || v.IsUnset() {
		return missingCell, v, false
	}
	return v.String(), v, true
}

func pad(s string, width int) string {
	return s + padding(s, width)
}

func padding(s string, width int) string {
	if n := width - utf8.RuneCountInString(s); n > 0 {
		return strings.Repeat(" ", n)
	}
	return ""
}
