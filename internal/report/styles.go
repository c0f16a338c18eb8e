package report

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wenchiehlee-investment/Gemini-CLI/internal/core"
)

var (
	colorText     = lipgloss.Color("#CDD6F4")
	colorSubtext  = lipgloss.Color("#A6ADC8")
	colorSurface1 = lipgloss.Color("#45475A")
	colorGreen    = lipgloss.Color("#A6E3A1")
	colorBlue     = lipgloss.Color("#89B4FA")
)

// Styler renders the report with terminal colors. A nil *Styler renders
// plain text.
type Styler struct {
	headerStyle    lipgloss.Style
	ruleStyle      lipgloss.Style
	legendStyle    lipgloss.Style
	numberStyle    lipgloss.Style
	unlimitedStyle lipgloss.Style
	missingStyle   lipgloss.Style
}

// NewStyler builds a Styler whose color profile is detected from w.
func NewStyler(w io.Writer) *Styler {
	r := lipgloss.NewRenderer(w)
	return &Styler{
		headerStyle:    r.NewStyle().Foreground(colorBlue).Bold(true),
		ruleStyle:      r.NewStyle().Foreground(colorSurface1),
		legendStyle:    r.NewStyle().Foreground(colorSubtext).Italic(true),
		numberStyle:    r.NewStyle().Foreground(colorText),
		unlimitedStyle: r.NewStyle().Foreground(colorGreen).Bold(true),
		missingStyle:   r.NewStyle().Foreground(colorSurface1),
	}
}

// Render formats the report like the package-level Render, with styling.
// Stripping ANSI sequences from the result yields the plain report.
func (s *Styler) Render(table core.ModelLimitsTable, models []string) string {
	return render(table, models, s)
}

func (s *Styler) header(text string) string {
	if s == nil {
		return text
	}
	trimmed := strings.TrimRight(text, " ")
	return s.headerStyle.Render(trimmed) + text[len(trimmed):]
}

func (s *Styler) rule(text string) string {
	if s == nil {
		return text
	}
	return s.ruleStyle.Render(text)
}

func (s *Styler) legend(text string) string {
	if s == nil {
		return text
	}
	return s.legendStyle.Render(text)
}

// cell pads before styling so escape sequences never count toward width.
func (s *Styler) cell(table core.ModelLimitsTable, model string, cat core.LimitCategory) string {
	text, v, ok := cellText(table, model, cat)
	if s == nil {
		return pad(text, limitColumnWidth)
	}
	style := s.numberStyle
	switch {
	case !ok:
		style = s.missingStyle
	case v.IsUnlimited():
		style = s.unlimitedStyle
	}
	return style.Render(text) + padding(text, limitColumnWidth)
}
