package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lysyi3m/rss-mood/app/sentiment"
)

const consoleWidth = 100

var (
	positiveColor = lipgloss.Color("#2DA44E")
	neutralColor  = lipgloss.Color("#D29922")
	negativeColor = lipgloss.Color("#CF222E")
	dimColor      = lipgloss.Color("#6E7681")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			MarginBottom(1)

	ruleStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	labelStyle = lipgloss.NewStyle().
			Bold(true)

	panelStyle = lipgloss.NewStyle().
			Foreground(neutralColor).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(neutralColor).
			Padding(0, 1)

	errorPanelStyle = panelStyle.
			Foreground(negativeColor).
			BorderForeground(negativeColor)

	metaStyle = lipgloss.NewStyle().
			Foreground(dimColor).
			Italic(true)

	barStyles = map[sentiment.Label]lipgloss.Style{
		sentiment.Positive: lipgloss.NewStyle().Foreground(positiveColor),
		sentiment.Neutral:  lipgloss.NewStyle().Foreground(neutralColor),
		sentiment.Negative: lipgloss.NewStyle().Foreground(negativeColor),
	}
)

// Console prints the report as a styled terminal summary.
func Console(w io.Writer, rpt *Report) {
	var b strings.Builder

	b.WriteString(titleStyle.Render(Title))
	b.WriteString("\n")

	for _, d := range rpt.Distributions {
		switch d.Status {
		case StatusOK, StatusDisabled:
			b.WriteString(rule(fmt.Sprintf(" %s (last %d articles) ", d.Source, d.Total)))
			b.WriteString("\n\n")
			for _, bar := range d.Bars {
				b.WriteString(labelStyle.Render(fmt.Sprintf("%-10s %5.1f%% ", bar.Label, bar.Percent)))
				b.WriteString(barStyles[bar.Label].Render(strings.Repeat(BarChar, bar.Width)))
				b.WriteString("\n")
			}
			if d.Status == StatusDisabled {
				b.WriteString(metaStyle.Render("feed disabled"))
				b.WriteString("\n")
			}
			b.WriteString(rule(""))
			b.WriteString("\n\n")
		case StatusError:
			b.WriteString(errorPanelStyle.Render(d.Source + "\n" + d.Message))
			b.WriteString("\n\n")
		default:
			b.WriteString(panelStyle.Render(d.Source + "\n" + d.Message))
			b.WriteString("\n\n")
		}
	}

	b.WriteString(metaStyle.Render(fmt.Sprintf("Report saved to %s", rpt.Path)))
	b.WriteString("\n")

	fmt.Fprint(w, b.String())
}

func rule(title string) string {
	fill := consoleWidth - lipgloss.Width(title)
	if fill < 0 {
		fill = 0
	}
	left := fill / 2
	return ruleStyle.Render(strings.Repeat("─", left)) +
		labelStyle.Render(title) +
		ruleStyle.Render(strings.Repeat("─", fill-left))
}
