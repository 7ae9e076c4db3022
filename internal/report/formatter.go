package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/spendscope/spendscope/internal/cli"
	"github.com/spendscope/spendscope/internal/model"
)

// Report bundles everything one analysis run produced for display.
type Report struct {
	Run         *model.AnalysisRun
	Patterns    []model.Pattern
	Habits      *model.HabitSummary
	Insights    []model.Insight
	Suggestions []model.Suggestion
}

// CLIFormatter renders reports for terminal display.
type CLIFormatter struct {
	styles *Styles
}

// NewCLIFormatter creates a new CLI formatter with default styles.
func NewCLIFormatter() *CLIFormatter {
	return &CLIFormatter{
		styles: NewStyles(),
	}
}

// NewCLIFormatterWithWidth creates a formatter sized for a narrow terminal.
// A width of 0 keeps the default box sizing.
func NewCLIFormatterWithWidth(width int) *CLIFormatter {
	return &CLIFormatter{
		styles: NewStyles().WithWidth(width),
	}
}

// FormatSummary creates a high-level summary of the analysis report.
func (f *CLIFormatter) FormatSummary(report *Report) string {
	if report == nil {
		return f.styles.Error.Render("No report available")
	}

	var sections []string

	sections = append(sections, f.formatHeader(report))

	if len(report.Patterns) > 0 {
		sections = append(sections, f.FormatPatterns(report.Patterns))
	}

	if report.Habits != nil {
		sections = append(sections, f.FormatHabits(report.Habits))
	}

	if len(report.Insights) > 0 {
		sections = append(sections, f.FormatInsights(report.Insights))
	}

	if len(report.Suggestions) > 0 {
		sections = append(sections, f.FormatSuggestions(report.Suggestions))
	}

	return strings.Join(sections, "\n\n")
}

func (f *CLIFormatter) formatHeader(report *Report) string {
	title := f.styles.Title.Render(cli.ChartIcon + " Spending Analysis Report")

	if report.Run == nil {
		return title
	}

	meta := fmt.Sprintf("Focus: %s | Transactions: %d | Patterns: %d | Insights: %d",
		report.Run.Focus, report.Run.Transactions, report.Run.Patterns, report.Run.Insights)

	return title + "\n" + f.styles.Subtle.Render(meta)
}

// FormatPatterns renders detected patterns grouped into one box.
func (f *CLIFormatter) FormatPatterns(patterns []model.Pattern) string {
	var lines []string
	for _, p := range patterns {
		lines = append(lines, f.formatPattern(p))
	}
	return f.styles.RenderBox(strings.Join(lines, "\n"), "Detected Patterns", f.styles.PatternBox)
}

func (f *CLIFormatter) formatPattern(p model.Pattern) string {
	switch p.Type {
	case model.PatternRecurring:
		line := fmt.Sprintf("↻ %s: $%.2f", p.Merchant, p.AverageAmount)
		if p.FrequencyDays > 0 {
			line += fmt.Sprintf(" every %.0f days", p.FrequencyDays)
		}
		line += f.styles.Subtle.Render(fmt.Sprintf(" (%d occurrences, %.0f%% confidence)",
			p.Occurrences, p.Confidence*100))
		return line
	case model.PatternSpike:
		style := f.styles.Info
		if p.Severity == model.PatternSeverityHigh {
			style = f.styles.Warning
		}
		return style.Render(fmt.Sprintf("▲ %s spiked to $%.2f in %s %d (%.1fx usual)",
			p.Category, p.TotalAmount, p.Month, p.Year, p.SpikeRatio))
	case model.PatternSeasonal:
		return fmt.Sprintf("❄ %s peaks in %s, averaging $%.2f per active month",
			p.Category, p.Season, p.AverageAmount)
	default:
		return fmt.Sprintf("• %s: $%.2f", p.Category, p.TotalAmount)
	}
}

// FormatHabits renders the habit summary.
func (f *CLIFormatter) FormatHabits(habits *model.HabitSummary) string {
	var lines []string

	lines = append(lines, fmt.Sprintf("Average transaction: %s",
		f.styles.Amount.Render(fmt.Sprintf("$%.2f", habits.AverageTransaction))))
	lines = append(lines, fmt.Sprintf("Weekday average: $%.2f | Weekend average: $%.2f",
		habits.WeekdayAverage, habits.WeekendAverage))

	if len(habits.TopMerchants) > 0 {
		lines = append(lines, "", f.styles.Subtitle.Render("Most visited merchants:"))
		nameCol := cli.TableCellStyle.Width(24)
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			cli.TableHeaderStyle.Width(24).Render("Merchant"),
			cli.TableHeaderStyle.Render("Visits / Total")))
		for i, m := range habits.TopMerchants {
			if i >= 5 {
				break
			}
			lines = append(lines, nameCol.Render(fmt.Sprintf("%d. %s", i+1, m.Merchant))+
				fmt.Sprintf("%d / $%.2f", m.Visits, m.Total))
		}
	}

	return f.styles.RenderBox(strings.Join(lines, "\n"), "Spending Habits", f.styles.PatternBox)
}

// FormatInsights renders insights with severity styling.
func (f *CLIFormatter) FormatInsights(insights []model.Insight) string {
	var lines []string
	for _, ins := range insights {
		icon := f.severityIcon(ins.Severity)
		lines = append(lines, f.styles.ForSeverity(ins.Severity).Render(icon+" "+ins.Message))
	}
	return f.styles.RenderBox(strings.Join(lines, "\n"), "Insights", f.styles.InsightBox)
}

// FormatSuggestions renders actionable suggestions.
func (f *CLIFormatter) FormatSuggestions(suggestions []model.Suggestion) string {
	var lines []string
	for _, s := range suggestions {
		line := cli.BoldStyle.Render(s.Title)
		if s.PotentialSavings != nil {
			line += f.styles.Success.Render(fmt.Sprintf(" (save $%.2f)", *s.PotentialSavings))
		}
		lines = append(lines, line)
		if s.Description != "" {
			lines = append(lines, f.styles.Subtle.Render("  "+s.Description))
		}
	}
	return f.styles.RenderBox(strings.Join(lines, "\n"), cli.MoneyIcon+" Suggestions", f.styles.SuggestionBox)
}

func (f *CLIFormatter) severityIcon(severity model.Severity) string {
	switch severity {
	case model.SeveritySuccess:
		return "✓"
	case model.SeverityWarning:
		return "⚠"
	case model.SeverityError:
		return "✗"
	default:
		return "•"
	}
}
