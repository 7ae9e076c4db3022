// Package report renders analysis results for the terminal.
package report

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/spendscope/spendscope/internal/cli"
	"github.com/spendscope/spendscope/internal/model"
)

// Styles contains all styling definitions for report formatting.
type Styles struct {
	// Base styles from CLI package
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Info     lipgloss.Style
	Subtle   lipgloss.Style
	Normal   lipgloss.Style

	// Report-specific styles
	Amount        lipgloss.Style
	PatternBox    lipgloss.Style
	InsightBox    lipgloss.Style
	SuggestionBox lipgloss.Style
}

// NewStyles creates a new Styles instance with default styling.
func NewStyles() *Styles {
	s := &Styles{
		// Import base styles from CLI package
		Title:    cli.TitleStyle,
		Subtitle: cli.SubtitleStyle,
		Success:  cli.SuccessStyle,
		Warning:  cli.WarningStyle,
		Error:    cli.ErrorStyle,
		Info:     cli.InfoStyle,
		Subtle:   cli.SubtleStyle,
		Normal:   lipgloss.NewStyle(),
	}

	s.Amount = lipgloss.NewStyle().
		Bold(true).
		Foreground(cli.PrimaryColor)

	s.PatternBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cli.InfoColor).
		Padding(0, 1).
		MarginTop(1)

	s.InsightBox = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(cli.InfoColor).
		Padding(0, 1).
		MarginTop(1)

	s.SuggestionBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cli.SuccessColor).
		Padding(0, 1).
		MarginTop(1)

	return s
}

// WithWidth returns a new Styles instance adjusted for the given terminal width.
func (s *Styles) WithWidth(width int) *Styles {
	// Create a copy
	newStyles := *s

	if width > 0 && width < 100 {
		patternBoxCopy := s.PatternBox
		newStyles.PatternBox = patternBoxCopy.Width(width - 4)
		insightBoxCopy := s.InsightBox
		newStyles.InsightBox = insightBoxCopy.Width(width - 4)
		suggestionBoxCopy := s.SuggestionBox
		newStyles.SuggestionBox = suggestionBoxCopy.Width(width - 4)
	}

	return &newStyles
}

// ForSeverity returns the appropriate style for the given insight severity.
func (s *Styles) ForSeverity(severity model.Severity) lipgloss.Style {
	switch severity {
	case model.SeveritySuccess:
		return s.Success
	case model.SeverityWarning:
		return s.Warning
	case model.SeverityError:
		return s.Error
	case model.SeverityInfo:
		return s.Info
	default:
		return s.Normal
	}
}

// RenderBox renders content in a styled box with optional title.
func (s *Styles) RenderBox(content string, title string, style lipgloss.Style) string {
	if title != "" {
		// Since BorderTitle isn't available in lipgloss v1.1.0,
		// we'll add the title as part of the content
		titleStyled := s.Info.Bold(true).Render(" " + title + " ")
		contentWithTitle := titleStyled + "\n" + content
		return style.Render(contentWithTitle)
	}
	return style.Render(content)
}
