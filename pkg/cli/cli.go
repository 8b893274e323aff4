// Package cli provides terminal output helpers for the uismith commands:
// a lipgloss color theme for progress reporting and structured output
// formatting (JSON, YAML, raw).
package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme for terminal output.
type Theme struct {
	Primary lipgloss.Color // accent color for labels and model names
	Dim     lipgloss.Color // secondary text
	Error   lipgloss.Color // failures
}

// DefaultTheme is the default bright green theme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#00ff9f"),
	Dim:     lipgloss.Color("#6e7681"),
	Error:   lipgloss.Color("#ff5d62"),
}

// Styles holds all styles derived from a theme.
type Styles struct {
	Title lipgloss.Style
	Model lipgloss.Style
	Stage lipgloss.Style
	Dim   lipgloss.Style
	Error lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Model: lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Stage: lipgloss.NewStyle().Foreground(t.Dim).Width(10),
		Dim:   lipgloss.NewStyle().Foreground(t.Dim),
		Error: lipgloss.NewStyle().Bold(true).Foreground(t.Error),
	}
}

// StageLine renders one progress line for a model's stage, e.g.
//
//	openai/gpt-4o  styling    1.2kB
func (s Styles) StageLine(model, stage string, n int) string {
	return fmt.Sprintf("%s  %s %s",
		s.Model.Render(model), s.Stage.Render(stage), s.Dim.Render(byteCount(n)))
}

// ErrorLine renders a model failure line.
func (s Styles) ErrorLine(model, msg string) string {
	return fmt.Sprintf("%s  %s", s.Model.Render(model), s.Error.Render(msg))
}

func byteCount(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%dB", n)
	}
	return fmt.Sprintf("%.1fkB", float64(n)/1000)
}
