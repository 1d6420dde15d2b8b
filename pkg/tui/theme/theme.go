package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// Base16 color palette with orange, brown, yellow, and pink tones
// Based on Autumn theme with warm earth tones
var (
	ColorBase03 = lipgloss.Color("#5c5044") // Comments, invisibles
	ColorBase05 = lipgloss.Color("#ab937b") // Default foreground
	ColorBase06 = lipgloss.Color("#d3b597") // Light foreground

	ColorRed    = lipgloss.Color("#d95f5f") // Errors, deletions
	ColorOrange = lipgloss.Color("#eb8755") // Integers, booleans
	ColorYellow = lipgloss.Color("#f5b761") // Warnings, strings
	ColorGreen  = lipgloss.Color("#93b56b") // Success, additions
	ColorCyan   = lipgloss.Color("#61afaf") // Support, regex
	ColorBlue   = lipgloss.Color("#6b93b5") // Functions, methods
)

// Styles defines the Lipgloss styles for the TUI components
type Styles struct {
	ToolIndicator    lipgloss.Style
	ToolName         lipgloss.Style
	ToolOutputPrefix lipgloss.Style
	ToolSuccess      lipgloss.Style
	ToolError        lipgloss.Style
	ToolPending      lipgloss.Style

	MessageText   lipgloss.Style
	ReasoningText lipgloss.Style
	CitationNum   lipgloss.Style
	CitationDoc   lipgloss.Style
	StatusLine    lipgloss.Style
	Muted         lipgloss.Style
}

// DefaultStyles returns the stock styles
func DefaultStyles() *Styles {
	return &Styles{
		ToolIndicator:    lipgloss.NewStyle().Foreground(ColorOrange),
		ToolName:         lipgloss.NewStyle().Foreground(ColorBase06).Bold(true),
		ToolOutputPrefix: lipgloss.NewStyle().Foreground(ColorBase03),
		ToolSuccess:      lipgloss.NewStyle().Foreground(ColorGreen),
		ToolError:        lipgloss.NewStyle().Foreground(ColorRed),
		ToolPending:      lipgloss.NewStyle().Foreground(ColorYellow),

		MessageText:   lipgloss.NewStyle().Foreground(ColorBase05),
		ReasoningText: lipgloss.NewStyle().Foreground(ColorBase03).Italic(true),
		CitationNum:   lipgloss.NewStyle().Foreground(ColorBlue),
		CitationDoc:   lipgloss.NewStyle().Foreground(ColorCyan),
		StatusLine:    lipgloss.NewStyle().Foreground(ColorBase03),
		Muted:         lipgloss.NewStyle().Foreground(ColorBase03),
	}
}
