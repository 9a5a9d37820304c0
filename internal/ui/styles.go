package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Color palette for document output
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple - headers, borders
	SuccessColor = lipgloss.Color("#43BF6D") // Green - success, inserted lines
	ErrorColor   = lipgloss.Color("#FF5555") // Red - errors, deleted lines
	WarningColor = lipgloss.Color("#FFA500") // Orange - warnings
	MutedColor   = lipgloss.Color("#626262") // Gray - secondary info
	TextColor    = lipgloss.Color("#FFFFFF") // White - main content
	StringColor  = lipgloss.Color("#E6DB74") // Yellow - string values
	NumberColor  = lipgloss.Color("#AE81FF") // Violet - numbers
	BoolColor    = lipgloss.Color("#66D9EF") // Cyan - booleans
)

// Layout constants
const (
	MinTerminalWidth = 60  // Minimum supported terminal width
	MaxContentWidth  = 100 // Maximum content width before capping
)

// Shared styles
var (
	// HeaderTitleStyle is for the command title (e.g., "DOCUMENT")
	HeaderTitleStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Bold(true).
				PaddingLeft(2)

	// HeaderCommandStyle is for the source line (e.g., "robot.yaml")
	HeaderCommandStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				PaddingLeft(2)

	// HeaderParamKeyStyle is for parameter keys (e.g., "Format:")
	HeaderParamKeyStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				PaddingLeft(2)

	// HeaderParamValueStyle is for parameter values
	HeaderParamValueStyle = lipgloss.NewStyle().
				Foreground(TextColor)

	// SuccessTitleStyle is for the success result title
	SuccessTitleStyle = lipgloss.NewStyle().
				Foreground(SuccessColor).
				Bold(true)

	// ErrorTitleStyle is for the error result title
	ErrorTitleStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	// ErrorMessageStyle is for error message text
	ErrorMessageStyle = lipgloss.NewStyle().
				Foreground(ErrorColor)

	// ResultKeyStyle is for result detail keys
	ResultKeyStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Width(15)

	// ResultValueStyle is for result detail values
	ResultValueStyle = lipgloss.NewStyle().
				Foreground(TextColor)

	// MessagesTitleStyle is for "Messages:" headers
	MessagesTitleStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				Bold(true)

	// MessagesItemStyle is for document error messages
	MessagesItemStyle = lipgloss.NewStyle().
				Foreground(MutedColor)

	// TreeKeyStyle is for group keys in the document tree
	TreeKeyStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	// TreeArrayStyle is for array keys and item indices
	TreeArrayStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	// TreeEnumeratorStyle is for the tree branches
	TreeEnumeratorStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				PaddingRight(1)

	// StringValueStyle, NumberValueStyle and BoolValueStyle color scalars by kind
	StringValueStyle = lipgloss.NewStyle().Foreground(StringColor)
	NumberValueStyle = lipgloss.NewStyle().Foreground(NumberColor)
	BoolValueStyle   = lipgloss.NewStyle().Foreground(BoolColor)

	// InsertLineStyle and DeleteLineStyle color diff lines
	InsertLineStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	DeleteLineStyle = lipgloss.NewStyle().Foreground(ErrorColor)
)

// Result markers
const (
	SuccessMarker = "✓"
	FailureMarker = "✗"
	WarningMarker = "⚠"
)

// SetColorEnabled switches colored output on or off for lipgloss and
// go-pretty alike
func SetColorEnabled(enabled bool) {
	if enabled {
		lipgloss.SetColorProfile(termenv.EnvColorProfile())
		text.EnableColors()
		return
	}
	lipgloss.SetColorProfile(termenv.Ascii)
	text.DisableColors()
}

// GetTerminalWidth returns the current terminal width, with fallback
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}

// IsTerminal reports whether stdout is a terminal
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// RenderHorizontalDivider creates a horizontal line of the specified width
func RenderHorizontalDivider(width int, char string) string {
	return lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Render(strings.Repeat(char, width))
}
