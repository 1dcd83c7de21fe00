package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/stefanpenner/tandem/pkg/store"
)

// Color palette
var (
	ColorPurple      = lipgloss.Color("#7D56F4")
	ColorGreen       = lipgloss.Color("#25A065")
	ColorBlue        = lipgloss.Color("#4285F4")
	ColorRed         = lipgloss.Color("#E05252")
	ColorYellow      = lipgloss.Color("#E5C07B")
	ColorGray        = lipgloss.Color("#626262")
	ColorGrayDim     = lipgloss.Color("#404040")
	ColorWhite       = lipgloss.Color("#FFFFFF")
	ColorOffWhite    = lipgloss.Color("#D0D0D0")
	ColorSelectionBg = lipgloss.Color("#2D3B4D")
	ColorCyan        = lipgloss.Color("#56B6C2")
	ColorOrange      = lipgloss.Color("#D19A66")
)

// Header styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPurple)

	HeaderCountStyle = lipgloss.NewStyle().
				Foreground(ColorGray)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorGray)
)

// List styles
var (
	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite).
			Background(ColorSelectionBg)

	CompleteStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	InProgressStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	PlannedStyle = lipgloss.NewStyle().
			Foreground(ColorOffWhite)

	CategoryStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)

	CostStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	OrderStyle = lipgloss.NewStyle().
			Foreground(ColorGrayDim)
)

// Severity styles
var (
	SeverityHighStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorRed)

	SeverityMediumStyle = lipgloss.NewStyle().
				Foreground(ColorOrange)

	SeverityLowStyle = lipgloss.NewStyle().
				Foreground(ColorGreen)
)

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPurple).
			Padding(1, 2)

	ModalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPurple)

	PickerCategoryStyle = lipgloss.NewStyle().
				Foreground(ColorGray).
				Width(14)
)

// Input styles
var (
	InputPromptStyle = lipgloss.NewStyle().
				Foreground(ColorPurple).
				Bold(true)
)

// Search styles
var (
	ColorSearchRowBg  = lipgloss.Color("#1E1A2E")
	ColorSearchCharBg = lipgloss.Color("#2E2545")

	SearchBarStyle = lipgloss.NewStyle().
			Foreground(ColorWhite)

	SearchRowStyle = lipgloss.NewStyle().
			Background(ColorSearchRowBg)

	SearchCharStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPurple).
			Background(ColorSearchCharBg)

	SearchCharSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPurple).
				Background(ColorSelectionBg)

	SearchCountStyle = lipgloss.NewStyle().
				Foreground(ColorGray)
)

// Status icons
const (
	IconComplete   = "✓"
	IconInProgress = "◐"
	IconPlanned    = "○"
	IconPicker     = "›"
)

// SeverityStyle returns the style used to print s.
func SeverityStyle(s store.Severity) lipgloss.Style {
	switch s {
	case store.SeverityHigh:
		return SeverityHighStyle
	case store.SeverityMedium:
		return SeverityMediumStyle
	default:
		return SeverityLowStyle
	}
}

func statusIcon(g *store.Goal) string {
	switch {
	case g.IsComplete():
		return CompleteStyle.Render(IconComplete)
	case g.IsInProgress():
		return InProgressStyle.Render(IconInProgress)
	default:
		return PlannedStyle.Render(IconPlanned)
	}
}
