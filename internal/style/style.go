package style

import (
	"image/color"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/gamut"
)

const (
	ColorGreen     = lipgloss.Color("40")
	ColorDimGreen  = lipgloss.Color("28")
	ColorCyan      = lipgloss.Color("51")
	ColorAmber     = lipgloss.Color("214")
	ColorBrightRed = lipgloss.Color("196")
	ColorLightGrey = lipgloss.Color("245")
	ColorDarkGrey  = lipgloss.Color("241")
	ColorGrey2     = lipgloss.Color("235")
)

const Background1 = "·"

// Styles
var (
	AppStyle = lipgloss.NewStyle().Padding(1, 2)

	HotkeyStyle = lipgloss.NewStyle().
			Foreground(ColorAmber).
			Bold(true)

	// Styling for remote screen section titles.
	ScreenTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorCyan)

	SubTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 0, 1).
			Foreground(ColorCyan)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorDarkGrey)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorAmber)

	DangerStyle = lipgloss.NewStyle().
			Foreground(ColorBrightRed).
			Bold(true)

	SolvedStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true)

	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(ColorCyan).
				Bold(true)

	DisabledControlStyle = lipgloss.NewStyle().
				Foreground(ColorDarkGrey).
				Strikethrough(true)

	ControlStyle = lipgloss.NewStyle().
			Foreground(ColorAmber).
			Bold(true)

	RemotePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorCyan).
				Padding(0, 1)

	TaskBarStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDimGreen).
			Padding(0, 1).
			Width(28)

	TaskActiveStyle = lipgloss.NewStyle().
			Foreground(ColorCyan).
			Bold(true)

	HopStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	TracedHopStyle = lipgloss.NewStyle().
			Foreground(ColorBrightRed).
			Bold(true)

	UnreadStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true)

	ReadStyle = lipgloss.NewStyle().
			Foreground(ColorLightGrey)

	SubScreenStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorCyan).
			Background(ColorGrey2).
			Padding(1, 1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCyan)

	DialogBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(ColorAmber).
			Padding(1, 2)
)

var Subtle = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}

var Blends = gamut.Blends(lipgloss.Color("#00FF41"), lipgloss.Color("#00FFFF"), 50)

func Rainbow(base lipgloss.Style, s string, colors []color.Color) string {
	var str string
	for i, ss := range s {
		c, _ := colorful.MakeColor(colors[i%len(colors)])
		str += base.Foreground(lipgloss.Color(c.Hex())).Render(string(ss))
	}
	return str
}

func RenderSubscreen(w, h int, title, content string) string {
	return lipgloss.Place(
		w,
		h,
		lipgloss.Center,
		lipgloss.Center,
		SubScreenStyle.Render(
			lipgloss.JoinVertical(
				lipgloss.Left,
				TitleStyle.Render(title),
				content,
			),
		),
		lipgloss.WithWhitespaceChars(Background1),
		lipgloss.WithWhitespaceForeground(Subtle),
	)
}
