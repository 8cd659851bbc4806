package style

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// Banner gradient stops.
var (
	GradientGreen color.Color = lipgloss.Color("#00FF41")
	GradientCyan  color.Color = lipgloss.Color("#00FFFF")
)

// blend returns size colors interpolated between the two stops.
// Interpolation is done in Hcl to stay in gamut.
func blend(size int, from, to color.Color) []color.Color {
	c1, _ := colorful.MakeColor(from)
	c2, _ := colorful.MakeColor(to)

	out := make([]color.Color, 0, size)
	for i := range size {
		var t float64
		if size > 1 {
			t = float64(i) / float64(size-1)
		}
		out = append(out, c1.BlendHcl(c2, t))
	}
	return out
}

// BoldGradient renders s with a horizontal foreground gradient and bold
// styling. Splits into grapheme clusters so wide runes color correctly.
func BoldGradient(s string, from, to color.Color) string {
	if s == "" {
		return ""
	}

	var clusters []string
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		clusters = append(clusters, string(gr.Runes()))
	}

	if len(clusters) == 1 {
		c, _ := colorful.MakeColor(from)
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.Hex())).Render(s)
	}

	ramp := blend(len(clusters), from, to)
	var o strings.Builder
	for i, cl := range clusters {
		c, _ := colorful.MakeColor(ramp[i])
		o.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.Hex())).Render(cl))
	}
	return o.String()
}

// TraceBar renders a trace-progress bar of the given width where the
// filled portion shifts from green to red as progress approaches 1.
func TraceBar(width int, progress float64) string {
	if width < 1 {
		return ""
	}
	if progress < 0 {
		progress = 0
	} else if progress > 1 {
		progress = 1
	}

	filled := int(progress * float64(width))
	if filled > width {
		filled = width
	}

	ramp := blend(width, lipgloss.Color("#00FF41"), lipgloss.Color("#FF2D2D"))
	var o strings.Builder
	for i := range width {
		if i < filled {
			c, _ := colorful.MakeColor(ramp[i])
			o.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render("█"))
		} else {
			o.WriteString(DimStyle.Render("░"))
		}
	}
	return o.String()
}
