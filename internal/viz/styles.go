package viz

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/traysim/internal/dynamo"
)

var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	StatusPlaying = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	StatusPaused = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899")).
			Width(16)

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#444466"))

	SparkHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	SparkMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	SparkLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

// GradientText interpolates the foreground colour from start to end over the
// runes of text. Colours must be #rrggbb.
func GradientText(text string, start, end lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	sr, sg, sb := parseHex(string(start))
	er, eg, eb := parseHex(string(end))

	var b strings.Builder
	for i, c := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		r := int(float64(sr) + t*float64(er-sr))
		g := int(float64(sg) + t*float64(eg-sg))
		bl := int(float64(sb) + t*float64(eb-sb))
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor(r, g, bl)))
		b.WriteString(style.Render(string(c)))
	}
	return b.String()
}

// ProgressBar renders a fraction in [0, 1] as a bar of width cells.
func ProgressBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	switch {
	case fraction > 0.8:
		return SparkHigh.Render(bar)
	case fraction > 0.4:
		return SparkMid.Render(bar)
	}
	return SparkLow.Render(bar)
}

func sparkRunes(values []float64, width int) []rune {
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := len(values) / width
	if step < 1 {
		step = 1
	}

	out := make([]rune, 0, width)
	for i := 0; i < width && i*step < len(values); i++ {
		idx := int((values[i*step] - lo) / rng * float64(len(chars)-1))
		idx = max(0, min(idx, len(chars)-1))
		out = append(out, chars[idx])
	}
	return out
}

// Sparkline draws values with block characters, without colour.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}
	return string(sparkRunes(values, width))
}

// SparklineChart is Sparkline coloured by level.
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}

	var b strings.Builder
	for _, c := range sparkRunes(values, width) {
		switch {
		case c >= '▇':
			b.WriteString(SparkHigh.Render(string(c)))
		case c >= '▃':
			b.WriteString(SparkMid.Render(string(c)))
		default:
			b.WriteString(SparkLow.Render(string(c)))
		}
	}
	return b.String()
}

// RegimeStrip compresses a regime history into width cells, one letter per
// cell (F, C or A), coloured by regime. Each cell shows the regime of the
// first sample it covers.
func RegimeStrip(regimes []dynamo.Regime, width int) string {
	if len(regimes) == 0 || width <= 0 {
		return ""
	}
	width = min(width, len(regimes))

	var b strings.Builder
	for i := 0; i < width; i++ {
		r := regimes[i*len(regimes)/width]
		b.WriteString(RegimeStyle(r).Render(r.String()[:1]))
	}
	return b.String()
}

func BoxWithTitle(title, content string, width int) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Width(width).
		Padding(0, 1)
	return Title.Render(title) + "\n" + box.Render(content)
}

func Separator(width int) string {
	if width < 8 {
		return Subtle.Render(strings.Repeat("─", max(width, 0)))
	}
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return Subtle.Render(left + " ◆ " + right)
}

func parseHex(hex string) (r, g, b int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 255, 255, 255
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 255, 255, 255
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}

func hexColor(r, g, b int) string {
	clamp := func(v int) int { return max(0, min(v, 255)) }
	return fmt.Sprintf("#%02x%02x%02x", clamp(r), clamp(g), clamp(b))
}
