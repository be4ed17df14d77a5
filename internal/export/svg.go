package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/traysim/internal/dynamo"
)

// Series is one polyline of an SVG chart.
type Series struct {
	X, Y   []float64
	Stroke string
}

type bounds struct {
	minX, maxX, minY, maxY float64
}

func (b bounds) project(x, y float64, width, height int) (float64, float64) {
	px := (x - b.minX) / (b.maxX - b.minX) * float64(width)
	py := float64(height) - (y-b.minY)/(b.maxY-b.minY)*float64(height)
	return px, py
}

func seriesBounds(series []Series) (bounds, bool) {
	b := bounds{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
	found := false
	for _, s := range series {
		for i := range s.X {
			b.minX = math.Min(b.minX, s.X[i])
			b.maxX = math.Max(b.maxX, s.X[i])
			b.minY = math.Min(b.minY, s.Y[i])
			b.maxY = math.Max(b.maxY, s.Y[i])
			found = true
		}
	}
	if !found {
		return b, false
	}

	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	b.minX -= rangeX * 0.1
	b.maxX += rangeX * 0.1
	b.minY -= rangeY * 0.1
	b.maxY += rangeY * 0.1
	return b, true
}

// SeriesToSVG draws every series on shared axes. Markers are drawn as dots
// on top of the lines.
func SeriesToSVG(series []Series, markers []struct{ X, Y float64 }, width, height int) string {
	b, ok := seriesBounds(series)
	if !ok {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for _, s := range series {
		if len(s.X) < 2 {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, s.Stroke))
		for i := range s.X {
			x, y := b.project(s.X[i], s.Y[i], width, height)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	if len(markers) > 0 {
		sb.WriteString("<g fill=\"#ff5555\">\n")
		for _, m := range markers {
			x, y := b.project(m.X, m.Y, width, height)
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="2.5"/>
`, x, y))
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// TrajectoryToSVG draws the tray, the ball and the impacts of a run.
func TrajectoryToSVG(res *dynamo.Result, width, height int) string {
	if res.Len() < 2 {
		return ""
	}

	markers := make([]struct{ X, Y float64 }, len(res.Collisions))
	for i, c := range res.Collisions {
		markers[i].X, markers[i].Y = res.Times[c], res.Height[c]
	}

	return SeriesToSVG([]Series{
		{X: res.Reference, Y: res.TrayHeight, Stroke: "#5f87ff"},
		{X: res.Times, Y: res.Height, Stroke: "#00ff00"},
	}, markers, width, height)
}
