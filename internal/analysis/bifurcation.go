package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/traysim/internal/dynamo"
)

// BifurcationPoint holds the distinct impact phases seen at one tray
// frequency.
type BifurcationPoint struct {
	Param  float64
	Values []float64
}

// ImpactPhaseDiagram collects, for each run, the tray phases of impacts after
// the transient. Phases are de-duplicated at a resolution of 1e-3 rad so
// periodic bouncing shows as a few points and chaotic bouncing as a smear.
func ImpactPhaseDiagram(results []*dynamo.Result, transient float64) []BifurcationPoint {
	out := make([]BifurcationPoint, 0, len(results))
	for _, res := range results {
		values := make([]float64, 0, 16)
		seen := make(map[int]bool)

		for _, b := range Bounces(res) {
			if b.Time < transient {
				continue
			}
			key := int(b.Phase * 1000)
			if !seen[key] {
				seen[key] = true
				values = append(values, b.Phase)
			}
		}

		out = append(out, BifurcationPoint{
			Param:  res.Params.Omega,
			Values: values,
		})
	}
	return out
}

// BifurcationToASCII draws impact phase (rows, 0 at the bottom, 2pi at the
// top) against sweep position (columns). Cells hit more often get denser
// glyphs. Returns "" when no run recorded an impact.
func BifurcationToASCII(data []BifurcationPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	hits := make([][]int, height)
	for r := range hits {
		hits[r] = make([]int, width)
	}

	plotted := false
	for i, p := range data {
		col := min(i*width/len(data), width-1)
		for _, phase := range p.Values {
			row := int(phase / (2 * math.Pi) * float64(height))
			row = height - 1 - min(max(row, 0), height-1)
			hits[row][col]++
			plotted = true
		}
	}
	if !plotted {
		return ""
	}

	glyphs := []rune{' ', '.', ':', '*'}
	var b strings.Builder
	for _, line := range hits {
		for _, n := range line {
			b.WriteRune(glyphs[min(n, len(glyphs)-1)])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
