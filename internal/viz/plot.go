package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/traysim/internal/dynamo"
)

// PlotHeights draws the ball and tray heights as a line chart. The ball is
// drawn over the working grid and the tray over the uniform one, which is
// indistinguishable at terminal resolution.
func PlotHeights(res *dynamo.Result, width, height int) string {
	if res.Len() == 0 {
		return ""
	}
	caption := fmt.Sprintf("height (m) over %.3gs, ball vs tray", res.Params.Duration)
	return asciigraph.PlotMany(
		[][]float64{res.TrayHeight, res.Height},
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.SeriesColors(asciigraph.Gray, asciigraph.Cyan),
		asciigraph.Caption(caption),
	)
}

// PlotSeries draws one named series.
func PlotSeries(name string, values []float64, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	return asciigraph.Plot(values,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption(name),
	)
}
