package export

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/traysim/internal/dynamo"
)

var (
	trayColor   = color.RGBA{R: 0x5f, G: 0x87, B: 0xff, A: 0xff}
	ballColor   = color.RGBA{G: 0xa0, A: 0xff}
	impactColor = color.RGBA{R: 0xe0, G: 0x30, B: 0x30, A: 0xff}
)

func xys(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	return pts
}

// TrajectoryPlot builds the height-over-time chart of a run.
func TrajectoryPlot(res *dynamo.Result, title string) (*plot.Plot, error) {
	if res.Len() == 0 {
		return nil, fmt.Errorf("plot data invalid")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = "height (m)"
	p.Add(plotter.NewGrid())

	tray, err := plotter.NewLine(xys(res.Reference, res.TrayHeight))
	if err != nil {
		return nil, err
	}
	tray.LineStyle.Width = vg.Points(1)
	tray.LineStyle.Color = trayColor

	ball, err := plotter.NewLine(xys(res.Times, res.Height))
	if err != nil {
		return nil, err
	}
	ball.LineStyle.Width = vg.Points(1.5)
	ball.LineStyle.Color = ballColor

	p.Add(tray, ball)
	p.Legend.Add("tray", tray)
	p.Legend.Add("ball", ball)

	if len(res.Collisions) > 0 {
		pts := make(plotter.XYs, len(res.Collisions))
		for i, c := range res.Collisions {
			pts[i].X, pts[i].Y = res.Times[c], res.Height[c]
		}
		impacts, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, err
		}
		impacts.GlyphStyle.Color = impactColor
		impacts.GlyphStyle.Radius = vg.Points(1.5)
		p.Add(impacts)
		p.Legend.Add("impacts", impacts)
	}
	return p, nil
}

// WritePNG renders p at the given size in inches.
func WritePNG(w io.Writer, p *plot.Plot, widthIn, heightIn float64) error {
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch),
		vgimg.UseDPI(150),
	)
	p.Draw(draw.New(c))

	bw := bufio.NewWriter(w)
	pngc := vgimg.PngCanvas{Canvas: c}
	if _, err := pngc.WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return bw.Flush()
}

// SavePNG writes the trajectory chart of res to filename.
func SavePNG(res *dynamo.Result, title, filename string, widthIn, heightIn float64) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}
	p, err := TrajectoryPlot(res, title)
	if err != nil {
		return err
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer f.Close()

	return WritePNG(f, p, widthIn, heightIn)
}
