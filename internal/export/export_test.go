package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/traysim/internal/dynamo"
	"github.com/san-kum/traysim/internal/sim"
)

func bouncing(t *testing.T) *dynamo.Result {
	t.Helper()
	p := dynamo.DefaultParams()
	p.Omega, p.Amplitude, p.Height, p.Duration = 30, 0.05, 0.2, 1
	res, err := sim.Simulate(p)
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}
	return res
}

func TestTrajectoryToSVG(t *testing.T) {
	res := bouncing(t)
	svg := TrajectoryToSVG(res, 800, 400)

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("not an svg document")
	}
	if got := strings.Count(svg, "<path"); got != 2 {
		t.Errorf("expected tray and ball paths, got %d", got)
	}
	if got := strings.Count(svg, "<circle"); got != len(res.Collisions) {
		t.Errorf("expected %d impact markers, got %d", len(res.Collisions), got)
	}
}

func TestSeriesToSVGEmpty(t *testing.T) {
	if SeriesToSVG(nil, nil, 10, 10) != "" {
		t.Error("expected empty output for no data")
	}
	if TrajectoryToSVG(&dynamo.Result{}, 10, 10) != "" {
		t.Error("expected empty output for an empty run")
	}
}

func TestSavePNG(t *testing.T) {
	res := bouncing(t)
	path := filepath.Join(t.TempDir(), "out", "run.png")

	if err := SavePNG(res, "bouncing", path, 4, 3); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("output is not a png")
	}
}

func TestTrajectoryPlotEmpty(t *testing.T) {
	if _, err := TrajectoryPlot(&dynamo.Result{}, "x"); err == nil {
		t.Error("expected error for empty run")
	}
}
