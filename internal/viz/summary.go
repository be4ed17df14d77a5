package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/traysim/internal/dynamo"
)

func row(label, value string) string {
	return MetricLabel.Render(label) + MetricValue.Render(value) + "\n"
}

// Summary renders a finished run as a titled panel: the parameters, the
// outcome, metrics in name order and a sparkline of the ball height.
func Summary(name string, res *dynamo.Result, width int) string {
	if width < 30 {
		width = 30
	}
	p := res.Params

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(GradientText(strings.ToUpper(name), CurrentTheme.Secondary, CurrentTheme.Primary)) + "\n")
	b.WriteString(row("omega", fmt.Sprintf("%g rad/s", p.Omega)))
	b.WriteString(row("amplitude", fmt.Sprintf("%g m", p.Amplitude)))
	b.WriteString(row("restitution", fmt.Sprintf("%g", p.Restitution)))
	b.WriteString(row("initial state", fmt.Sprintf("y=%g v=%g", p.Height, p.Velocity)))
	b.WriteString(row("grid", fmt.Sprintf("%d samples, dt=%.6g", res.Len(), res.Dt)))
	b.WriteString(row("collisions", fmt.Sprintf("%d", len(res.Collisions))))

	final := RegimeStyle(res.Final).Render(res.Final.String())
	if res.Adhered() {
		final += Subtle.Render(fmt.Sprintf(" at t=%.4g", res.Times[res.AdheredAt]))
	}
	b.WriteString(MetricLabel.Render("final") + final + "\n")

	if len(res.Metrics) > 0 {
		b.WriteString(Separator(width-6) + "\n")
		names := make([]string, 0, len(res.Metrics))
		for k := range res.Metrics {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			b.WriteString(row(k, fmt.Sprintf("%.6g", res.Metrics[k])))
		}
	}

	inner := width - 6
	b.WriteString(Separator(inner) + "\n")
	b.WriteString(SparklineChart(res.Height, inner) + "\n")
	b.WriteString(RegimeStrip(res.Regimes, inner))

	return Panel.Width(width).Render(b.String())
}
