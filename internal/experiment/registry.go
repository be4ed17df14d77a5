package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/traysim/internal/dynamo"
	"github.com/san-kum/traysim/internal/metrics"
)

type Registry struct {
	metrics map[string]func(gravity float64) dynamo.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func(float64) dynamo.Metric),
	}

	r.metrics["landings"] = func(float64) dynamo.Metric { return metrics.NewLandings() }
	r.metrics["peak_clearance"] = func(float64) dynamo.Metric { return metrics.NewPeakClearance() }
	r.metrics["contact_fraction"] = func(float64) dynamo.Metric { return metrics.NewContactFraction() }
	r.metrics["mean_energy"] = func(g float64) dynamo.Metric { return metrics.NewMeanEnergy(g) }
	r.metrics["energy_loss"] = func(g float64) dynamo.Metric { return metrics.NewEnergyLoss(g) }

	return r
}

func (r *Registry) GetMetric(name string, gravity float64) (dynamo.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(gravity), nil
}

// Metrics builds fresh instances of the named metrics.
func (r *Registry) Metrics(names []string, gravity float64) ([]dynamo.Metric, error) {
	out := make([]dynamo.Metric, 0, len(names))
	for _, name := range names {
		m, err := r.GetMetric(name, gravity)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
