// Package optim searches tray parameters for the best value of a metric.
package optim

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/traysim/internal/dynamo"
	"github.com/san-kum/traysim/internal/sim"
)

var setters = map[string]func(p *dynamo.Params, v float64){
	"omega":       func(p *dynamo.Params, v float64) { p.Omega = v },
	"amplitude":   func(p *dynamo.Params, v float64) { p.Amplitude = v },
	"restitution": func(p *dynamo.Params, v float64) { p.Restitution = v },
	"height":      func(p *dynamo.Params, v float64) { p.Height = v },
	"velocity":    func(p *dynamo.Params, v float64) { p.Velocity = v },
}

// Parameters lists the names a grid can vary.
func Parameters() []string {
	names := make([]string, 0, len(setters))
	for k := range setters {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) == 0 || len(params) != len(ranges) {
		return nil, fmt.Errorf("grid needs one range per parameter (%d names, %d ranges)", len(params), len(ranges))
	}
	for i, name := range params {
		if _, ok := setters[name]; !ok {
			return nil, fmt.Errorf("cannot search %q (available: %v)", name, Parameters())
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("empty range for %s", name)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Candidate is one grid point and its metric value.
type Candidate struct {
	Values map[string]float64
	Score  float64
}

// Points enumerates the grid, last parameter varying fastest.
func (g *GridSearch) Points() []map[string]float64 {
	var out []map[string]float64
	g.collect(0, make(map[string]float64), &out)
	return out
}

func (g *GridSearch) collect(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		point := make(map[string]float64, len(current))
		for k, v := range current {
			point[k] = v
		}
		*out = append(*out, point)
		return
	}
	for _, val := range g.ranges[depth] {
		current[g.paramNames[depth]] = val
		g.collect(depth+1, current, out)
	}
	delete(current, g.paramNames[depth])
}

// Search runs every grid point on the ensemble and returns the best one and
// all candidates in grid order. The ensemble's simulators must compute the
// named metric. Grid points with invalid parameters fail the search.
func (g *GridSearch) Search(
	ctx context.Context,
	base dynamo.Params,
	cfg dynamo.SolverConfig,
	ens *sim.Ensemble,
	metricName string,
	maximize bool,
) (*Candidate, []Candidate, error) {
	points := g.Points()
	params := make([]dynamo.Params, len(points))
	for i, point := range points {
		params[i] = base
		for name, v := range point {
			setters[name](&params[i], v)
		}
	}

	results, err := ens.Run(ctx, params, cfg)
	if err != nil {
		return nil, nil, err
	}

	best := math.Inf(1)
	if maximize {
		best = math.Inf(-1)
	}
	bestIdx := -1
	candidates := make([]Candidate, len(results))
	for i, res := range results {
		val, ok := res.Metrics[metricName]
		if !ok {
			return nil, nil, fmt.Errorf("metric %q was not computed", metricName)
		}
		candidates[i] = Candidate{Values: points[i], Score: val}
		if (maximize && val > best) || (!maximize && val < best) {
			best, bestIdx = val, i
		}
	}
	if bestIdx < 0 {
		// every score was NaN
		return nil, candidates, fmt.Errorf("no grid point scored a finite %s", metricName)
	}
	return &candidates[bestIdx], candidates, nil
}

// ParseRange reads "name=v1,v2,..." or "name=lo:hi:n" (n evenly spaced
// values from lo to hi inclusive).
func ParseRange(s string) (string, []float64, error) {
	name, rng, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" || rng == "" {
		return "", nil, fmt.Errorf("range %q: want name=v1,v2 or name=lo:hi:n", s)
	}

	if parts := strings.Split(rng, ":"); len(parts) == 3 {
		lo, err1 := strconv.ParseFloat(parts[0], 64)
		hi, err2 := strconv.ParseFloat(parts[1], 64)
		n, err3 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil || err3 != nil || n < 1 {
			return "", nil, fmt.Errorf("range %q: bad lo:hi:n", s)
		}
		if n == 1 {
			return name, []float64{lo}, nil
		}
		vals := make([]float64, n)
		for i := range vals {
			vals[i] = lo + float64(i)*(hi-lo)/float64(n-1)
		}
		return name, vals, nil
	}

	fields := strings.Split(rng, ",")
	vals := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return "", nil, fmt.Errorf("range %q: %w", s, err)
		}
		vals = append(vals, v)
	}
	return name, vals, nil
}
