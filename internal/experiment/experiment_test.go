package experiment

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/traysim/internal/catalog"
	"github.com/san-kum/traysim/internal/config"
	"github.com/san-kum/traysim/internal/storage"
)

func TestRunnerStoresAndCatalogs(t *testing.T) {
	dir := t.TempDir()
	cat, err := catalog.Open(filepath.Join(dir, "catalog.db"))
	require.NoError(t, err)
	defer cat.Close()

	st := storageIn(dir)
	r := NewRunner(st, WithCatalog(cat))

	cfg := config.GetPreset("stationary")
	meta, res, err := r.Run(t.Context(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "stationary", meta.Name)
	assert.Len(t, res.Metrics, len(r.registry.ListMetrics()))

	_, back, err := st.LoadResult(meta.ID)
	require.NoError(t, err)
	assert.Equal(t, res, back)

	e, err := cat.Get(t.Context(), meta.ID)
	require.NoError(t, err)
	assert.Equal(t, len(res.Collisions), e.Collisions)
	assert.Equal(t, res.Metrics, e.Metrics)
}

func TestRunnerSelectedMetrics(t *testing.T) {
	r := NewRunner(storageIn(t.TempDir()), WithMetrics("landings"))
	res, err := r.Simulate(t.Context(), config.GetPreset("stationary"))
	require.NoError(t, err)
	assert.Equal(t, []string{"landings"}, keys(res.Metrics))
}

func TestRunnerUnknownMetric(t *testing.T) {
	r := NewRunner(storageIn(t.TempDir()), WithMetrics("nope"))
	_, err := r.Simulate(t.Context(), config.GetPreset("stationary"))
	assert.ErrorContains(t, err, "unknown metric")
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	names := reg.ListMetrics()
	assert.Equal(t, []string{"contact_fraction", "energy_loss", "landings", "mean_energy", "peak_clearance"}, names)

	for _, name := range names {
		m, err := reg.GetMetric(name, 9.81)
		require.NoError(t, err)
		assert.Equal(t, name, m.Name())
	}
}

func keys(m map[string]float64) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func storageIn(dir string) *storage.Store {
	return storage.New(filepath.Join(dir, "runs"))
}
