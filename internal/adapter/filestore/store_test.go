package filestore

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/couchcryptid/vaccination-dashboard/internal/domain"
	"github.com/couchcryptid/vaccination-dashboard/internal/fixture"
	"github.com/couchcryptid/vaccination-dashboard/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	california = domain.State{ID: "CA", Name: "California"}
	texas      = domain.State{ID: "TX", Name: "Texas"}
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) (*Store, fixture.Tree, *observability.Metrics) {
	t.Helper()
	tree, err := fixture.Write(t.TempDir(), []domain.State{california, texas})
	require.NoError(t, err)

	metrics := observability.NewMetricsForTesting()
	return NewStore(discardLogger(), metrics), tree, metrics
}

func resolution(tree fixture.Tree, s domain.State) domain.Resolution {
	return domain.Resolution{State: s, Paths: tree.Layout.Paths(s.ID)}
}

func TestStore_LoadChart(t *testing.T) {
	store, tree, metrics := newTestStore(t)

	chart, err := store.LoadChart(context.Background(), resolution(tree, california))
	require.NoError(t, err)

	assert.Equal(t, "CA", chart.StateID)
	assert.Contains(t, string(chart.Figure), `"data"`)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ArtifactLoads.WithLabelValues("chart", "ok")), 0)
}

func TestStore_LoadImage(t *testing.T) {
	store, tree, _ := newTestStore(t)

	for _, kind := range domain.PlotKinds {
		img, err := store.LoadImage(context.Background(), resolution(tree, texas), kind)
		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", img.ContentType)
		assert.Equal(t, kind, img.Kind)
		assert.NotEmpty(t, img.Data)
	}
}

func TestStore_MissingChart(t *testing.T) {
	store, tree, metrics := newTestStore(t)
	res := resolution(tree, california)
	require.NoError(t, os.Remove(res.Paths.Chart))

	_, err := store.LoadChart(context.Background(), res)
	require.ErrorIs(t, err, domain.ErrArtifactNotFound)

	var artErr *domain.ArtifactError
	require.ErrorAs(t, err, &artErr)
	assert.Equal(t, "CA", artErr.StateID)
	assert.Equal(t, domain.KindChart, artErr.Kind)
	assert.Equal(t, res.Paths.Chart, artErr.Path)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ArtifactLoads.WithLabelValues("chart", "not_found")), 0)

	// The other state is unaffected.
	_, err = store.LoadChart(context.Background(), resolution(tree, texas))
	require.NoError(t, err)
}

func TestStore_CorruptChart(t *testing.T) {
	for name, content := range map[string]string{
		"not json":      "\x80\x04\x95pickle",
		"json array":    `[1, 2, 3]`,
		"no data array": `{"layout": {}}`,
		"data object":   `{"data": {"x": []}}`,
	} {
		t.Run(name, func(t *testing.T) {
			store, tree, _ := newTestStore(t)
			res := resolution(tree, california)
			require.NoError(t, os.WriteFile(res.Paths.Chart, []byte(content), 0o644))

			_, err := store.LoadChart(context.Background(), res)
			require.ErrorIs(t, err, domain.ErrArtifactCorrupt)
		})
	}
}

func TestStore_CorruptImage(t *testing.T) {
	store, tree, metrics := newTestStore(t)
	res := resolution(tree, texas)
	require.NoError(t, os.WriteFile(res.Paths.HospPlot, []byte("plain text, not a picture"), 0o644))

	_, err := store.LoadImage(context.Background(), res, domain.KindHospPlot)
	require.ErrorIs(t, err, domain.ErrArtifactCorrupt)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ArtifactLoads.WithLabelValues("hosp", "corrupt")), 0)

	_, err = store.LoadImage(context.Background(), res, domain.KindDeathsPlot)
	require.NoError(t, err)
}

func TestStore_CancelledContext(t *testing.T) {
	store, tree, _ := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.LoadChart(ctx, resolution(tree, california))
	require.ErrorIs(t, err, context.Canceled)
}
