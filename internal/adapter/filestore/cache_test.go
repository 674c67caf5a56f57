package filestore

import (
	"context"
	"errors"
	"testing"

	"github.com/couchcryptid/vaccination-dashboard/internal/domain"
	"github.com/couchcryptid/vaccination-dashboard/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock for cache tests ---

type countingLoader struct {
	chartCalls int
	imageCalls int
	err        error
}

func (m *countingLoader) LoadChart(_ context.Context, res domain.Resolution) (domain.Chart, error) {
	m.chartCalls++
	if m.err != nil {
		return domain.Chart{}, m.err
	}
	return domain.Chart{StateID: res.State.ID, Figure: []byte(`{"data":[]}`)}, nil
}

func (m *countingLoader) LoadImage(_ context.Context, res domain.Resolution, kind domain.ArtifactKind) (domain.Image, error) {
	m.imageCalls++
	if m.err != nil {
		return domain.Image{}, m.err
	}
	return domain.Image{StateID: res.State.ID, Kind: kind, ContentType: "image/jpeg"}, nil
}

var testLayout = domain.Layout{GraphsDir: "graphs", PlotsDir: "plots"}

func res(s domain.State) domain.Resolution {
	return domain.Resolution{State: s, Paths: testLayout.Paths(s.ID)}
}

// --- CachedLoader tests ---

func TestCachedLoader_ChartCacheHit(t *testing.T) {
	inner := &countingLoader{}
	metrics := observability.NewMetricsForTesting()
	cached := NewCachedLoader(inner, 10, metrics)

	c1, err := cached.LoadChart(context.Background(), res(california))
	require.NoError(t, err)
	c2, err := cached.LoadChart(context.Background(), res(california))
	require.NoError(t, err)

	assert.Equal(t, c1, c2)
	assert.Equal(t, 1, inner.chartCalls, "should only call inner once")
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ArtifactCache.WithLabelValues("chart", "hit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ArtifactCache.WithLabelValues("chart", "miss")), 0)
}

func TestCachedLoader_ImageKindsCachedSeparately(t *testing.T) {
	inner := &countingLoader{}
	cached := NewCachedLoader(inner, 10, observability.NewMetricsForTesting())

	for range 2 {
		_, err := cached.LoadImage(context.Background(), res(texas), domain.KindDeathsPlot)
		require.NoError(t, err)
		_, err = cached.LoadImage(context.Background(), res(texas), domain.KindHospPlot)
		require.NoError(t, err)
	}

	assert.Equal(t, 2, inner.imageCalls)
}

func TestCachedLoader_DifferentStatesMiss(t *testing.T) {
	inner := &countingLoader{}
	cached := NewCachedLoader(inner, 10, observability.NewMetricsForTesting())

	_, _ = cached.LoadChart(context.Background(), res(california))
	_, _ = cached.LoadChart(context.Background(), res(texas))

	assert.Equal(t, 2, inner.chartCalls)
}

func TestCachedLoader_ErrorsNotCached(t *testing.T) {
	inner := &countingLoader{err: errors.New("disk on fire")}
	cached := NewCachedLoader(inner, 10, observability.NewMetricsForTesting())

	_, err := cached.LoadChart(context.Background(), res(california))
	require.Error(t, err)

	inner.err = nil
	chart, err := cached.LoadChart(context.Background(), res(california))
	require.NoError(t, err)
	assert.Equal(t, "CA", chart.StateID)
	assert.Equal(t, 2, inner.chartCalls)
	assert.Equal(t, 1, cached.charts.size())
}

// --- LRU cache unit tests ---

func TestLRUCache_BasicGetPut(t *testing.T) {
	c := newLRUCache[string](3)

	c.put("a", "A")
	c.put("b", "B")

	result, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A", result)

	_, ok = c.get("missing")
	assert.False(t, ok)
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache[string](2)

	c.put("a", "A")
	c.put("b", "B")
	c.put("c", "C") // evicts "a"

	_, ok := c.get("a")
	assert.False(t, ok, "a should have been evicted")

	result, ok := c.get("b")
	assert.True(t, ok)
	assert.Equal(t, "B", result)

	result, ok = c.get("c")
	assert.True(t, ok)
	assert.Equal(t, "C", result)
	assert.Equal(t, 2, c.size())
}

func TestLRUCache_AccessPromotesEntry(t *testing.T) {
	c := newLRUCache[string](2)

	c.put("a", "A")
	c.put("b", "B")

	// Access "a" to promote it
	c.get("a")

	// Insert "c": should evict "b" (LRU), not "a"
	c.put("c", "C")

	_, ok := c.get("a")
	assert.True(t, ok, "a was accessed recently, should not be evicted")

	_, ok = c.get("b")
	assert.False(t, ok, "b should have been evicted")
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache[string](2)

	c.put("a", "A1")
	c.put("a", "A2")

	result, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A2", result)
}
