package domain

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLayout = Layout{GraphsDir: "data/graphs", PlotsDir: "data/forecast_plots"}

func TestResolver_Resolve(t *testing.T) {
	reg, err := NewRegistry([]State{{ID: "CA", Name: "California"}})
	require.NoError(t, err)
	r := NewResolver(reg, testLayout)

	res, err := r.Resolve("California")
	require.NoError(t, err)

	assert.Equal(t, State{ID: "CA", Name: "California"}, res.State)
	assert.Equal(t, filepath.Join("data/graphs", "CA_graph_dict.json"), res.Paths.Chart)
	assert.Equal(t, filepath.Join("data/forecast_plots", "CA_deaths_forecast_plot.jpg"), res.Paths.DeathsPlot)
	assert.Equal(t, filepath.Join("data/forecast_plots", "CA_hosp_forecast_plot.jpg"), res.Paths.HospPlot)
}

func TestResolver_EveryNameResolves(t *testing.T) {
	reg, err := NewRegistry(testStates())
	require.NoError(t, err)
	r := NewResolver(reg, testLayout)

	for _, name := range reg.Names() {
		res, err := r.Resolve(name)
		require.NoError(t, err, name)

		_, ok := reg.Name(res.State.ID)
		assert.True(t, ok, "resolved id %q must exist in registry", res.State.ID)
		assert.Equal(t, name, res.State.Name)

		for _, p := range []string{res.Paths.Chart, res.Paths.DeathsPlot, res.Paths.HospPlot} {
			assert.True(t, strings.HasPrefix(filepath.Base(p), res.State.ID+"_"), p)
		}
	}
}

func TestResolver_Unknown(t *testing.T) {
	reg, err := NewRegistry(testStates())
	require.NoError(t, err)
	r := NewResolver(reg, testLayout)

	_, err = r.Resolve("Atlantis")
	require.ErrorIs(t, err, ErrUnknownState)

	_, err = r.ResolveID("ZZ")
	require.ErrorIs(t, err, ErrUnknownState)
}

func TestResolver_ResolveIDMatchesResolve(t *testing.T) {
	reg, err := NewRegistry(testStates())
	require.NoError(t, err)
	r := NewResolver(reg, testLayout)

	byName, err := r.Resolve("Texas")
	require.NoError(t, err)
	byID, err := r.ResolveID("TX")
	require.NoError(t, err)

	assert.Equal(t, byName, byID)
}

func TestArtifactPaths_Path(t *testing.T) {
	p := testLayout.Paths("NY")

	for kind, want := range map[ArtifactKind]string{
		KindChart:      p.Chart,
		KindDeathsPlot: p.DeathsPlot,
		KindHospPlot:   p.HospPlot,
	} {
		got, err := p.Path(kind)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := p.Path("bogus")
	require.Error(t, err)
}

func TestParsePlotKind(t *testing.T) {
	k, err := ParsePlotKind("deaths")
	require.NoError(t, err)
	assert.Equal(t, KindDeathsPlot, k)

	k, err = ParsePlotKind("hosp")
	require.NoError(t, err)
	assert.Equal(t, KindHospPlot, k)

	_, err = ParsePlotKind("chart")
	require.Error(t, err, "the chart is not a plot kind")
}
