package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
)

// ArtifactKind identifies one of the three per-state artifacts.
type ArtifactKind string

const (
	KindChart      ArtifactKind = "chart"
	KindDeathsPlot ArtifactKind = "deaths"
	KindHospPlot   ArtifactKind = "hosp"
)

// PlotKinds lists the component plot kinds in display order.
var PlotKinds = []ArtifactKind{KindDeathsPlot, KindHospPlot}

// ParsePlotKind validates a component plot kind taken from user input.
func ParsePlotKind(s string) (ArtifactKind, error) {
	switch k := ArtifactKind(s); k {
	case KindDeathsPlot, KindHospPlot:
		return k, nil
	default:
		return "", fmt.Errorf("unknown plot kind %q", s)
	}
}

// Artifact file name suffixes, appended to the state id.
const (
	chartSuffix  = "_graph_dict.json"
	deathsSuffix = "_deaths_forecast_plot.jpg"
	hospSuffix   = "_hosp_forecast_plot.jpg"
)

// Layout locates the artifact directories.
type Layout struct {
	GraphsDir string
	PlotsDir  string
}

// Paths builds the artifact paths for a state id.
func (l Layout) Paths(id string) ArtifactPaths {
	return ArtifactPaths{
		Chart:      filepath.Join(l.GraphsDir, id+chartSuffix),
		DeathsPlot: filepath.Join(l.PlotsDir, id+deathsSuffix),
		HospPlot:   filepath.Join(l.PlotsDir, id+hospSuffix),
	}
}

// ArtifactPaths holds the three file paths for one state.
type ArtifactPaths struct {
	Chart      string
	DeathsPlot string
	HospPlot   string
}

// Path returns the path of the given artifact kind.
func (p ArtifactPaths) Path(kind ArtifactKind) (string, error) {
	switch kind {
	case KindChart:
		return p.Chart, nil
	case KindDeathsPlot:
		return p.DeathsPlot, nil
	case KindHospPlot:
		return p.HospPlot, nil
	default:
		return "", fmt.Errorf("unknown artifact kind %q", kind)
	}
}

// Resolution is a selected state together with its artifact paths.
type Resolution struct {
	State State
	Paths ArtifactPaths
}

// Chart is a precomputed Plotly figure. Figure is a JSON object with at
// least a "data" array.
type Chart struct {
	StateID string
	Figure  json.RawMessage
}

// Image is a component plot raster.
type Image struct {
	StateID     string
	Kind        ArtifactKind
	ContentType string
	Data        []byte
}

// ArtifactLoader reads a resolved state's artifacts.
type ArtifactLoader interface {
	LoadChart(ctx context.Context, res Resolution) (Chart, error)
	LoadImage(ctx context.Context, res Resolution, kind ArtifactKind) (Image, error)
}
