// Package fixture writes artifact trees shaped like the offline forecast
// pipeline's output: a state registry, one Plotly figure per state, and two
// component plot JPEGs per state. It backs cmd/genmock and the tests.
package fixture

import (
	"bytes"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"os"
	"path/filepath"

	"github.com/couchcryptid/vaccination-dashboard/internal/domain"
)

// Tree is the location of a written artifact tree.
type Tree struct {
	Dir        string
	StatesFile string
	Layout     domain.Layout
}

// NewTree returns the standard layout under dir without writing anything.
func NewTree(dir string) Tree {
	return Tree{
		Dir:        dir,
		StatesFile: filepath.Join(dir, "general_data", "states.json"),
		Layout: domain.Layout{
			GraphsDir: filepath.Join(dir, "graphs"),
			PlotsDir:  filepath.Join(dir, "forecast_plots"),
		},
	}
}

// Write creates the registry and every artifact for states under dir.
func Write(dir string, states []domain.State) (Tree, error) {
	tree := NewTree(dir)
	for _, d := range []string{filepath.Dir(tree.StatesFile), tree.Layout.GraphsDir, tree.Layout.PlotsDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return Tree{}, err
		}
	}

	reg, err := RegistryJSON(states)
	if err != nil {
		return Tree{}, err
	}
	if err := os.WriteFile(tree.StatesFile, reg, 0o644); err != nil {
		return Tree{}, err
	}

	for _, s := range states {
		if err := tree.WriteState(s); err != nil {
			return Tree{}, fmt.Errorf("state %s: %w", s.ID, err)
		}
	}
	return tree, nil
}

// WriteState writes one state's figure and component plots.
func (t Tree) WriteState(s domain.State) error {
	paths := t.Layout.Paths(s.ID)

	fig, err := Figure(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(paths.Chart, fig, 0o644); err != nil {
		return err
	}

	for _, kind := range domain.PlotKinds {
		img, err := PlotJPEG(s.ID, kind)
		if err != nil {
			return err
		}
		path, _ := paths.Path(kind)
		if err := os.WriteFile(path, img, 0o644); err != nil {
			return err
		}
	}
	return nil
}

// RegistryJSON encodes states as a JSON object in slice order.
func RegistryJSON(states []domain.State) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, s := range states {
		k, err := json.Marshal(s.ID)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(s.Name)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, "  %s: %s", k, v)
		if i < len(states)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

type trace struct {
	Type string    `json:"type"`
	Mode string    `json:"mode"`
	Name string    `json:"name"`
	X    []float64 `json:"x"`
	Y    []float64 `json:"y"`
}

type figure struct {
	Data   []trace        `json:"data"`
	Layout map[string]any `json:"layout"`
}

// Figure builds a small deterministic Plotly figure of forecast
// hospitalizations and fatalities against vaccination rate.
func Figure(s domain.State) ([]byte, error) {
	seed := float64(hash(s.ID)%500 + 100)

	var rates, hosp, deaths []float64
	for rate := 0.0; rate <= 100; rate += 10 {
		decay := math.Exp(-rate / 40)
		rates = append(rates, rate)
		hosp = append(hosp, math.Round(seed*decay))
		deaths = append(deaths, math.Round(seed*decay/12))
	}

	return json.Marshal(figure{
		Data: []trace{
			{Type: "scatter", Mode: "lines", Name: "Hospitalizations", X: rates, Y: hosp},
			{Type: "scatter", Mode: "lines", Name: "Fatalities", X: rates, Y: deaths},
		},
		Layout: map[string]any{
			"title": map[string]any{"text": s.Name + ": Forecast vs. Vaccination Rate"},
			"xaxis": map[string]any{"title": map[string]any{"text": "Percent of population vaccinated"}},
		},
	})
}

// PlotJPEG renders a small solid-colour placeholder image for a component plot.
func PlotJPEG(id string, kind domain.ArtifactKind) ([]byte, error) {
	h := hash(id + string(kind))
	fill := color.RGBA{R: uint8(h), G: uint8(h >> 8), B: uint8(h >> 16), A: 255}

	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := range 48 {
		for x := range 64 {
			img.Set(x, y, fill)
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 75}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func hash(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s)) //nolint:errcheck // hash writes never fail
	return h.Sum32()
}
