// Command validate checks an artifact tree before it is served: the state
// registry must load, and every state must have a readable, well-formed
// forecast figure and both component plots. Files in the artifact
// directories that belong to no registry state are reported too.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -states pickled_data/general_data/states.json \
//	  -graphs pickled_data/graphs \
//	  -plots pickled_data/forecast_plots
//
// Flags default to the dashboard's environment configuration (DATA_DIR,
// STATES_FILE, GRAPHS_DIR, PLOTS_DIR).
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/couchcryptid/vaccination-dashboard/internal/adapter/filestore"
	"github.com/couchcryptid/vaccination-dashboard/internal/config"
	"github.com/couchcryptid/vaccination-dashboard/internal/domain"
	"github.com/couchcryptid/vaccination-dashboard/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	statesFile, layout, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if code := run(os.Stdout, statesFile, layout); code != 0 {
		os.Exit(code)
	}
}

// parseFlags reads the artifact locations, defaulting to the dashboard's
// artifact environment only.
func parseFlags(args []string) (string, domain.Layout, error) {
	defaults := config.LoadArtifacts()

	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	statesFile := fs.String("states", defaults.StatesFile, "path to the state registry (JSON or YAML)")
	graphsDir := fs.String("graphs", defaults.GraphsDir, "directory containing <ID>_graph_dict.json figures")
	plotsDir := fs.String("plots", defaults.PlotsDir, "directory containing component plot images")
	if err := fs.Parse(args); err != nil {
		return "", domain.Layout{}, err
	}
	return *statesFile, domain.Layout{GraphsDir: *graphsDir, PlotsDir: *plotsDir}, nil
}

func run(out io.Writer, statesFile string, layout domain.Layout) int {
	fmt.Fprintln(out, "=== Forecast Artifact Validation ===")
	fmt.Fprintln(out)

	registry, err := filestore.LoadRegistry(statesFile)
	if err != nil {
		fmt.Fprintf(out, "FATAL: %v\n", err)
		return 1
	}

	resolver := domain.NewResolver(registry, layout)
	store := filestore.NewStore(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		observability.NewMetricsWith(prometheus.NewRegistry()),
	)

	phases := []*phase{
		validateCharts(resolver, store),
		validatePlots(resolver, store),
		validateOrphans(registry, layout),
	}

	fmt.Fprintln(out)
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "States: %d\n", registry.Len())

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

// ── Phase 1: Forecast charts ──

func validateCharts(resolver *domain.Resolver, store *filestore.Store) *phase {
	p := &phase{name: "Phase 1: Forecast charts"}
	for _, s := range resolver.Registry().States() {
		res, err := resolver.ResolveID(s.ID)
		if err != nil {
			p.errorf("%s: %v", s.ID, err)
			continue
		}
		if _, err := store.LoadChart(context.Background(), res); err != nil {
			p.errorf("%v", err)
		}
	}
	return p
}

// ── Phase 2: Component plots ──

func validatePlots(resolver *domain.Resolver, store *filestore.Store) *phase {
	p := &phase{name: "Phase 2: Component plots"}
	for _, s := range resolver.Registry().States() {
		res, err := resolver.ResolveID(s.ID)
		if err != nil {
			p.errorf("%s: %v", s.ID, err)
			continue
		}
		for _, kind := range domain.PlotKinds {
			if _, err := store.LoadImage(context.Background(), res, kind); err != nil {
				p.errorf("%v", err)
			}
		}
	}
	return p
}

// ── Phase 3: Orphaned artifacts ──
// Files in the artifact directories that no registry state would ever request.

func validateOrphans(registry *domain.Registry, layout domain.Layout) *phase {
	p := &phase{name: "Phase 3: Orphaned artifacts"}

	expected := map[string]bool{}
	for _, s := range registry.States() {
		paths := layout.Paths(s.ID)
		expected[filepath.Clean(paths.Chart)] = true
		expected[filepath.Clean(paths.DeathsPlot)] = true
		expected[filepath.Clean(paths.HospPlot)] = true
	}

	dirs := []string{layout.GraphsDir}
	if filepath.Clean(layout.PlotsDir) != filepath.Clean(layout.GraphsDir) {
		dirs = append(dirs, layout.PlotsDir)
	}

	var orphans []string
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			p.errorf("read %s: %v", dir, err)
			continue
		}
		for _, e := range entries {
			if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
				continue
			}
			path := filepath.Clean(filepath.Join(dir, e.Name()))
			if !expected[path] {
				orphans = append(orphans, path)
			}
		}
	}

	sort.Strings(orphans)
	for _, o := range orphans {
		p.errorf("%s does not belong to any registry state", o)
	}
	return p
}
