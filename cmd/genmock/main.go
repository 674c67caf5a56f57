// Command genmock writes a mock artifact tree for local development: a state
// registry plus a Plotly figure and two placeholder component plots per
// state, laid out the way the dashboard expects.
//
// Usage:
//
//	go run ./cmd/genmock -out pickled_data
//	go run ./cmd/genmock -out /tmp/forecasts -states CA,NY,TX
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/couchcryptid/vaccination-dashboard/internal/domain"
	"github.com/couchcryptid/vaccination-dashboard/internal/fixture"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output directory for the artifact tree")
	only := flag.String("states", "", "comma-separated state ids to include (default: all)")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	states, err := selectStates(fixture.USStates, *only)
	if err != nil {
		return err
	}

	tree, err := fixture.Write(*out, states)
	if err != nil {
		return fmt.Errorf("write artifact tree: %w", err)
	}

	fmt.Printf("Wrote %d states\n", len(states))
	fmt.Printf("  registry: %s\n", tree.StatesFile)
	fmt.Printf("  graphs:   %s\n", tree.Layout.GraphsDir)
	fmt.Printf("  plots:    %s\n", tree.Layout.PlotsDir)
	return nil
}

// selectStates filters all to the comma-separated ids in only, keeping
// registry order. An empty filter selects everything.
func selectStates(all []domain.State, only string) ([]domain.State, error) {
	if strings.TrimSpace(only) == "" {
		return all, nil
	}

	want := map[string]bool{}
	for _, id := range strings.Split(only, ",") {
		if id = strings.ToUpper(strings.TrimSpace(id)); id != "" {
			want[id] = true
		}
	}

	var selected []domain.State
	for _, s := range all {
		if want[s.ID] {
			selected = append(selected, s)
			delete(want, s.ID)
		}
	}
	if len(want) > 0 {
		var unknown []string
		for id := range want {
			unknown = append(unknown, id)
		}
		return nil, fmt.Errorf("unknown state ids: %s", strings.Join(unknown, ", "))
	}
	return selected, nil
}
