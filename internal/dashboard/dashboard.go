// Package dashboard runs the lookup, resolve and load sequence behind every
// page view.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/couchcryptid/vaccination-dashboard/internal/domain"
	"github.com/couchcryptid/vaccination-dashboard/internal/observability"
)

// View is everything the page needs for one selected state. A failed
// artifact is reported in its own error field; the rest of the view stays usable.
type View struct {
	State    domain.State
	Paths    domain.ArtifactPaths
	Chart    domain.Chart
	ChartErr error
	Plots    []PlotView
	Coverage domain.DataCoverage
}

// PlotView is the status of one component plot in a View.
type PlotView struct {
	Kind domain.ArtifactKind
	Err  error
}

// Service resolves selections and loads their artifacts.
type Service struct {
	resolver *domain.Resolver
	loader   domain.ArtifactLoader
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// New creates a Service over a loaded registry.
func New(resolver *domain.Resolver, loader domain.ArtifactLoader, logger *slog.Logger, metrics *observability.Metrics) *Service {
	metrics.RegistryStates.Set(float64(resolver.Registry().Len()))
	return &Service{
		resolver: resolver,
		loader:   loader,
		logger:   logger,
		metrics:  metrics,
	}
}

// States returns the dropdown options in registry order.
func (s *Service) States() []domain.State {
	return s.resolver.Registry().States()
}

// View resolves name and loads its artifacts. An empty name selects the
// first registry entry. Only an unknown name is returned as an error;
// artifact failures are carried inside the View.
func (s *Service) View(ctx context.Context, name string) (View, error) {
	if name == "" {
		name = s.resolver.Registry().First().Name
	}

	res, err := s.resolver.Resolve(name)
	if err != nil {
		s.metrics.PageRenders.WithLabelValues("unknown_state").Inc()
		return View{}, err
	}

	v := View{
		State:    res.State,
		Paths:    res.Paths,
		Coverage: domain.CurrentCoverage(),
	}

	v.Chart, v.ChartErr = s.loader.LoadChart(ctx, res)
	failed := s.logArtifactErr(res, domain.KindChart, v.ChartErr)

	for _, kind := range domain.PlotKinds {
		_, err := s.loader.LoadImage(ctx, res, kind)
		v.Plots = append(v.Plots, PlotView{Kind: kind, Err: err})
		failed = s.logArtifactErr(res, kind, err) || failed
	}

	outcome := "ok"
	if failed {
		outcome = "artifact_error"
	}
	s.metrics.PageRenders.WithLabelValues(outcome).Inc()
	return v, nil
}

// Plot loads one component plot by state id.
func (s *Service) Plot(ctx context.Context, id string, kind domain.ArtifactKind) (domain.Image, error) {
	res, err := s.resolver.ResolveID(id)
	if err != nil {
		return domain.Image{}, err
	}
	img, err := s.loader.LoadImage(ctx, res, kind)
	s.logArtifactErr(res, kind, err)
	return img, err
}

// CheckReadiness reports whether both artifact directories are reachable.
func (s *Service) CheckReadiness(_ context.Context) error {
	layout := s.resolver.Layout()
	for _, dir := range []string{layout.GraphsDir, layout.PlotsDir} {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("artifact directory: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("artifact directory %s is not a directory", dir)
		}
	}
	return nil
}

func (s *Service) logArtifactErr(res domain.Resolution, kind domain.ArtifactKind, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	s.logger.Warn("artifact unavailable",
		"state", res.State.ID,
		"kind", kind,
		"error", err,
	)
	return true
}
