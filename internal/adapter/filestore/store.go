package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/vaccination-dashboard/internal/domain"
	"github.com/couchcryptid/vaccination-dashboard/internal/observability"
)

// Store implements domain.ArtifactLoader by reading artifacts from the local filesystem.
type Store struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewStore creates a filesystem artifact store.
func NewStore(logger *slog.Logger, metrics *observability.Metrics) *Store {
	return &Store{logger: logger, metrics: metrics}
}

// LoadChart reads and validates a state's Plotly figure.
func (s *Store) LoadChart(ctx context.Context, res domain.Resolution) (domain.Chart, error) {
	start := time.Now()
	data, err := s.read(ctx, res, domain.KindChart)
	if err == nil {
		err = validateFigure(data)
		if err != nil {
			err = s.corrupt(res, domain.KindChart, err)
		}
	}
	s.observe(domain.KindChart, start, err)
	if err != nil {
		return domain.Chart{}, err
	}
	return domain.Chart{StateID: res.State.ID, Figure: data}, nil
}

// LoadImage reads a state's component plot and checks that it is an image.
func (s *Store) LoadImage(ctx context.Context, res domain.Resolution, kind domain.ArtifactKind) (domain.Image, error) {
	start := time.Now()
	data, err := s.read(ctx, res, kind)
	var contentType string
	if err == nil {
		contentType = http.DetectContentType(data)
		if !strings.HasPrefix(contentType, "image/") {
			err = s.corrupt(res, kind, fmt.Errorf("content type %s is not an image", contentType))
		}
	}
	s.observe(kind, start, err)
	if err != nil {
		return domain.Image{}, err
	}
	return domain.Image{StateID: res.State.ID, Kind: kind, ContentType: contentType, Data: data}, nil
}

func (s *Store) read(ctx context.Context, res domain.Resolution, kind domain.ArtifactKind) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := res.Paths.Path(kind)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = domain.ErrArtifactNotFound
		}
		return nil, &domain.ArtifactError{StateID: res.State.ID, Kind: kind, Path: path, Err: err}
	}
	return data, nil
}

func (s *Store) corrupt(res domain.Resolution, kind domain.ArtifactKind, cause error) error {
	path, _ := res.Paths.Path(kind)
	return &domain.ArtifactError{
		StateID: res.State.ID,
		Kind:    kind,
		Path:    path,
		Err:     fmt.Errorf("%w: %v", domain.ErrArtifactCorrupt, cause),
	}
}

func (s *Store) observe(kind domain.ArtifactKind, start time.Time, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrArtifactNotFound):
		outcome = "not_found"
	case errors.Is(err, domain.ErrArtifactCorrupt):
		outcome = "corrupt"
	default:
		outcome = "error"
	}

	s.metrics.ArtifactLoads.WithLabelValues(string(kind), outcome).Inc()
	s.metrics.ArtifactLoadDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	if err != nil {
		s.logger.Debug("artifact load failed", "kind", kind, "outcome", outcome, "error", err)
	}
}

// validateFigure accepts a JSON object whose "data" member is an array.
func validateFigure(data []byte) error {
	var fig struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &fig); err != nil {
		return fmt.Errorf("decode figure: %w", err)
	}
	if d := bytes.TrimSpace(fig.Data); len(d) == 0 || d[0] != '[' {
		return errors.New(`figure has no "data" array`)
	}
	return nil
}
