package filestore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/vaccination-dashboard/internal/domain"
	"gopkg.in/yaml.v3"
)

// LoadRegistry reads the state registry file: a single JSON object or YAML
// mapping of state id to display name. Entries keep their document order.
func LoadRegistry(path string) (*domain.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read state registry: %w", err)
	}

	var states []domain.State
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		states, err = decodeJSONRegistry(data)
	case ".yaml", ".yml":
		states, err = decodeYAMLRegistry(data)
	default:
		return nil, fmt.Errorf("state registry %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode state registry %s: %w", path, err)
	}

	reg, err := domain.NewRegistry(states)
	if err != nil {
		return nil, fmt.Errorf("state registry %s: %w", path, err)
	}
	return reg, nil
}

// decodeJSONRegistry walks the object token by token; decoding into a map
// would lose the entry order.
func decodeJSONRegistry(data []byte) ([]domain.State, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("expected an object of state id to display name")
	}

	var states []domain.State
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		id, _ := keyTok.(string)

		var name string
		if err := dec.Decode(&name); err != nil {
			return nil, fmt.Errorf("state %q: %w", id, err)
		}
		states = append(states, domain.State{ID: id, Name: name})
	}

	// Closing brace, then nothing else.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after registry object")
	}
	return states, nil
}

func decodeYAMLRegistry(data []byte) ([]domain.State, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty document")
		}
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("empty document")
	}

	// A second document would be silently ignored.
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("line %d: unexpected second document", extra.Line)
	}

	m := doc.Content[0]
	if m.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping of state id to display name", m.Line)
	}

	states := make([]domain.State, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		k, v := m.Content[i], m.Content[i+1]
		if k.Kind != yaml.ScalarNode || v.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: state id and display name must be scalars", k.Line)
		}
		states = append(states, domain.State{ID: k.Value, Name: v.Value})
	}
	return states, nil
}
