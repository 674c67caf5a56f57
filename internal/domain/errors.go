package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyRegistry = errors.New("state registry is empty")
	ErrInvalidEntry  = errors.New("invalid registry entry")
	ErrDuplicateID   = errors.New("duplicate state id")
	ErrDuplicateName = errors.New("duplicate state display name")
	ErrUnknownState  = errors.New("unknown state")

	ErrArtifactNotFound = errors.New("artifact not found")
	ErrArtifactCorrupt  = errors.New("artifact corrupt")
)

// ArtifactError reports a failure to load one artifact of one state.
type ArtifactError struct {
	StateID string
	Kind    ArtifactKind
	Path    string
	Err     error
}

func (e *ArtifactError) Error() string {
	return fmt.Sprintf("%s artifact for %s (%s): %v", e.Kind, e.StateID, e.Path, e.Err)
}

func (e *ArtifactError) Unwrap() error { return e.Err }
