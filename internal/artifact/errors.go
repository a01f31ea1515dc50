package artifact

import (
	"errors"
	"fmt"
)

// ErrArtifactLoad matches every *LoadError via errors.Is.
var ErrArtifactLoad = errors.New("artifact load failed")

// LoadError reports a missing, corrupt or incompatible artifact.
type LoadError struct {
	Path   string
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	msg := "failed to load artifact"
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrArtifactLoad) true for any LoadError.
func (e *LoadError) Is(target error) bool { return target == ErrArtifactLoad }

func loadErrorf(path string, err error, format string, args ...any) *LoadError {
	return &LoadError{Path: path, Reason: fmt.Sprintf(format, args...), Err: err}
}
