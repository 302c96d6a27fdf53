// Package persist reads and writes map documents and the recent-projects list.
package persist

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned when a load or save of the same map is already running.
	ErrBusy               = errors.New("persist: map is busy")
	ErrUnsupportedVersion = errors.New("persist: unsupported map version")
	ErrCorrupt            = errors.New("persist: corrupt map document")
)

// LoadError reports a map that could not be read or decoded. The target world is
// left untouched.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("persist: load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
