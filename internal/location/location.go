// Package location provides the device-location capability consumed by the
// resolver: an interface, a typed error taxonomy, and fixed and
// IP-geolocation implementations.
package location

import (
	"context"
	"fmt"

	"github.com/msharif/salat-cli-go/internal/prayer"
)

// ErrorKind classifies why a location could not be obtained.
type ErrorKind int

const (
	// PermissionDenied means geolocation is disabled by configuration.
	PermissionDenied ErrorKind = iota
	// Unavailable means the location source exists but failed to answer
	// with a usable position.
	Unavailable
	// Timeout means the source did not answer in time.
	Timeout
)

func (k ErrorKind) String() string {
	switch k {
	case PermissionDenied:
		return "permission denied"
	case Timeout:
		return "timeout"
	default:
		return "unavailable"
	}
}

// Error is a location-acquisition failure. Callers recover by falling back
// to cached data; the error is surfaced as a warning, never as fatal.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("location %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("location %s", e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Source yields the device's current position.
type Source interface {
	Current(ctx context.Context) (prayer.Coordinates, error)
}

// StaticSource serves a fixed, configured position.
type StaticSource struct {
	Coords prayer.Coordinates
}

// Current implements Source.
func (s StaticSource) Current(context.Context) (prayer.Coordinates, error) {
	if !s.Coords.Valid() {
		return prayer.Coordinates{}, &Error{Kind: Unavailable, Err: fmt.Errorf("configured coordinates out of range")}
	}
	return s.Coords, nil
}

// Disabled is a Source that always reports PermissionDenied. It stands in
// when the user has switched geolocation off and set no fixed position.
type Disabled struct{}

// Current implements Source.
func (Disabled) Current(context.Context) (prayer.Coordinates, error) {
	return prayer.Coordinates{}, &Error{Kind: PermissionDenied}
}
