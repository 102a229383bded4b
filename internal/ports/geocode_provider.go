package ports

import (
	"context"
	"errors"

	"order-map-service/internal/domain"
)

// Returned by a GeocodeProvider when the lookup service has no coordinate
// for the requested hierarchy. Callers treat it as "unresolved", not fatal.
var ErrNoMatch = errors.New("geocode: no match")

// Port: a boundary for resolving a province/municipality/barangay triple
// into geographic coordinates via an external lookup service.
type GeocodeProvider interface {
	// Resolve the hierarchy to coordinates. Returns ErrNoMatch when the
	// service has no result; any other error is a transport-level failure.
	Lookup(ctx context.Context, province, municipality, barangay string) (domain.Coordinates, error)
}
