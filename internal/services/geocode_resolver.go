package services

import (
	"context"
	"log"
	"time"

	"order-map-service/internal/domain"
	"order-map-service/internal/ports"
)

const defaultLookupTimeout = 10 * time.Second

// Resolver converts normalized addresses into coordinates via the external
// geocode lookup collaborator.
//
// Resolve never returns an error: a lookup failure or no-match result
// surfaces as nil and the caller decides whether the absence matters
// (for any single marker it does not). Retries are the collaborator's
// concern, not this layer's.
type Resolver struct {
	provider ports.GeocodeProvider
	timeout  time.Duration
}

func NewResolver(provider ports.GeocodeProvider) *Resolver {
	return &Resolver{provider: provider, timeout: defaultLookupTimeout}
}

// NewResolverWithTimeout overrides the per-lookup timeout.
// A non-positive timeout disables the bound.
func NewResolverWithTimeout(provider ports.GeocodeProvider, timeout time.Duration) *Resolver {
	return &Resolver{provider: provider, timeout: timeout}
}

// Resolve the address hierarchy to coordinates, or nil when unresolved.
// Each call carries its own timeout so a hung collaborator cannot stall
// a whole marker-set build indefinitely.
func (r *Resolver) Resolve(ctx context.Context, addr domain.Address) *domain.Coordinates {
	if !addr.HasHierarchy() {
		return nil
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	coord, err := r.provider.Lookup(ctx, addr.Province, addr.Municipality, addr.Barangay)
	if err != nil {
		log.Printf(
			"geocode unresolved province=%q municipality=%q barangay=%q err=%v",
			addr.Province, addr.Municipality, addr.Barangay, err,
		)
		return nil
	}

	return &coord
}
