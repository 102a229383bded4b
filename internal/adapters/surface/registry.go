package surface

import (
	"context"
	"sync"

	"order-map-service/internal/ports"
)

// Registry implements SurfaceProvider from layout reports sent by the host
// view. The host reports the tracking surface as its overlay transitions:
// typically absent, then mounted at zero size, then at its final size.
//
// Safe for concurrent use.
type Registry struct {
	mu      sync.Mutex
	present bool
	state   ports.SurfaceState
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Set records the surface's current layout.
func (r *Registry) Set(state ports.SurfaceState) {
	r.mu.Lock()
	r.present = true
	r.state = state
	r.mu.Unlock()
}

// Clear removes the surface, as when the tracking overlay unmounts.
func (r *Registry) Clear() {
	r.mu.Lock()
	r.present = false
	r.state = ports.SurfaceState{}
	r.mu.Unlock()
}

// Probe returns the last reported layout; false while no surface is mounted.
func (r *Registry) Probe(ctx context.Context) (ports.SurfaceState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state, r.present
}
