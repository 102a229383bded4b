package ports

import (
	"order-map-service/internal/domain"
)

// Port: the map widget the session manager paints onto.
type Renderer interface {
	// Bind a rendering session to a laid-out surface.
	CreateSession(surface SurfaceState) (RenderSession, error)
}

// Live rendering session bound to one surface.
//
// Every method may be called only between CreateSession and Dispose;
// Dispose itself must be safe on an already-disposed session.
type RenderSession interface {
	// Plot color-coded markers (customer vs seller).
	Plot(markers domain.MarkerSet) error
	// Fit the viewport: a single marker centers at a fixed zoom, multiple
	// markers produce a padded bounding viewport containing all of them.
	FitView(markers domain.MarkerSet) error
	// Draw one route polyline between two resolved points.
	DrawRoute(from, to domain.Coordinates) error
	// Recompute layout-dependent internals after a late layout shift.
	Resize() error
	// Release all resources. No-op when already disposed.
	Dispose()
}
