package ports

import "context"

// Layout snapshot of the rendering surface as last reported by the host view.
type SurfaceState struct {
	ID     string
	Width  int
	Height int
}

// A surface can be mounted but not yet laid out: the hosting overlay reports
// zero size until its entrance transition finishes.
func (s SurfaceState) Ready() bool { return s.Width > 0 && s.Height > 0 }

// Port: a boundary for probing whether the rendering surface exists in the
// current layout. The second return value is false while no surface is
// mounted at all.
type SurfaceProvider interface {
	Probe(ctx context.Context) (SurfaceState, bool)
}
