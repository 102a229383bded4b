package render

import (
	"errors"
	"sync"

	"order-map-service/internal/domain"
	"order-map-service/internal/ports"
)

// Zoom level used when the viewport centers on a single marker.
const singleMarkerZoom = 15

// Fraction of the marker span added on each side when fitting bounds.
const boundsPaddingRatio = 0.15

// Minimum padding in degrees, so coincident markers still get a visible box.
const minBoundsPadding = 0.002

// Geographic bounding box with padding already applied.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`
}

// Fitted viewport: either a centered fixed zoom (single marker) or padded
// bounds containing every marker.
type Viewport struct {
	Center domain.Coordinates
	Zoom   int
	Bounds *Bounds
}

// Route polyline between the customer marker and the first seller marker.
type Route struct {
	From domain.Coordinates
	To   domain.Coordinates
}

// Everything the last rendering pass painted, for the host view to read back.
type Scene struct {
	SurfaceID string
	Markers   domain.MarkerSet
	Viewport  *Viewport
	Route     *Route
}

// SceneRenderer implements the Renderer port by recording the painted scene
// in memory instead of driving a tile widget. The host view fetches the
// scene over the API and draws it; tests assert against it directly.
//
// Safe for concurrent use.
type SceneRenderer struct {
	mu      sync.Mutex
	current *sceneSession
}

func NewSceneRenderer() *SceneRenderer {
	return &SceneRenderer{}
}

// CreateSession binds a new recording session to the given surface.
func (r *SceneRenderer) CreateSession(surface ports.SurfaceState) (ports.RenderSession, error) {
	if !surface.Ready() {
		return nil, errors.New("create render session: surface has zero size")
	}

	s := &sceneSession{
		renderer: r,
		scene:    Scene{SurfaceID: surface.ID},
	}

	r.mu.Lock()
	r.current = s
	r.mu.Unlock()

	return s, nil
}

// Scene returns a copy of the most recently painted scene.
// The second return value is false when no session is live.
func (r *SceneRenderer) Scene() (Scene, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current == nil {
		return Scene{}, false
	}
	return r.current.snapshot(), true
}

// detach clears the renderer's current session if it is s.
func (r *SceneRenderer) detach(s *sceneSession) {
	r.mu.Lock()
	if r.current == s {
		r.current = nil
	}
	r.mu.Unlock()
}

type sceneSession struct {
	renderer *SceneRenderer

	mu       sync.Mutex
	disposed bool
	resizes  int
	scene    Scene
}

var errDisposed = errors.New("render session: already disposed")

func (s *sceneSession) Plot(markers domain.MarkerSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return errDisposed
	}
	s.scene.Markers = append(domain.MarkerSet(nil), markers...)
	return nil
}

func (s *sceneSession) FitView(markers domain.MarkerSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return errDisposed
	}
	if len(markers) == 0 {
		return errors.New("fit view: no markers")
	}

	vp := fitViewport(markers)
	s.scene.Viewport = &vp
	return nil
}

func (s *sceneSession) DrawRoute(from, to domain.Coordinates) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return errDisposed
	}
	s.scene.Route = &Route{From: from, To: to}
	return nil
}

func (s *sceneSession) Resize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return errDisposed
	}
	s.resizes++
	return nil
}

// Dispose releases the session. Safe to call more than once.
func (s *sceneSession) Dispose() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	s.mu.Unlock()

	s.renderer.detach(s)
}

func (s *sceneSession) snapshot() Scene {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.scene
	out.Markers = append(domain.MarkerSet(nil), s.scene.Markers...)
	if s.scene.Viewport != nil {
		vp := *s.scene.Viewport
		out.Viewport = &vp
	}
	if s.scene.Route != nil {
		rt := *s.scene.Route
		out.Route = &rt
	}
	return out
}

// fitViewport computes the viewport for a marker set: a single marker
// centers at a fixed zoom, multiple markers produce padded bounds that
// contain all of them.
func fitViewport(markers domain.MarkerSet) Viewport {
	if len(markers) == 1 {
		return Viewport{Center: markers[0].Coordinate, Zoom: singleMarkerZoom}
	}

	minLat, maxLat := markers[0].Coordinate.Lat, markers[0].Coordinate.Lat
	minLng, maxLng := markers[0].Coordinate.Lng, markers[0].Coordinate.Lng
	for _, m := range markers[1:] {
		c := m.Coordinate
		if c.Lat < minLat {
			minLat = c.Lat
		}
		if c.Lat > maxLat {
			maxLat = c.Lat
		}
		if c.Lng < minLng {
			minLng = c.Lng
		}
		if c.Lng > maxLng {
			maxLng = c.Lng
		}
	}

	padLat := (maxLat - minLat) * boundsPaddingRatio
	if padLat < minBoundsPadding {
		padLat = minBoundsPadding
	}
	padLng := (maxLng - minLng) * boundsPaddingRatio
	if padLng < minBoundsPadding {
		padLng = minBoundsPadding
	}

	return Viewport{
		Center: domain.Coordinates{
			Lat: (minLat + maxLat) / 2,
			Lng: (minLng + maxLng) / 2,
		},
		Bounds: &Bounds{
			MinLat: minLat - padLat,
			MinLng: minLng - padLng,
			MaxLat: maxLat + padLat,
			MaxLng: maxLng + padLng,
		},
	}
}
