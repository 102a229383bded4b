package dto

type TrackRequest struct {
	OrderID int `json:"order_id"`
}

type SessionResponse struct {
	OrderID  int    `json:"order_id,omitempty"`
	State    string `json:"state"`
	Attempts int    `json:"attempts"`
	Reason   string `json:"reason,omitempty"`
}

type SurfaceRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type MarkerResponse struct {
	Type            string    `json:"type"`
	Coordinate      []float64 `json:"coordinate"`
	Label           string    `json:"label"`
	ComposedAddress string    `json:"composed_address"`
}

type ViewportResponse struct {
	Center []float64       `json:"center"`
	Zoom   int             `json:"zoom,omitempty"`
	Bounds *BoundsResponse `json:"bounds,omitempty"`
}

type BoundsResponse struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`
}

type RouteResponse struct {
	From []float64 `json:"from"`
	To   []float64 `json:"to"`
}

type SceneResponse struct {
	SurfaceID string            `json:"surface_id"`
	Markers   []MarkerResponse  `json:"markers"`
	Viewport  *ViewportResponse `json:"viewport,omitempty"`
	Route     *RouteResponse    `json:"route,omitempty"`
}
