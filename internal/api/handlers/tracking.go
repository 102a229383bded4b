package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"order-map-service/internal/adapters/render"
	"order-map-service/internal/api/dto"
	"order-map-service/internal/session"
)

// TrackingHandler exposes the host-view contract of the map session engine:
// order selected for tracking, tracking view closed, and session state.
type TrackingHandler struct {
	Manager *session.Manager
	Scenes  *render.SceneRenderer
}

// Track dispatches on method: POST selects an order for tracking, GET reads
// the session snapshot, DELETE closes the tracking view.
func (h *TrackingHandler) Track(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.start(w, r)
	case http.MethodGet:
		writeJSON(w, r, http.StatusOK, sessionResponse(h.Manager.Snapshot()))
	case http.MethodDelete:
		h.Manager.StopTracking()
		w.WriteHeader(http.StatusNoContent)
	default:
		w.Header().Set("Allow", "POST, GET, DELETE")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *TrackingHandler) start(w http.ResponseWriter, r *http.Request) {
	var req dto.TrackRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if req.OrderID < 1 {
		writeError(w, r, http.StatusBadRequest, "order_id must be positive")
		return
	}

	h.Manager.StartTracking(req.OrderID)
	writeJSON(w, r, http.StatusAccepted, sessionResponse(h.Manager.Snapshot()))
}

// Scene returns the most recently painted scene for the host to draw.
func (h *TrackingHandler) Scene(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	scene, ok := h.Scenes.Scene()
	if !ok {
		writeError(w, r, http.StatusNotFound, "no active rendering session")
		return
	}

	res := dto.SceneResponse{
		SurfaceID: scene.SurfaceID,
		Markers:   make([]dto.MarkerResponse, 0, len(scene.Markers)),
	}
	for _, m := range scene.Markers {
		res.Markers = append(res.Markers, dto.MarkerResponse{
			Type:            string(m.Type),
			Coordinate:      m.Coordinate.CoordsToList(),
			Label:           m.Label,
			ComposedAddress: m.ComposedAddress,
		})
	}
	if scene.Viewport != nil {
		res.Viewport = &dto.ViewportResponse{
			Center: scene.Viewport.Center.CoordsToList(),
			Zoom:   scene.Viewport.Zoom,
		}
		if b := scene.Viewport.Bounds; b != nil {
			res.Viewport.Bounds = &dto.BoundsResponse{
				MinLat: b.MinLat,
				MinLng: b.MinLng,
				MaxLat: b.MaxLat,
				MaxLng: b.MaxLng,
			}
		}
	}
	if scene.Route != nil {
		res.Route = &dto.RouteResponse{
			From: scene.Route.From.CoordsToList(),
			To:   scene.Route.To.CoordsToList(),
		}
	}

	writeJSON(w, r, http.StatusOK, res)
}

func sessionResponse(snap session.Snapshot) dto.SessionResponse {
	return dto.SessionResponse{
		OrderID:  snap.OrderID,
		State:    string(snap.State),
		Attempts: snap.Attempts,
		Reason:   snap.Reason,
	}
}
