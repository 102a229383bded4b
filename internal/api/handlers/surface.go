package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"order-map-service/internal/adapters/surface"
	"order-map-service/internal/api/dto"
	"order-map-service/internal/ports"
)

// Identifier the host view and the engine agree on for the tracking surface.
const trackingSurfaceID = "order-tracking-map"

// SurfaceHandler receives rendering-surface layout reports from the host
// view. The host reports zero size while its overlay is still transitioning;
// the session manager's poll loop reads these reports through the registry.
type SurfaceHandler struct {
	Registry *surface.Registry
}

func (h *SurfaceHandler) Surface(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPut:
		h.set(w, r)
	case http.MethodDelete:
		h.Registry.Clear()
		w.WriteHeader(http.StatusNoContent)
	default:
		w.Header().Set("Allow", "PUT, DELETE")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *SurfaceHandler) set(w http.ResponseWriter, r *http.Request) {
	var req dto.SurfaceRequest

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

	if req.Width < 0 || req.Height < 0 {
		writeError(w, r, http.StatusBadRequest, "width and height must be non-negative")
		return
	}

	h.Registry.Set(ports.SurfaceState{
		ID:     trackingSurfaceID,
		Width:  req.Width,
		Height: req.Height,
	})
	w.WriteHeader(http.StatusNoContent)
}
