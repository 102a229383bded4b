package api

import (
	"net/http"

	"order-map-service/internal/adapters/render"
	"order-map-service/internal/adapters/surface"
	"order-map-service/internal/api/handlers"
	"order-map-service/internal/ports"
	"order-map-service/internal/session"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root (handlers stay unaware of
// how the engine is assembled).
func NewRouter(
	repo ports.OrderRepository,
	manager *session.Manager,
	scenes *render.SceneRenderer,
	surfaces *surface.Registry,
) http.Handler {
	mux := http.NewServeMux()

	orderHandler := &handlers.OrderHandler{Repo: repo}
	trackingHandler := &handlers.TrackingHandler{Manager: manager, Scenes: scenes}
	surfaceHandler := &handlers.SurfaceHandler{Registry: surfaces}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/orders", orderHandler.List)
	mux.HandleFunc("/track", trackingHandler.Track)
	mux.HandleFunc("/track/scene", trackingHandler.Scene)
	mux.HandleFunc("/surface", surfaceHandler.Surface)

	return loggingMiddleware(mux)
}
