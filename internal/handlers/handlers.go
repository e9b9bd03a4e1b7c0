package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"drone-media-map/internal/engine"
	"drone-media-map/internal/media"
	"drone-media-map/internal/startup"
	"drone-media-map/internal/storage"
)

// Handlers bundles the HTTP surface over the media map engine.
type Handlers struct {
	engine    *engine.Engine
	store     *storage.Store
	thumbGen  *media.ThumbnailGenerator
	startTime time.Time
}

// New creates the handler set.
func New(eng *engine.Engine, store *storage.Store, config *startup.Config) *Handlers {
	return &Handlers{
		engine:    eng,
		store:     store,
		thumbGen:  media.NewThumbnailGenerator(config.ThumbnailDir, config.ThumbnailsEnabled),
		startTime: time.Now(),
	}
}

// RegisterRoutes attaches every endpoint to the router.
func (h *Handlers) RegisterRoutes(router *mux.Router, metricsEnabled bool) {
	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/media", h.IngestMedia).Methods(http.MethodPost)
	api.HandleFunc("/media", h.ListMedia).Methods(http.MethodGet)
	api.HandleFunc("/media", h.RemoveAllMedia).Methods(http.MethodDelete)
	api.HandleFunc("/media/{id}", h.GetMedia).Methods(http.MethodGet)
	api.HandleFunc("/media/{id}", h.RemoveMedia).Methods(http.MethodDelete)
	api.HandleFunc("/media/{id}/file", h.ServeMediaFile).Methods(http.MethodGet)
	api.HandleFunc("/media/{id}/thumbnail", h.ServeThumbnail).Methods(http.MethodGet)

	api.HandleFunc("/markers", h.GetMarkers).Methods(http.MethodGet)
	api.HandleFunc("/nearest", h.GetNearest).Methods(http.MethodGet)
	api.HandleFunc("/map", h.GetMapView).Methods(http.MethodGet)
	api.HandleFunc("/stats", h.GetStats).Methods(http.MethodGet)

	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	router.HandleFunc("/version", h.GetVersion).Methods(http.MethodGet)
	if metricsEnabled {
		router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	}
}
