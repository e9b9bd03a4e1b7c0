package handlers

import (
	"net/http"
	"strconv"
)

// Without an explicit resolution, markers bucket into 0.01 degree
// cells, matching the spatial index grain.
const defaultMarkerResolution = 100.0

// GetMarkers computes marker clusters for the requested resolution.
func (h *Handlers) GetMarkers(w http.ResponseWriter, r *http.Request) {
	resolution := defaultMarkerResolution
	if param := r.URL.Query().Get("resolution"); param != "" {
		parsed, err := strconv.ParseFloat(param, 64)
		if err != nil {
			writeJSONError(w, "resolution must be a number", http.StatusBadRequest)
			return
		}
		resolution = parsed
	}

	clusters, err := h.engine.MarkersFor(resolution)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, map[string]interface{}{
		"resolution": resolution,
		"markers":    clusters,
		"count":      len(clusters),
	})
}

// GetNearest returns the k located records closest to a point.
func (h *Handlers) GetNearest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		writeJSONError(w, "lat must be a decimal degree", http.StatusBadRequest)
		return
	}
	lon, err := strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil {
		writeJSONError(w, "lon must be a decimal degree", http.StatusBadRequest)
		return
	}

	k := 10
	if param := q.Get("k"); param != "" {
		parsed, err := strconv.Atoi(param)
		if err != nil || parsed < 1 {
			writeJSONError(w, "k must be a positive integer", http.StatusBadRequest)
			return
		}
		k = parsed
	}

	records := h.engine.Nearest(lat, lon, k)
	writeJSON(w, map[string]interface{}{
		"media": records,
		"count": len(records),
	})
}

// GetMapView returns the initial viewport for the map client.
func (h *Handlers) GetMapView(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.engine.View())
}

// GetStats returns counts over the registered media set.
func (h *Handlers) GetStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.engine.Stats())
}
