package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"drone-media-map/internal/engine"
	"drone-media-map/internal/extract"
	"drone-media-map/internal/mediatypes"
)

// Uploads larger than this are rejected before extraction.
const maxUploadBytes = 512 << 20 // 512 MiB

var (
	errBothCoordinates = errors.New("lat and lon must be provided together")
	errBadCoordinate   = errors.New("lat and lon must be decimal degrees")
)

// IngestMedia accepts a multipart upload of one or more media files.
// Optional lat/lon form fields override the extracted coordinates for
// every file in the request. A single file returns its record; several
// files return one result per file with per-file errors.
func (h *Handlers) IngestMedia(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSONError(w, "invalid multipart request: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	override, err := parseOverride(r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	fileHeaders := r.MultipartForm.File["file"]
	if len(fileHeaders) == 0 {
		writeJSONError(w, "no file provided", http.StatusBadRequest)
		return
	}

	if len(fileHeaders) == 1 {
		f, err := fileHeaders[0].Open()
		if err != nil {
			writeJSONError(w, "reading upload: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()

		rec, err := h.engine.Ingest(r.Context(), fileHeaders[0].Filename, f, override)
		if err != nil {
			writeJSONError(w, err.Error(), ingestStatus(err))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, rec)
		return
	}

	files := make([]engine.BatchFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			files = append(files, engine.BatchFile{Name: fh.Filename})
			continue
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			files = append(files, engine.BatchFile{Name: fh.Filename})
			continue
		}
		files = append(files, engine.BatchFile{Name: fh.Filename, Data: data, Override: override})
	}

	results := h.engine.IngestBatch(r.Context(), files)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMultiStatus)
	writeJSON(w, map[string]interface{}{"results": results})
}

// ingestStatus maps an ingest failure to an HTTP status: unreadable
// files are the client's problem, anything else is ours.
func ingestStatus(err error) int {
	if extract.IsUnreadable(err) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

// parseOverride reads optional lat/lon form fields. Both must be
// present together.
func parseOverride(r *http.Request) (*engine.Override, error) {
	latStr := r.FormValue("lat")
	lonStr := r.FormValue("lon")
	if latStr == "" && lonStr == "" {
		return nil, nil
	}
	if latStr == "" || lonStr == "" {
		return nil, errBothCoordinates
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, errBadCoordinate
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return nil, errBadCoordinate
	}
	return &engine.Override{Latitude: lat, Longitude: lon}, nil
}

// ListMedia returns all records, optionally filtered by ?kind=.
func (h *Handlers) ListMedia(w http.ResponseWriter, r *http.Request) {
	kindParam := r.URL.Query().Get("kind")
	var kind mediatypes.Kind
	switch kindParam {
	case "":
	case string(mediatypes.KindImage), string(mediatypes.KindVideo):
		kind = mediatypes.Kind(kindParam)
	default:
		writeJSONError(w, "unknown kind: "+kindParam, http.StatusBadRequest)
		return
	}

	records := h.engine.List(kind)
	writeJSON(w, map[string]interface{}{
		"media": records,
		"count": len(records),
	})
}

// GetMedia returns the full record for one id.
func (h *Handlers) GetMedia(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	rec, ok := h.engine.Lookup(id)
	if !ok {
		writeJSONError(w, "media not found", http.StatusNotFound)
		return
	}
	writeJSON(w, rec)
}

// RemoveMedia deregisters one record and deletes its blob.
func (h *Handlers) RemoveMedia(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !h.engine.Remove(id) {
		writeJSONError(w, "media not found", http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]string{"status": "removed", "id": id})
}

// RemoveAllMedia clears the entire media set.
func (h *Handlers) RemoveAllMedia(w http.ResponseWriter, _ *http.Request) {
	n := h.engine.RemoveAll()
	writeJSON(w, map[string]interface{}{"status": "cleared", "removed": n})
}

// ServeMediaFile streams the stored blob for a record.
func (h *Handlers) ServeMediaFile(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	rec, ok := h.engine.Lookup(id)
	if !ok {
		writeJSONError(w, "media not found", http.StatusNotFound)
		return
	}

	path, err := h.store.Path(rec.SourceRef)
	if err != nil {
		writeJSONError(w, "stored blob unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", mediatypes.MimeTypeFor(rec.Name))
	http.ServeFile(w, r, path)
}

// ServeThumbnail returns a cached thumbnail for an image record.
func (h *Handlers) ServeThumbnail(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	rec, ok := h.engine.Lookup(id)
	if !ok {
		writeJSONError(w, "media not found", http.StatusNotFound)
		return
	}

	path, err := h.store.Path(rec.SourceRef)
	if err != nil {
		writeJSONError(w, "stored blob unavailable", http.StatusInternalServerError)
		return
	}

	data, err := h.thumbGen.GetThumbnail(path, rec.Kind)
	if err != nil {
		writeJSONError(w, "thumbnail unavailable: "+err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := w.Write(data); err != nil {
		// Client went away mid-response; nothing to do.
		return
	}
}
