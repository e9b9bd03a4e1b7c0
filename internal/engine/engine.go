package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"drone-media-map/internal/cluster"
	"drone-media-map/internal/extract"
	"drone-media-map/internal/geo"
	"drone-media-map/internal/logging"
	"drone-media-map/internal/mediatypes"
	"drone-media-map/internal/metrics"
	"drone-media-map/internal/registry"
	"drone-media-map/internal/spatial"
	"drone-media-map/internal/storage"
)

// Default map view when no located media exists, and the zoom levels
// for the empty and populated cases.
const (
	DefaultCenterLat = 37.7749
	DefaultCenterLon = -122.4194
	EmptyMapZoom     = 4
	PopulatedMapZoom = 10
)

// Override carries caller-supplied coordinates that replace whatever
// the file's metadata says. Used when an operator corrects a bad or
// missing GPS fix by hand.
type Override struct {
	Latitude  float64
	Longitude float64
}

// MapView is the initial viewport the map client renders.
type MapView struct {
	CenterLat float64 `json:"centerLat"`
	CenterLon float64 `json:"centerLon"`
	Zoom      int     `json:"zoom"`
}

// Engine is the facade over ingest, lookup, removal and marker
// computation. Handlers talk only to the engine; the registry, spatial
// index and blob store stay internal.
type Engine struct {
	reg      *registry.Registry
	idx      *spatial.Index
	clusters *cluster.Engine
	store    *storage.Store
}

// New wires an engine over its collaborators. The index must already
// be attached to the registry as a listener.
func New(reg *registry.Registry, idx *spatial.Index, store *storage.Store) *Engine {
	return &Engine{
		reg:      reg,
		idx:      idx,
		clusters: cluster.NewEngine(idx, reg),
		store:    store,
	}
}

// Ingest extracts metadata from one media file, persists the blob, and
// registers the record. A non-nil override replaces the extracted
// coordinates; files whose metadata lacks GPS data are still accepted
// with a degraded status. Only an unreadable file or an unsupported
// extension fails.
func (e *Engine) Ingest(ctx context.Context, name string, r io.Reader, ov *Override) (registry.MediaRecord, error) {
	start := time.Now()

	kind, ok := mediatypes.KindForFilename(name)
	if !ok {
		metrics.IngestTotal.WithLabelValues("unknown", "unsupported").Inc()
		return registry.MediaRecord{}, fmt.Errorf("unsupported media type: %s", name)
	}

	if err := ctx.Err(); err != nil {
		return registry.MediaRecord{}, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		metrics.IngestTotal.WithLabelValues(string(kind), "unreadable").Inc()
		return registry.MediaRecord{}, fmt.Errorf("reading upload %s: %w", name, err)
	}

	rec, err := extract.ForKind(kind).Extract(bytes.NewReader(data), name)
	if err != nil {
		metrics.IngestTotal.WithLabelValues(string(kind), "unreadable").Inc()
		return registry.MediaRecord{}, err
	}

	if ov != nil {
		if !geo.ValidCoordinates(ov.Latitude, ov.Longitude) {
			metrics.IngestTotal.WithLabelValues(string(kind), "unsupported").Inc()
			return registry.MediaRecord{}, &geo.ConfigError{Param: "latitude", Value: ov.Latitude}
		}
		rec.Latitude = ov.Latitude
		rec.Longitude = ov.Longitude
		rec.HasLocation = true
		rec.Status = mediatypes.StatusFor(true, rec.CapturedAt != nil, rec.Altitude != nil)
	}

	stored, err := e.store.Save(name, data)
	if err != nil {
		metrics.IngestTotal.WithLabelValues(string(kind), "unreadable").Inc()
		return registry.MediaRecord{}, err
	}
	rec.SourceRef = stored

	id := e.reg.Register(rec)
	rec, _ = e.reg.Get(id)

	metrics.IngestTotal.WithLabelValues(string(kind), "ok").Inc()
	metrics.IngestDuration.Observe(time.Since(start).Seconds())
	if !rec.HasLocation {
		metrics.IngestMissingLocation.Inc()
	}

	logging.Info("Ingested %s as %s (kind=%s status=%s)", name, id, kind, rec.Status)
	return rec, nil
}

// Remove deregisters a record and deletes its stored blob. Returns
// false when the id is unknown.
func (e *Engine) Remove(id string) bool {
	rec, ok := e.reg.Get(id)
	if !ok {
		return false
	}
	if !e.reg.Deregister(id) {
		return false
	}
	if rec.SourceRef != "" {
		if err := e.store.Remove(rec.SourceRef); err != nil {
			logging.Warn("failed to remove blob for %s: %v", id, err)
		}
	}
	logging.Info("Removed %s (%s)", id, rec.Name)
	return true
}

// RemoveAll deregisters every record and deletes all stored blobs.
// Returns the number of records removed.
func (e *Engine) RemoveAll() int {
	records := e.reg.All()
	for _, rec := range records {
		e.reg.Deregister(rec.ID)
	}
	if err := e.store.RemoveAll(); err != nil {
		logging.Warn("failed to clear upload store: %v", err)
	}
	logging.Info("Removed all %d records", len(records))
	return len(records)
}

// Lookup returns the full record for an id.
func (e *Engine) Lookup(id string) (registry.MediaRecord, bool) {
	return e.reg.Get(id)
}

// List returns all records in registration order, optionally filtered
// by kind. An empty kind means no filter.
func (e *Engine) List(kind mediatypes.Kind) []registry.MediaRecord {
	all := e.reg.All()
	if kind == "" {
		return all
	}
	out := make([]registry.MediaRecord, 0, len(all))
	for _, rec := range all {
		if rec.Kind == kind {
			out = append(out, rec)
		}
	}
	return out
}

// MarkersFor computes the marker clusters for a map resolution. Only
// located records participate; the result is recomputed from current
// state on every call.
func (e *Engine) MarkersFor(resolution float64) ([]cluster.Cluster, error) {
	return e.clusters.Compute(resolution)
}

// Nearest returns up to k located records closest to the given point,
// nearest first.
func (e *Engine) Nearest(lat, lon float64, k int) []registry.MediaRecord {
	ids := e.idx.Nearest(lat, lon, k)
	out := make([]registry.MediaRecord, 0, len(ids))
	for _, id := range ids {
		if rec, ok := e.reg.Get(id); ok {
			out = append(out, rec)
		}
	}
	return out
}

// Within returns the located records inside a bounding box, sorted by
// id.
func (e *Engine) Within(b geo.BBox) []registry.MediaRecord {
	ids := e.idx.RangeQuery(b)
	out := make([]registry.MediaRecord, 0, len(ids))
	for _, id := range ids {
		if rec, ok := e.reg.Get(id); ok {
			out = append(out, rec)
		}
	}
	return out
}

// Stats returns the media-set counts.
func (e *Engine) Stats() registry.Stats {
	return e.reg.Stats()
}

// GetStats implements metrics.StatsProvider.
func (e *Engine) GetStats() metrics.Stats {
	s := e.reg.Stats()
	return metrics.Stats{
		Images:  s.Images,
		Videos:  s.Videos,
		Located: s.Located,
		Indexed: e.idx.Len(),
	}
}

// View returns the initial map viewport: the mean of located
// coordinates when any exist, otherwise a default center zoomed out.
func (e *Engine) View() MapView {
	entries := e.idx.Entries()
	if len(entries) == 0 {
		return MapView{CenterLat: DefaultCenterLat, CenterLon: DefaultCenterLon, Zoom: EmptyMapZoom}
	}

	var sumLat, sumLon float64
	for _, en := range entries {
		sumLat += en.Lat
		sumLon += en.Lon
	}
	n := float64(len(entries))
	return MapView{CenterLat: sumLat / n, CenterLon: sumLon / n, Zoom: PopulatedMapZoom}
}
