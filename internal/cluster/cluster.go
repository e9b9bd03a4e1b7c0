package cluster

import (
	"math"
	"sort"
	"time"

	"drone-media-map/internal/geo"
	"drone-media-map/internal/logging"
	"drone-media-map/internal/mediatypes"
	"drone-media-map/internal/metrics"
	"drone-media-map/internal/registry"
	"drone-media-map/internal/spatial"
)

// DefaultBaseCellDeg is the cell size at resolution 1. Dividing by the
// caller's resolution mirrors map zoom: resolution 100 buckets markers
// into 0.01 degree cells.
const DefaultBaseCellDeg = 1.0

// Cluster is an ephemeral group of media markers rendered as a single
// map marker at a given resolution. It is recomputed from the index
// snapshot on every call and never persisted.
type Cluster struct {
	// Centroid is the arithmetic mean of member coordinates.
	Centroid geo.Point `json:"centroid"`
	// Members holds the ids of the grouped records, sorted ascending.
	Members []string `json:"members"`
	// Count duplicates len(Members) for rendering convenience.
	Count int `json:"count"`
	// DominantKind drives marker styling: the majority kind among
	// members, image on a tie.
	DominantKind mediatypes.Kind `json:"dominantKind"`
	// BBox bounds the member coordinates, used for hit-testing.
	BBox geo.BBox `json:"bbox"`
}

// KindLookup resolves a record id to its media kind. The registry
// satisfies this; tests substitute fixed maps.
type KindLookup interface {
	Get(id string) (registry.MediaRecord, bool)
}

// Engine computes marker clusters for a zoom/resolution level from the
// spatial index. It retains no state between calls, so a cluster can
// never reference a deregistered record.
type Engine struct {
	idx         *spatial.Index
	records     KindLookup
	baseCellDeg float64
}

// NewEngine creates a cluster engine over the given index and record
// lookup, using DefaultBaseCellDeg.
func NewEngine(idx *spatial.Index, records KindLookup) *Engine {
	return &Engine{idx: idx, records: records, baseCellDeg: DefaultBaseCellDeg}
}

// Compute returns the clusters for the given resolution, deterministic
// for a given index snapshot: members sorted by id, clusters ordered
// south-to-north then west-to-east by cell. Higher resolution means
// smaller cells and more, smaller clusters. An empty index yields an
// empty result; a non-positive resolution, or one whose cells would be
// finer than geo.MinCellSizeDeg, is a configuration error.
func (e *Engine) Compute(resolution float64) ([]Cluster, error) {
	if !(resolution > 0) || math.IsInf(resolution, 0) {
		return nil, &geo.ConfigError{Param: "resolution", Value: resolution}
	}

	start := time.Now()
	cellDeg := e.baseCellDeg / resolution
	// Cells finer than the quantization limit cannot keep distinct
	// coordinates apart, so refuse rather than merge silently.
	if cellDeg < geo.MinCellSizeDeg {
		return nil, &geo.ConfigError{Param: "resolution", Value: resolution}
	}

	entries := e.idx.Entries()
	if len(entries) == 0 {
		return []Cluster{}, nil
	}

	groups := make(map[geo.Cell][]spatial.Entry)
	for _, en := range entries {
		c := geo.CellAt(en.Lat, en.Lon, cellDeg)
		groups[c] = append(groups[c], en)
	}

	cells := make([]geo.Cell, 0, len(groups))
	for c := range groups {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Y != cells[j].Y {
			return cells[i].Y < cells[j].Y
		}
		return cells[i].X < cells[j].X
	})

	clusters := make([]Cluster, 0, len(cells))
	for _, c := range cells {
		clusters = append(clusters, e.build(groups[c]))
	}

	metrics.ClusterComputeDuration.Observe(time.Since(start).Seconds())
	metrics.ClusterCount.Set(float64(len(clusters)))
	logging.Debug("Compute(resolution=%v): %d records into %d clusters in %v",
		resolution, len(entries), len(clusters), time.Since(start))
	return clusters, nil
}

// build assembles one cluster from the entries sharing a cell.
func (e *Engine) build(members []spatial.Entry) Cluster {
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })

	var sumLat, sumLon float64
	images := 0
	videos := 0
	bbox := geo.BBoxAround(members[0].Lat, members[0].Lon)
	ids := make([]string, len(members))

	for i, m := range members {
		ids[i] = m.ID
		sumLat += m.Lat
		sumLon += m.Lon
		bbox = bbox.Extend(m.Lat, m.Lon)

		if rec, ok := e.records.Get(m.ID); ok && rec.Kind == mediatypes.KindVideo {
			videos++
		} else {
			images++
		}
	}

	kind := mediatypes.KindImage
	if videos > images {
		kind = mediatypes.KindVideo
	}

	n := float64(len(members))
	return Cluster{
		Centroid:     geo.Point{Lat: sumLat / n, Lon: sumLon / n},
		Members:      ids,
		Count:        len(ids),
		DominantKind: kind,
		BBox:         bbox,
	}
}
