package spatial

import (
	"math"
	"sort"
	"sync"

	"drone-media-map/internal/geo"
	"drone-media-map/internal/logging"
	"drone-media-map/internal/registry"
)

// DefaultCellSizeDeg is the grid bucket size. Roughly 1.1 km of latitude
// per cell, which keeps city-scale media sets to a handful of ids per
// bucket.
const DefaultCellSizeDeg = 0.01

// metersPerDegree is the meridian arc length of one degree on the
// R=6371km sphere the haversine distance uses. The nearest-query ring
// bound must use the same sphere or the early-exit could be unsound.
const metersPerDegree = math.Pi * 6371000.0 / 180.0

type point struct {
	lat float64
	lon float64
}

// Entry is one indexed record in a snapshot.
type Entry struct {
	ID  string
	Lat float64
	Lon float64
}

// Index is a mutable grid over all located media records. Cells bucket
// ids at a fixed, resolution-independent size; range queries enumerate
// overlapping cells and nearest queries expand ring by ring.
//
// A single RWMutex gives the single-writer/multi-reader model: reads see
// a state consistent at the start of the call and never a half-applied
// mutation.
type Index struct {
	mu       sync.RWMutex
	cellSize float64
	cells    map[geo.Cell]map[string]struct{}
	points   map[string]point
}

// New creates an index with the given cell size in degrees. Sizes below
// geo.MinCellSizeDeg or non-finite are configuration errors.
func New(cellSizeDeg float64) (*Index, error) {
	if !(cellSizeDeg >= geo.MinCellSizeDeg) || math.IsInf(cellSizeDeg, 0) {
		return nil, &geo.ConfigError{Param: "cell size", Value: cellSizeDeg}
	}
	return &Index{
		cellSize: cellSizeDeg,
		cells:    make(map[geo.Cell]map[string]struct{}),
		points:   make(map[string]point),
	}, nil
}

// Insert adds or repositions an id. Coordinates are assumed validated by
// the extractor; the index never sees a MissingLocation record.
func (ix *Index) Insert(id string, lat, lon float64) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if old, ok := ix.points[id]; ok {
		ix.removeFromCell(id, old)
	}

	ix.points[id] = point{lat: lat, lon: lon}
	c := geo.CellAt(lat, lon, ix.cellSize)
	bucket, ok := ix.cells[c]
	if !ok {
		bucket = make(map[string]struct{})
		ix.cells[c] = bucket
	}
	bucket[id] = struct{}{}
}

// Remove deletes an id; returns false when it was not indexed.
func (ix *Index) Remove(id string) bool {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	p, ok := ix.points[id]
	if !ok {
		return false
	}
	delete(ix.points, id)
	ix.removeFromCell(id, p)
	return true
}

func (ix *Index) removeFromCell(id string, p point) {
	c := geo.CellAt(p.lat, p.lon, ix.cellSize)
	if bucket, ok := ix.cells[c]; ok {
		delete(bucket, id)
		if len(bucket) == 0 {
			delete(ix.cells, c)
		}
	}
}

// Len returns the number of indexed records.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.points)
}

// Contains reports whether an id is indexed.
func (ix *Index) Contains(id string) bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	_, ok := ix.points[id]
	return ok
}

// CellSize returns the configured bucket size in degrees.
func (ix *Index) CellSize() float64 {
	return ix.cellSize
}

// Entries returns a snapshot of every indexed record. Order is
// unspecified; callers needing determinism sort the result.
func (ix *Index) Entries() []Entry {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	out := make([]Entry, 0, len(ix.points))
	for id, p := range ix.points {
		out = append(out, Entry{ID: id, Lat: p.lat, Lon: p.lon})
	}
	return out
}

// RangeQuery returns the ids of all records whose coordinates fall
// within the box, bounds inclusive, sorted by id for determinism. Only
// cells overlapping the box are enumerated.
func (ix *Index) RangeQuery(b geo.BBox) []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	lo := geo.CellAt(b.MinLat, b.MinLon, ix.cellSize)
	hi := geo.CellAt(b.MaxLat, b.MaxLon, ix.cellSize)

	var out []string
	for y := lo.Y; y <= hi.Y; y++ {
		for x := lo.X; x <= hi.X; x++ {
			for id := range ix.cells[geo.Cell{X: x, Y: y}] {
				p := ix.points[id]
				if b.Contains(p.lat, p.lon) {
					out = append(out, id)
				}
			}
		}
	}
	sort.Strings(out)
	return out
}

type candidate struct {
	id   string
	dist float64
}

// Nearest returns up to k ids ordered by great-circle distance from the
// query point, ties broken by ascending id. Occupied cells are grouped
// by their Chebyshev ring around the query cell and visited in ring
// order, so the cost scales with occupied cells, never with the empty
// span between the query and a distant record. Expansion stops once the
// closest possible point in the current ring is farther than the kth
// candidate.
func (ix *Index) Nearest(lat, lon float64, k int) []string {
	if k <= 0 {
		return nil
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if len(ix.points) == 0 {
		return nil
	}

	center := geo.CellAt(lat, lon, ix.cellSize)

	rings := make(map[int][]geo.Cell)
	radii := make([]int, 0, len(ix.cells))
	for c := range ix.cells {
		r := chebyshev(center, c)
		if _, ok := rings[r]; !ok {
			radii = append(radii, r)
		}
		rings[r] = append(rings[r], c)
	}
	sort.Ints(radii)

	var cands []candidate
	for _, r := range radii {
		if len(cands) >= k && ix.minRingDistance(lat, r) > cands[k-1].dist {
			break
		}
		for _, c := range rings[r] {
			for id := range ix.cells[c] {
				p := ix.points[id]
				cands = append(cands, candidate{
					id:   id,
					dist: geo.HaversineDistance(lat, lon, p.lat, p.lon),
				})
			}
		}
		sortCandidates(cands)
	}

	if len(cands) > k {
		cands = cands[:k]
	}
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.id
	}
	logging.Debug("Nearest(%v, %v, %d): %d candidates", lat, lon, k, len(out))
	return out
}

func sortCandidates(cands []candidate) {
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].dist != cands[j].dist {
			return cands[i].dist < cands[j].dist
		}
		return cands[i].id < cands[j].id
	})
}

// chebyshev returns the ring number of cell b around cell a.
func chebyshev(a, b geo.Cell) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}

// minRingDistance lower-bounds the great-circle distance from the query
// point to any point inside a ring-r cell. A ring-r cell is at least
// (r-1) whole cells away in latitude or longitude; the longitude case is
// the weaker bound because degrees shrink toward the poles, evaluated at
// the highest latitude the ring can reach.
func (ix *Index) minRingDistance(queryLat float64, r int) float64 {
	if r < 2 {
		return 0
	}
	maxLat := math.Abs(queryLat) + float64(r+1)*ix.cellSize
	if maxLat >= 90 {
		return 0
	}
	cos := math.Cos(maxLat * math.Pi / 180.0)
	return float64(r-1) * ix.cellSize * metersPerDegree * cos
}

// RecordRegistered indexes a newly registered record. Records without a
// usable location are never indexed, keeping the index a strict subset
// of the registry.
func (ix *Index) RecordRegistered(rec registry.MediaRecord) {
	if !rec.HasLocation {
		return
	}
	ix.Insert(rec.ID, rec.Latitude, rec.Longitude)
}

// RecordDeregistered cascades a registry removal into the index.
func (ix *Index) RecordDeregistered(rec registry.MediaRecord) {
	ix.Remove(rec.ID)
}
