package spatial

import (
	"fmt"
	"math/rand"
	"reflect"
	"sort"
	"testing"
	"time"

	"drone-media-map/internal/geo"
	"drone-media-map/internal/mediatypes"
	"drone-media-map/internal/registry"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := New(DefaultCellSizeDeg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return ix
}

func TestNewRejectsBadCellSize(t *testing.T) {
	for _, size := range []float64{0, -0.01, -1, 1e-12} {
		if _, err := New(size); err == nil {
			t.Errorf("New(%v) succeeded, want ConfigError", size)
		} else if _, ok := err.(*geo.ConfigError); !ok {
			t.Errorf("New(%v) error type = %T, want *geo.ConfigError", size, err)
		}
	}
}

func TestRangeQueryContainsPoint(t *testing.T) {
	ix := newTestIndex(t)
	ix.Insert("a", 10.0, 10.0)

	containing := geo.BBox{MinLat: 9.5, MinLon: 9.5, MaxLat: 10.5, MaxLon: 10.5}
	if got := ix.RangeQuery(containing); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("RangeQuery(containing) = %v, want [a]", got)
	}

	excluding := geo.BBox{MinLat: 11, MinLon: 11, MaxLat: 12, MaxLon: 12}
	if got := ix.RangeQuery(excluding); len(got) != 0 {
		t.Errorf("RangeQuery(excluding) = %v, want empty", got)
	}
}

func TestRangeQueryInclusiveBounds(t *testing.T) {
	ix := newTestIndex(t)
	ix.Insert("corner", 10.0, 20.0)

	// The point sits exactly on the box edge; inclusive bounds must
	// return it from both sides.
	onMax := geo.BBox{MinLat: 9, MinLon: 19, MaxLat: 10.0, MaxLon: 20.0}
	if got := ix.RangeQuery(onMax); len(got) != 1 {
		t.Errorf("RangeQuery with point on max bound = %v, want [corner]", got)
	}
	onMin := geo.BBox{MinLat: 10.0, MinLon: 20.0, MaxLat: 11, MaxLon: 21}
	if got := ix.RangeQuery(onMin); len(got) != 1 {
		t.Errorf("RangeQuery with point on min bound = %v, want [corner]", got)
	}
}

func TestRangeQuerySortedOutput(t *testing.T) {
	ix := newTestIndex(t)
	ix.Insert("c", 10.0, 10.0)
	ix.Insert("a", 10.0005, 10.0005)
	ix.Insert("b", 10.001, 10.001)

	got := ix.RangeQuery(geo.BBox{MinLat: 9, MinLon: 9, MaxLat: 11, MaxLon: 11})
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("RangeQuery = %v, want sorted [a b c]", got)
	}
}

func TestRemove(t *testing.T) {
	ix := newTestIndex(t)
	ix.Insert("a", 10, 10)

	if !ix.Remove("a") {
		t.Fatal("Remove returned false for indexed id")
	}
	if ix.Remove("a") {
		t.Error("Remove returned true for already-removed id")
	}
	if ix.Len() != 0 {
		t.Errorf("Len() = %d after removal, want 0", ix.Len())
	}
	if got := ix.RangeQuery(geo.BBox{MinLat: 9, MinLon: 9, MaxLat: 11, MaxLon: 11}); len(got) != 0 {
		t.Errorf("RangeQuery after removal = %v, want empty", got)
	}
}

func TestNearestCountAndOrder(t *testing.T) {
	ix := newTestIndex(t)
	ix.Insert("near", 10.001, 10.001)
	ix.Insert("mid", 10.05, 10.05)
	ix.Insert("far", 12.0, 12.0)

	got := ix.Nearest(10.0, 10.0, 3)
	want := []string{"near", "mid", "far"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Nearest = %v, want %v", got, want)
	}

	// k larger than index size returns exactly |index| ids.
	if got := ix.Nearest(10.0, 10.0, 50); len(got) != 3 {
		t.Errorf("Nearest with large k returned %d ids, want 3", len(got))
	}

	// k smaller than index size truncates.
	if got := ix.Nearest(10.0, 10.0, 1); !reflect.DeepEqual(got, []string{"near"}) {
		t.Errorf("Nearest k=1 = %v, want [near]", got)
	}
}

func TestNearestTieBreakById(t *testing.T) {
	ix := newTestIndex(t)
	// Equidistant points east and west of the query.
	ix.Insert("b", 10.0, 10.01)
	ix.Insert("a", 10.0, 9.99)

	got := ix.Nearest(10.0, 10.0, 2)
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Nearest tie = %v, want [a b]", got)
	}
}

func TestNearestEmptyIndex(t *testing.T) {
	ix := newTestIndex(t)
	if got := ix.Nearest(0, 0, 5); got != nil {
		t.Errorf("Nearest on empty index = %v, want nil", got)
	}
	if got := ix.Nearest(0, 0, 0); got != nil {
		t.Errorf("Nearest with k=0 = %v, want nil", got)
	}
}

func TestNearestCrossesCellBoundaries(t *testing.T) {
	ix := newTestIndex(t)
	// Query cell is empty; the nearest record lives several rings out.
	ix.Insert("distant", 10.10, 10.10)

	got := ix.Nearest(10.0, 10.0, 1)
	if !reflect.DeepEqual(got, []string{"distant"}) {
		t.Errorf("Nearest across rings = %v, want [distant]", got)
	}
}

func TestNearestSparseGlobalSpread(t *testing.T) {
	ix := newTestIndex(t)
	// Two records half a world apart. Expansion must skip the empty
	// rings between them instead of enumerating every cell in the gap,
	// which takes tens of seconds at 0.01 degree cells.
	ix.Insert("close", 0, 0.005)
	ix.Insert("faraway", 0, 179.9)

	done := make(chan []string, 1)
	go func() { done <- ix.Nearest(0, 0, 10) }()

	select {
	case got := <-done:
		if !reflect.DeepEqual(got, []string{"close", "faraway"}) {
			t.Errorf("Nearest = %v, want [close faraway]", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Nearest did not return promptly on a sparse index")
	}
}

func TestNearestMatchesBruteForce(t *testing.T) {
	ix := newTestIndex(t)
	rng := rand.New(rand.NewSource(42))

	type pt struct {
		id       string
		lat, lon float64
	}
	var pts []pt
	for i := 0; i < 200; i++ {
		p := pt{
			id:  fmt.Sprintf("id-%03d", i),
			lat: 40 + rng.Float64()*0.5,
			lon: -74 + rng.Float64()*0.5,
		}
		pts = append(pts, p)
		ix.Insert(p.id, p.lat, p.lon)
	}

	qLat, qLon := 40.25, -73.75
	const k = 10

	brute := make([]pt, len(pts))
	copy(brute, pts)
	sort.Slice(brute, func(i, j int) bool {
		di := geo.HaversineDistance(qLat, qLon, brute[i].lat, brute[i].lon)
		dj := geo.HaversineDistance(qLat, qLon, brute[j].lat, brute[j].lon)
		if di != dj {
			return di < dj
		}
		return brute[i].id < brute[j].id
	})
	want := make([]string, k)
	for i := 0; i < k; i++ {
		want[i] = brute[i].id
	}

	got := ix.Nearest(qLat, qLon, k)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Nearest = %v, want brute-force %v", got, want)
	}
}

func TestInsertRepositions(t *testing.T) {
	ix := newTestIndex(t)
	ix.Insert("a", 10, 10)
	ix.Insert("a", 50, 50)

	if ix.Len() != 1 {
		t.Fatalf("Len() = %d after reposition, want 1", ix.Len())
	}
	if got := ix.RangeQuery(geo.BBox{MinLat: 9, MinLon: 9, MaxLat: 11, MaxLon: 11}); len(got) != 0 {
		t.Errorf("old position still indexed: %v", got)
	}
	if got := ix.RangeQuery(geo.BBox{MinLat: 49, MinLon: 49, MaxLat: 51, MaxLon: 51}); len(got) != 1 {
		t.Errorf("new position not indexed: %v", got)
	}
}

func TestListenerSkipsMissingLocation(t *testing.T) {
	ix := newTestIndex(t)

	ix.RecordRegistered(registry.MediaRecord{
		ID:          "no-gps",
		Kind:        mediatypes.KindImage,
		HasLocation: false,
		Status:      mediatypes.StatusMissingLocation,
	})
	if ix.Len() != 0 {
		t.Error("MissingLocation record was indexed")
	}

	ix.RecordRegistered(registry.MediaRecord{
		ID:          "located",
		Kind:        mediatypes.KindImage,
		Latitude:    10,
		Longitude:   10,
		HasLocation: true,
		Status:      mediatypes.StatusComplete,
	})
	if !ix.Contains("located") {
		t.Error("located record was not indexed")
	}

	ix.RecordDeregistered(registry.MediaRecord{ID: "located"})
	if ix.Contains("located") {
		t.Error("deregistered record still indexed")
	}
}
