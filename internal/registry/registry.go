package registry

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"drone-media-map/internal/logging"
	"drone-media-map/internal/mediatypes"
)

// Listener is notified synchronously after every registry mutation, so
// downstream structures (spatial index, catalog) never lag the registry
// past a call boundary.
type Listener interface {
	RecordRegistered(rec MediaRecord)
	RecordDeregistered(rec MediaRecord)
}

// Registry owns the canonical mapping from media id to its record.
// Mutations are serialized by the caller-facing methods; reads return
// copies and are safe at any time.
type Registry struct {
	mu        sync.RWMutex
	records   map[string]MediaRecord
	order     []string // registration order, for stable listings
	listeners []Listener
}

// New creates an empty registry. Listeners receive every subsequent
// mutation in registration order.
func New(listeners ...Listener) *Registry {
	return &Registry{
		records:   make(map[string]MediaRecord),
		listeners: listeners,
	}
}

// AddListener attaches a listener. Not safe to call concurrently with
// mutations; wire listeners during startup.
func (r *Registry) AddListener(l Listener) {
	r.listeners = append(r.listeners, l)
}

// Register assigns an id to the record, stores it, and notifies
// listeners before returning. Every call yields a new entry; records are
// never merged.
func (r *Registry) Register(rec MediaRecord) string {
	rec.ID = uuid.NewString()
	if rec.RegisteredAt.IsZero() {
		rec.RegisteredAt = time.Now().UTC()
	}
	r.store(rec)
	return rec.ID
}

// Restore inserts a record that already carries an identity, used when
// rebuilding the registry from the persistent catalog. Listeners are
// notified exactly as for Register.
func (r *Registry) Restore(rec MediaRecord) {
	if rec.ID == "" {
		logging.Warn("Restore called without an id; assigning a new one")
		rec.ID = uuid.NewString()
	}
	r.store(rec)
}

func (r *Registry) store(rec MediaRecord) {
	r.mu.Lock()
	r.records[rec.ID] = rec
	r.order = append(r.order, rec.ID)
	r.mu.Unlock()

	for _, l := range r.listeners {
		l.RecordRegistered(rec)
	}
}

// Deregister removes a record and notifies listeners so the removal
// cascades to the spatial index and catalog. Returns false when the id
// is unknown; that is not an error.
func (r *Registry) Deregister(id string) bool {
	r.mu.Lock()
	rec, ok := r.records[id]
	if !ok {
		r.mu.Unlock()
		return false
	}
	delete(r.records, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.mu.Unlock()

	for _, l := range r.listeners {
		l.RecordDeregistered(rec)
	}
	return true
}

// Get returns the record for an id.
func (r *Registry) Get(id string) (MediaRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	return rec, ok
}

// All returns a fresh snapshot of every record in registration order.
// Each call traverses current state; the returned slice is the caller's.
func (r *Registry) All() []MediaRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]MediaRecord, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.records[id])
	}
	return out
}

// Len returns the number of registered records.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// Stats counts records by kind and location availability.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := Stats{Total: len(r.records)}
	for _, rec := range r.records {
		switch rec.Kind {
		case mediatypes.KindImage:
			s.Images++
		case mediatypes.KindVideo:
			s.Videos++
		}
		if rec.HasLocation {
			s.Located++
		}
	}
	return s
}
