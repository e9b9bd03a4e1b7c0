package registry

import (
	"time"

	"drone-media-map/internal/mediatypes"
)

// MediaRecord is the normalized geo-temporal record for one uploaded
// media file. Records are immutable once registered; re-ingesting the
// same file produces a new record with a new id.
type MediaRecord struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Kind mediatypes.Kind `json:"kind"`

	// Latitude/Longitude are only meaningful when HasLocation is true,
	// i.e. Status != StatusMissingLocation.
	Latitude    float64 `json:"lat"`
	Longitude   float64 `json:"lon"`
	HasLocation bool    `json:"hasLocation"`

	Altitude   *float64   `json:"altitude,omitempty"`
	CapturedAt *time.Time `json:"capturedAt,omitempty"`

	Status mediatypes.MetadataStatus `json:"metadataStatus"`

	// SourceRef is the opaque storage key of the underlying media blob.
	SourceRef string `json:"sourceRef"`

	RegisteredAt time.Time `json:"registeredAt"`
}

// Stats summarizes the registered media set.
type Stats struct {
	Total   int `json:"total"`
	Images  int `json:"images"`
	Videos  int `json:"videos"`
	Located int `json:"located"`
}
