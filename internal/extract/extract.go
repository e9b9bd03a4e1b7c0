package extract

import (
	"io"

	"drone-media-map/internal/mediatypes"
	"drone-media-map/internal/registry"
)

// Extractor parses a media byte stream into a normalized geo-temporal
// record. Extraction is pure: it never touches the registry and may run
// fully in parallel across independent uploads.
//
// The returned record has no identity; the registry assigns one at
// registration.
type Extractor interface {
	Extract(r io.Reader, name string) (registry.MediaRecord, error)
}

// ForKind selects the extractor for a declared media kind. Dispatch is
// by declared kind, not by sniffing the payload.
func ForKind(kind mediatypes.Kind) Extractor {
	switch kind {
	case mediatypes.KindVideo:
		return VideoExtractor{}
	default:
		return ImageExtractor{}
	}
}
