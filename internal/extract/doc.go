// Package extract parses embedded media metadata into normalized
// geo-temporal records.
//
// The extractor for a file is selected by its declared kind: images go
// through EXIF (github.com/rwcarlsen/goexif), videos through an ISO
// base media (MP4/QuickTime) box scan for the udta location atom.
// Missing or malformed GPS, timestamp or altitude data degrades the
// record's metadata status but never rejects the upload; only a stream
// that cannot be parsed as its declared kind fails, with an
// ExtractionError of kind Unreadable.
//
// Extraction is stateless and safe to run in parallel across uploads.
package extract
