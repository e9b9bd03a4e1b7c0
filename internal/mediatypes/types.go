package mediatypes

import (
	"path/filepath"
	"strings"
)

// Kind classifies a media file.
type Kind string

const (
	// KindImage represents a still image.
	KindImage Kind = "image"
	// KindVideo represents a video clip.
	KindVideo Kind = "video"
)

// MetadataStatus describes how much geo-temporal metadata was recovered
// from a media file. Degraded metadata is a state, not an error.
type MetadataStatus string

const (
	// StatusComplete means location, timestamp and altitude were all recovered.
	StatusComplete MetadataStatus = "complete"
	// StatusPartialNoTime means location was recovered but no capture timestamp.
	StatusPartialNoTime MetadataStatus = "partial_no_time"
	// StatusPartialNoAltitude means location and timestamp were recovered but no altitude.
	StatusPartialNoAltitude MetadataStatus = "partial_no_altitude"
	// StatusMissingLocation means no usable GPS coordinates were recovered.
	// Records in this state are registered but never spatially indexed.
	StatusMissingLocation MetadataStatus = "missing_location"
)

// ImageExtensions maps file extensions to whether they are supported image formats.
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// VideoExtensions maps file extensions to whether they are supported video formats.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".avi":  true,
	".webm": true,
	".mkv":  true,
}

// MimeTypes maps file extensions to their MIME types.
var MimeTypes = map[string]string{
	// Images
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",

	// Videos
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
}

// KindForFilename classifies a filename by extension. The second return
// value is false for unsupported formats.
func KindForFilename(name string) (Kind, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case ImageExtensions[ext]:
		return KindImage, true
	case VideoExtensions[ext]:
		return KindVideo, true
	default:
		return "", false
	}
}

// MimeTypeFor returns the MIME type for a filename, or
// "application/octet-stream" when unknown.
func MimeTypeFor(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if mt, ok := MimeTypes[ext]; ok {
		return mt
	}
	return "application/octet-stream"
}

// StatusFor derives a MetadataStatus from which fields were recovered.
// A missing timestamp outranks a missing altitude when both are absent;
// location decides everything else.
func StatusFor(hasLocation, hasTime, hasAltitude bool) MetadataStatus {
	switch {
	case !hasLocation:
		return StatusMissingLocation
	case !hasTime:
		return StatusPartialNoTime
	case !hasAltitude:
		return StatusPartialNoAltitude
	default:
		return StatusComplete
	}
}
