package mediatypes

import "testing"

func TestKindForFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		kind     Kind
		ok       bool
	}{
		{"JPEG", "dji_0042.JPG", KindImage, true},
		{"JPEG long ext", "shot.jpeg", KindImage, true},
		{"PNG", "capture.png", KindImage, true},
		{"GIF", "loop.gif", KindImage, true},
		{"WebP", "frame.webp", KindImage, true},
		{"MP4", "flight.mp4", KindVideo, true},
		{"MOV uppercase", "FLIGHT.MOV", KindVideo, true},
		{"AVI", "old.avi", KindVideo, true},
		{"WebM", "clip.webm", KindVideo, true},
		{"MKV", "long.mkv", KindVideo, true},
		{"Unsupported text", "notes.txt", "", false},
		{"No extension", "README", "", false},
		{"Hidden file", ".gitignore", "", false},
		{"Path with directories", "uploads/2024/dji_0042.jpg", KindImage, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := KindForFilename(tt.filename)
			if kind != tt.kind || ok != tt.ok {
				t.Errorf("KindForFilename(%q) = (%q, %v), want (%q, %v)",
					tt.filename, kind, ok, tt.kind, tt.ok)
			}
		})
	}
}

func TestMimeTypeFor(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"a.jpg", "image/jpeg"},
		{"a.jpeg", "image/jpeg"},
		{"a.png", "image/png"},
		{"a.mov", "video/quicktime"},
		{"a.mp4", "video/mp4"},
		{"a.xyz", "application/octet-stream"},
	}

	for _, tt := range tests {
		if got := MimeTypeFor(tt.filename); got != tt.expected {
			t.Errorf("MimeTypeFor(%q) = %q, want %q", tt.filename, got, tt.expected)
		}
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name                         string
		hasLocation, hasTime, hasAlt bool
		expected                     MetadataStatus
	}{
		{"everything", true, true, true, StatusComplete},
		{"no altitude", true, true, false, StatusPartialNoAltitude},
		{"no time", true, false, true, StatusPartialNoTime},
		{"no time and no altitude", true, false, false, StatusPartialNoTime},
		{"no location", false, true, true, StatusMissingLocation},
		{"nothing at all", false, false, false, StatusMissingLocation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusFor(tt.hasLocation, tt.hasTime, tt.hasAlt); got != tt.expected {
				t.Errorf("StatusFor(%v, %v, %v) = %q, want %q",
					tt.hasLocation, tt.hasTime, tt.hasAlt, got, tt.expected)
			}
		})
	}
}
