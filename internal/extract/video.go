package extract

import (
	"bytes"
	"encoding/binary"
	"io"
	"strconv"
	"strings"
	"time"

	"drone-media-map/internal/geo"
	"drone-media-map/internal/logging"
	"drone-media-map/internal/mediatypes"
	"drone-media-map/internal/registry"
)

// mp4Epoch is the QuickTime/MP4 time origin.
var mp4Epoch = time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)

// Top-level box types accepted as evidence of an ISO base media file.
var isoTopLevelBoxes = map[string]bool{
	"ftyp": true,
	"styp": true,
	"moov": true,
	"mdat": true,
	"free": true,
	"skip": true,
	"wide": true,
	"pnot": true,
	"uuid": true,
}

// VideoExtractor reads location and creation-time metadata from video
// containers. MP4/QuickTime files are scanned for the udta location
// atom and the movie header; Matroska and AVI containers are accepted
// as readable but carry no location metadata this engine recovers.
type VideoExtractor struct{}

// Extract validates the container signature and pulls whatever
// geo-temporal metadata the file carries. Only an unrecognizable
// container fails.
func (VideoExtractor) Extract(r io.Reader, name string) (registry.MediaRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return registry.MediaRecord{}, &ExtractionError{Kind: Unreadable, Name: name, Err: err}
	}

	rec := registry.MediaRecord{
		Name: name,
		Kind: mediatypes.KindVideo,
	}

	switch {
	case isISOBMFF(data):
		scanMovie(&rec, data, name)
	case isMatroska(data), isAVI(data):
		// Readable container; location metadata is not part of either
		// format's common tagging, so the record stays un-located.
		logging.Debug("video %s: container has no location atom support", name)
	default:
		return registry.MediaRecord{}, &ExtractionError{Kind: Unreadable, Name: name}
	}

	rec.Status = mediatypes.StatusFor(rec.HasLocation, rec.CapturedAt != nil, rec.Altitude != nil)
	return rec, nil
}

func isISOBMFF(data []byte) bool {
	if len(data) < 8 {
		return false
	}
	return isoTopLevelBoxes[string(data[4:8])]
}

func isMatroska(data []byte) bool {
	return len(data) >= 4 && bytes.Equal(data[:4], []byte{0x1A, 0x45, 0xDF, 0xA3})
}

func isAVI(data []byte) bool {
	return len(data) >= 12 &&
		bytes.Equal(data[:4], []byte("RIFF")) &&
		bytes.Equal(data[8:12], []byte("AVI "))
}

// scanMovie walks the MP4 box tree for moov/mvhd (creation time) and
// moov/udta/©xyz (ISO 6709 location).
func scanMovie(rec *registry.MediaRecord, data []byte, name string) {
	moov, ok := findBox(data, "moov")
	if !ok {
		logging.Debug("video %s: no moov box", name)
		return
	}

	if mvhd, ok := findBox(moov, "mvhd"); ok {
		if t, ok := movieCreationTime(mvhd); ok {
			rec.CapturedAt = &t
		}
	}

	udta, ok := findBox(moov, "udta")
	if !ok {
		return
	}
	xyz, ok := findBox(udta, "\xa9xyz")
	if !ok {
		return
	}

	lat, lon, alt, ok := parseISO6709(locationString(xyz))
	if !ok {
		logging.Debug("video %s: unparsable location atom", name)
		return
	}
	if !geo.ValidCoordinates(lat, lon) {
		logging.Debug("video %s: location out of range: %v, %v", name, lat, lon)
		return
	}

	rec.Latitude = lat
	rec.Longitude = lon
	rec.HasLocation = true
	rec.Altitude = alt
}

// findBox scans sibling boxes in data for the first box of the given
// type and returns its payload. Malformed sizes terminate the scan
// rather than erroring; partial metadata is still metadata.
func findBox(data []byte, typ string) ([]byte, bool) {
	for len(data) >= 8 {
		size := uint64(binary.BigEndian.Uint32(data[0:4]))
		boxType := string(data[4:8])
		headerLen := uint64(8)

		switch size {
		case 0:
			// Box extends to end of data.
			size = uint64(len(data))
		case 1:
			if len(data) < 16 {
				return nil, false
			}
			size = binary.BigEndian.Uint64(data[8:16])
			headerLen = 16
		}

		if size < headerLen || size > uint64(len(data)) {
			return nil, false
		}

		if boxType == typ {
			return data[headerLen:size], true
		}
		data = data[size:]
	}
	return nil, false
}

// movieCreationTime decodes the creation time from an mvhd payload.
// Zero means unset.
func movieCreationTime(mvhd []byte) (time.Time, bool) {
	if len(mvhd) < 4 {
		return time.Time{}, false
	}

	var secs uint64
	switch mvhd[0] {
	case 0:
		if len(mvhd) < 8 {
			return time.Time{}, false
		}
		secs = uint64(binary.BigEndian.Uint32(mvhd[4:8]))
	case 1:
		if len(mvhd) < 12 {
			return time.Time{}, false
		}
		secs = binary.BigEndian.Uint64(mvhd[4:12])
	default:
		return time.Time{}, false
	}

	if secs == 0 {
		return time.Time{}, false
	}
	return mp4Epoch.Add(time.Duration(secs) * time.Second), true
}

// locationString strips the 16-bit length and language-code header from
// a ©xyz payload.
func locationString(payload []byte) string {
	if len(payload) < 4 {
		return ""
	}
	n := int(binary.BigEndian.Uint16(payload[0:2]))
	body := payload[4:]
	if n > len(body) {
		n = len(body)
	}
	return string(body[:n])
}

// parseISO6709 parses the decimal-degree ISO 6709 form QuickTime
// writers emit, e.g. "+37.7749-122.4194+012.300/". The third component,
// when present, is altitude in meters.
func parseISO6709(s string) (lat, lon float64, alt *float64, ok bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "/")
	if s == "" {
		return 0, 0, nil, false
	}

	var parts []string
	start := -1
	for i, c := range s {
		if c == '+' || c == '-' {
			if start >= 0 {
				parts = append(parts, s[start:i])
			}
			start = i
		}
	}
	if start < 0 {
		return 0, 0, nil, false
	}
	parts = append(parts, s[start:])

	if len(parts) < 2 {
		return 0, 0, nil, false
	}

	lat, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, 0, nil, false
	}
	lon, err = strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, 0, nil, false
	}

	if len(parts) >= 3 {
		if a, err := strconv.ParseFloat(parts[2], 64); err == nil {
			alt = &a
		}
	}
	return lat, lon, alt, true
}
