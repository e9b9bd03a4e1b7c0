package extract

import (
	"bytes"
	"image"
	"io"

	_ "image/gif"  // GIF decode support
	_ "image/jpeg" // JPEG decode support
	_ "image/png"  // PNG decode support

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
	_ "golang.org/x/image/webp" // WebP decode support

	"drone-media-map/internal/geo"
	"drone-media-map/internal/logging"
	"drone-media-map/internal/mediatypes"
	"drone-media-map/internal/registry"
)

func init() {
	// Vendor-specific makernote parsers improve tag coverage on DJI and
	// camera-branded files.
	exif.RegisterParsers(mknote.All...)
}

// ImageExtractor reads embedded EXIF metadata from still images.
type ImageExtractor struct{}

// Extract validates that the stream decodes as an image, then reads GPS
// coordinates, capture time and altitude from its EXIF block. Absent or
// unparsable tags degrade the metadata status; only a stream that is
// not an image at all fails.
func (ImageExtractor) Extract(r io.Reader, name string) (registry.MediaRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return registry.MediaRecord{}, &ExtractionError{Kind: Unreadable, Name: name, Err: err}
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return registry.MediaRecord{}, &ExtractionError{Kind: Unreadable, Name: name, Err: err}
	}

	rec := registry.MediaRecord{
		Name: name,
		Kind: mediatypes.KindImage,
	}

	// PNG and GIF rarely carry EXIF; a decode failure here just means
	// no recoverable metadata.
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		logging.Debug("no EXIF in %s: %v", name, err)
	} else {
		applyExif(&rec, x, name)
	}

	rec.Status = mediatypes.StatusFor(rec.HasLocation, rec.CapturedAt != nil, rec.Altitude != nil)
	return rec, nil
}

// applyExif copies whatever usable fields the EXIF block holds onto the
// record. Each field is extracted independently.
func applyExif(rec *registry.MediaRecord, x *exif.Exif, name string) {
	if lat, lon, err := x.LatLong(); err == nil {
		if geo.ValidCoordinates(lat, lon) {
			rec.Latitude = lat
			rec.Longitude = lon
			rec.HasLocation = true
		} else {
			logging.Debug("EXIF coordinates out of range in %s: %v, %v", name, lat, lon)
		}
	}

	if tm, err := x.DateTime(); err == nil {
		t := tm.UTC()
		rec.CapturedAt = &t
	}

	if alt, ok := exifAltitude(x); ok {
		rec.Altitude = &alt
	}
}

// exifAltitude reads GPSAltitude with its sea-level reference.
func exifAltitude(x *exif.Exif) (float64, bool) {
	tag, err := x.Get(exif.GPSAltitude)
	if err != nil {
		return 0, false
	}
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		return 0, false
	}
	alt := float64(num) / float64(den)

	if ref, err := x.Get(exif.GPSAltitudeRef); err == nil {
		if v, err := ref.Int(0); err == nil && v == 1 {
			alt = -alt
		}
	}
	return alt, true
}
