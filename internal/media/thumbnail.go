package media

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // WebP decode support

	"drone-media-map/internal/logging"
	"drone-media-map/internal/mediatypes"
)

// ThumbnailGenerator produces and caches 200x200 JPEG thumbnails for
// uploaded images. Video thumbnails would need a frame decoder; they
// are reported as unsupported so the map client falls back to a kind
// icon.
type ThumbnailGenerator struct {
	cacheDir string
	enabled  bool
	mu       sync.Mutex
}

// NewThumbnailGenerator creates the cache directory when thumbnails
// are enabled.
func NewThumbnailGenerator(cacheDir string, enabled bool) *ThumbnailGenerator {
	if enabled {
		logging.Debug("ThumbnailGenerator: enabled, cache dir: %s", cacheDir)
		if err := os.MkdirAll(cacheDir, 0o755); err != nil {
			logging.Warn("ThumbnailGenerator: failed to create cache dir: %v", err)
		}
	} else {
		logging.Debug("ThumbnailGenerator: disabled")
	}
	return &ThumbnailGenerator{
		cacheDir: cacheDir,
		enabled:  enabled,
	}
}

// IsEnabled reports whether thumbnail generation is on.
func (t *ThumbnailGenerator) IsEnabled() bool {
	return t.enabled
}

// GetThumbnail returns the cached JPEG thumbnail for a stored media
// blob, generating it on first access. The cache key is derived from
// the blob path, which is immutable for a stored upload.
func (t *ThumbnailGenerator) GetThumbnail(filePath string, kind mediatypes.Kind) ([]byte, error) {
	if !t.enabled {
		return nil, fmt.Errorf("thumbnails disabled")
	}
	if kind != mediatypes.KindImage {
		return nil, fmt.Errorf("no thumbnail support for kind %s", kind)
	}

	if _, err := os.Stat(filePath); err != nil {
		return nil, fmt.Errorf("file not accessible: %w", err)
	}

	hash := md5.Sum([]byte(filePath))
	cachePath := filepath.Join(t.cacheDir, fmt.Sprintf("%x.jpg", hash))

	if data, err := os.ReadFile(cachePath); err == nil {
		logging.Debug("Thumbnail cache hit: %s", filePath)
		return data, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Another request may have generated it while we waited.
	if data, err := os.ReadFile(cachePath); err == nil {
		return data, nil
	}

	logging.Debug("Thumbnail generating: %s", filePath)

	img, err := imaging.Open(filePath, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("thumbnail generation failed: %w", err)
	}

	thumb := imaging.Fit(img, 200, 200, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 80}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	if err := os.WriteFile(cachePath, buf.Bytes(), 0o644); err != nil {
		logging.Warn("Failed to cache thumbnail %s: %v", cachePath, err)
	} else {
		logging.Debug("Thumbnail cached: %s", cachePath)
	}

	return buf.Bytes(), nil
}

// ClearCache deletes all cached thumbnails.
func (t *ThumbnailGenerator) ClearCache() error {
	if !t.enabled {
		return nil
	}
	entries, err := os.ReadDir(t.cacheDir)
	if err != nil {
		return fmt.Errorf("listing thumbnail cache: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(t.cacheDir, e.Name())); err != nil {
			logging.Warn("failed to remove cached thumbnail %s: %v", e.Name(), err)
		}
	}
	return nil
}
