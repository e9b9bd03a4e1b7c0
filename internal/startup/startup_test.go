package startup

import (
	"net/http"
	"path/filepath"
	"testing"

	"github.com/gorilla/mux"

	"drone-media-map/internal/spatial"
)

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_DIR", dir)
	t.Setenv("PORT", "")
	t.Setenv("METRICS_PORT", "")
	t.Setenv("CELL_SIZE_DEG", "")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if config.Port != "8080" {
		t.Errorf("port = %q, want 8080", config.Port)
	}
	if config.MetricsPort != "9090" {
		t.Errorf("metrics port = %q, want 9090", config.MetricsPort)
	}
	if config.CellSizeDeg != spatial.DefaultCellSizeDeg {
		t.Errorf("cell size = %v, want %v", config.CellSizeDeg, spatial.DefaultCellSizeDeg)
	}
	if config.CatalogPath != filepath.Join(dir, "catalog.db") {
		t.Errorf("catalog path = %q", config.CatalogPath)
	}
	if config.UploadsDir != filepath.Join(dir, "uploads") {
		t.Errorf("uploads dir = %q", config.UploadsDir)
	}
	if !config.CatalogEnabled {
		t.Error("catalog should default to enabled")
	}
}

func TestLoadConfigCellSizeOverride(t *testing.T) {
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("CELL_SIZE_DEG", "0.05")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if config.CellSizeDeg != 0.05 {
		t.Errorf("cell size = %v, want 0.05", config.CellSizeDeg)
	}
}

func TestLoadConfigInvalidCellSizeFallsBack(t *testing.T) {
	for _, bad := range []string{"-1", "0", "1e-12", "bogus"} {
		t.Setenv("DATA_DIR", t.TempDir())
		t.Setenv("CELL_SIZE_DEG", bad)

		config, err := LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig with CELL_SIZE_DEG=%q: %v", bad, err)
		}
		if config.CellSizeDeg != spatial.DefaultCellSizeDeg {
			t.Errorf("cell size with CELL_SIZE_DEG=%q = %v, want default", bad, config.CellSizeDeg)
		}
	}
}

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()
	if info.Version == "" || info.GoVersion == "" {
		t.Errorf("incomplete build info: %+v", info)
	}
}

func TestGetRoutes(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/api/media", func(http.ResponseWriter, *http.Request) {}).Methods("POST")
	router.HandleFunc("/api/media/{id}", func(http.ResponseWriter, *http.Request) {}).Methods("GET")

	routes, err := GetRoutes(router)
	if err != nil {
		t.Fatalf("GetRoutes: %v", err)
	}
	if len(routes) != 2 {
		t.Fatalf("got %d routes, want 2", len(routes))
	}
}

func TestGetRouteGroup(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/media/{id}", "api/media"},
		{"/api/markers", "api/markers"},
		{"/health", "health"},
		{"/", ""},
	}
	for _, tt := range tests {
		if got := getRouteGroup(tt.path); got != tt.want {
			t.Errorf("getRouteGroup(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("TEST_BOOL", "true")
	if !getEnvBool("TEST_BOOL", false) {
		t.Error("true should parse")
	}
	t.Setenv("TEST_BOOL", "nonsense")
	if !getEnvBool("TEST_BOOL", true) {
		t.Error("unparsable value should fall back to default")
	}
	t.Setenv("TEST_BOOL", "")
	if getEnvBool("TEST_BOOL", false) {
		t.Error("empty value should fall back to default")
	}
}
