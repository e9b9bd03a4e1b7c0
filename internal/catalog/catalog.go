package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"drone-media-map/internal/logging"
	"drone-media-map/internal/mediatypes"
	"drone-media-map/internal/metrics"
	"drone-media-map/internal/registry"
)

// Default timeout for catalog operations
const defaultTimeout = 5 * time.Second

// Catalog persists media records in SQLite so the registry survives
// restarts. It implements registry.Listener: registrations and
// deregistrations flow in synchronously, and LoadAll replays the
// catalog into a fresh registry at startup.
type Catalog struct {
	db     *sql.DB
	dbPath string
}

// New opens (or creates) the catalog database at dbPath. The parent
// directory must already exist and be writable.
func New(ctx context.Context, dbPath string) (*Catalog, error) {
	logging.Info("Catalog path: %s", dbPath)

	// WAL keeps reads from blocking the single writer; busy_timeout
	// prevents "database is locked" errors under concurrent ingest.
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close catalog after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to catalog: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	c := &Catalog{db: db, dbPath: dbPath}
	if err := c.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close catalog after schema failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize catalog schema: %w", err)
	}

	logging.Info("Catalog initialized at %s", dbPath)
	return c, nil
}

func (c *Catalog) initialize(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS media (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		kind TEXT NOT NULL,
		latitude REAL NOT NULL DEFAULT 0,
		longitude REAL NOT NULL DEFAULT 0,
		has_location INTEGER NOT NULL DEFAULT 0,
		altitude REAL,
		captured_at INTEGER,
		status TEXT NOT NULL,
		source_ref TEXT NOT NULL DEFAULT '',
		registered_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_media_kind ON media(kind);
	CREATE INDEX IF NOT EXISTS idx_media_has_location ON media(has_location);
	CREATE INDEX IF NOT EXISTS idx_media_registered_at ON media(registered_at);
	`

	execCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := c.db.ExecContext(execCtx, schema)
	return err
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// RecordRegistered persists a newly registered record. Implements
// registry.Listener.
func (c *Catalog) RecordRegistered(rec registry.MediaRecord) {
	if err := c.Save(context.Background(), rec); err != nil {
		logging.Error("failed to persist record %s: %v", rec.ID, err)
	}
}

// RecordDeregistered removes a record from the catalog. Implements
// registry.Listener.
func (c *Catalog) RecordDeregistered(rec registry.MediaRecord) {
	if err := c.Delete(context.Background(), rec.ID); err != nil {
		logging.Error("failed to delete record %s: %v", rec.ID, err)
	}
}

// Save upserts one media record.
func (c *Catalog) Save(ctx context.Context, rec registry.MediaRecord) error {
	start := time.Now()

	var capturedAt any
	if rec.CapturedAt != nil {
		capturedAt = rec.CapturedAt.Unix()
	}
	var altitude any
	if rec.Altitude != nil {
		altitude = *rec.Altitude
	}

	execCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := c.db.ExecContext(execCtx, `
		INSERT INTO media (id, name, kind, latitude, longitude, has_location,
			altitude, captured_at, status, source_ref, registered_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			kind = excluded.kind,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			has_location = excluded.has_location,
			altitude = excluded.altitude,
			captured_at = excluded.captured_at,
			status = excluded.status,
			source_ref = excluded.source_ref,
			registered_at = excluded.registered_at`,
		rec.ID, rec.Name, string(rec.Kind), rec.Latitude, rec.Longitude,
		boolToInt(rec.HasLocation), altitude, capturedAt, string(rec.Status),
		rec.SourceRef, rec.RegisteredAt.Unix())

	recordQuery("save", start, err)
	if err != nil {
		return fmt.Errorf("saving record %s: %w", rec.ID, err)
	}
	return nil
}

// Delete removes one record by id. Deleting an absent id is not an
// error.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	start := time.Now()

	execCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := c.db.ExecContext(execCtx, `DELETE FROM media WHERE id = ?`, id)
	recordQuery("delete", start, err)
	if err != nil {
		return fmt.Errorf("deleting record %s: %w", id, err)
	}
	return nil
}

// DeleteAll clears the whole catalog.
func (c *Catalog) DeleteAll(ctx context.Context) error {
	start := time.Now()

	execCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := c.db.ExecContext(execCtx, `DELETE FROM media`)
	recordQuery("delete_all", start, err)
	if err != nil {
		return fmt.Errorf("clearing catalog: %w", err)
	}
	return nil
}

// LoadAll returns every persisted record in registration order, for
// replay into the registry at startup.
func (c *Catalog) LoadAll(ctx context.Context) ([]registry.MediaRecord, error) {
	start := time.Now()

	queryCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	rows, err := c.db.QueryContext(queryCtx, `
		SELECT id, name, kind, latitude, longitude, has_location,
			altitude, captured_at, status, source_ref, registered_at
		FROM media
		ORDER BY registered_at ASC, id ASC`)
	recordQuery("load_all", start, err)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	defer rows.Close()

	var records []registry.MediaRecord
	for rows.Next() {
		var (
			rec          registry.MediaRecord
			kind, status string
			hasLocation  int
			altitude     sql.NullFloat64
			capturedAt   sql.NullInt64
			registeredAt int64
		)
		if err := rows.Scan(&rec.ID, &rec.Name, &kind, &rec.Latitude,
			&rec.Longitude, &hasLocation, &altitude, &capturedAt,
			&status, &rec.SourceRef, &registeredAt); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}

		rec.Kind = mediatypes.Kind(kind)
		rec.Status = mediatypes.MetadataStatus(status)
		rec.HasLocation = hasLocation != 0
		rec.RegisteredAt = time.Unix(registeredAt, 0).UTC()
		if altitude.Valid {
			a := altitude.Float64
			rec.Altitude = &a
		}
		if capturedAt.Valid {
			t := time.Unix(capturedAt.Int64, 0).UTC()
			rec.CapturedAt = &t
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating catalog rows: %w", err)
	}
	return records, nil
}

// Count returns the number of persisted records.
func (c *Catalog) Count(ctx context.Context) (int, error) {
	start := time.Now()

	queryCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var n int
	err := c.db.QueryRowContext(queryCtx, `SELECT COUNT(*) FROM media`).Scan(&n)
	recordQuery("count", start, err)
	if err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return n, nil
}

// recordQuery records catalog query metrics
func recordQuery(operation string, start time.Time, err error) {
	duration := time.Since(start).Seconds()
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.DBQueryTotal.WithLabelValues(operation, status).Inc()
	metrics.DBQueryDuration.WithLabelValues(operation).Observe(duration)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
