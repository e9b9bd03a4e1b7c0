// Package catalog persists the media registry in SQLite.
//
// The catalog subscribes to registry changes as a registry.Listener and
// mirrors every registration and deregistration into a WAL-mode
// database. At startup LoadAll replays the persisted records back into
// the registry, so record ids are stable across restarts.
//
// Timestamps are stored as Unix seconds; altitude and capture time are
// nullable columns matching their optional record fields.
package catalog
