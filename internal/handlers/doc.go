// Package handlers implements the HTTP API over the media map engine.
//
// All endpoints speak JSON. The media surface lives under /api/media
// (upload, list, lookup, removal, blob and thumbnail serving); the map
// surface under /api/markers, /api/nearest, /api/map and /api/stats.
// Operational endpoints (/health, /version, /metrics) sit at the root.
//
// Uploads are multipart; several files in one request are ingested as
// a batch with per-file results and a 207 status.
package handlers
