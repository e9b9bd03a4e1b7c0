// Package storage persists uploaded media blobs on the local
// filesystem.
//
// Blobs live flat under one uploads directory with timestamped
// filenames, and every lookup path is validated to stay inside that
// directory. The registry holds the stored filename as a source
// reference; this package never interprets file contents.
package storage
