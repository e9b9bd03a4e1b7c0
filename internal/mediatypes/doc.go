// Package mediatypes defines media classification shared across the
// drone media map engine: the image/video kind enum, the metadata
// recovery status enum, and extension/MIME lookup tables.
package mediatypes
