// Package media generates thumbnails for uploaded files.
//
// Thumbnails are 200x200 JPEGs produced with disintegration/imaging
// and cached on disk keyed by an md5 of the blob path. Generation is
// lazy; the first request for a thumbnail pays the decode cost, later
// requests hit the cache.
package media
