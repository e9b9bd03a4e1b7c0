// Package registry owns the canonical mapping from media identifier to
// its extracted record. Mutations push synchronous notifications to
// listeners (the spatial index and the persistent catalog) so they never
// observe a different record set than the registry.
package registry
