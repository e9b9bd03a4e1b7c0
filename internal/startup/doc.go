// Package startup handles application initialization: environment
// configuration, directory validation, build information, and the
// structured startup/shutdown log output.
//
// Configuration comes from environment variables with sensible
// defaults; LoadConfig validates the data directory up front so the
// server fails fast on a bad deployment rather than at first upload.
package startup
