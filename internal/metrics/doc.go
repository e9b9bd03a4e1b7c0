// Package metrics defines the Prometheus metrics for the drone media
// map service and a periodic collector for the media-set gauges.
//
// Metrics are registered via promauto at package initialization and
// exposed on the /metrics endpoint by main.
package metrics
