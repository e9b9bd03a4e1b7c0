package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drone_map_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "drone_map_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "drone_map_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Ingest metrics
var (
	IngestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drone_map_ingest_total",
			Help: "Total number of media ingest attempts",
		},
		[]string{"kind", "status"}, // status: "ok", "unreadable", "unsupported"
	)

	IngestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "drone_map_ingest_duration_seconds",
			Help:    "Media ingest duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	IngestMissingLocation = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "drone_map_ingest_missing_location_total",
			Help: "Total number of ingested files without usable GPS metadata",
		},
	)

	BatchWorkers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "drone_map_batch_workers",
			Help: "Number of workers used by the last batch ingest",
		},
	)
)

// Media set metrics, refreshed by the Collector
var (
	MediaTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "drone_map_media_total",
			Help: "Number of registered media records by kind",
		},
		[]string{"kind"},
	)

	MediaLocated = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "drone_map_media_located",
			Help: "Number of registered media records with usable GPS coordinates",
		},
	)

	SpatialIndexSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "drone_map_spatial_index_size",
			Help: "Number of records currently held by the spatial index",
		},
	)
)

// Cluster metrics
var (
	ClusterComputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "drone_map_cluster_compute_duration_seconds",
			Help:    "Cluster recomputation duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	ClusterCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "drone_map_cluster_count",
			Help: "Number of clusters produced by the last computation",
		},
	)
)

// Catalog metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drone_map_db_queries_total",
			Help: "Total number of catalog database queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "drone_map_db_query_duration_seconds",
			Help:    "Catalog database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation"},
	)
)
