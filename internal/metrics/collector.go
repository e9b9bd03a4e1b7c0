package metrics

import (
	"time"

	"drone-media-map/internal/logging"
)

// StatsProvider supplies the media-set counts exported as gauges.
type StatsProvider interface {
	GetStats() Stats
}

// Stats holds the current media-set statistics.
type Stats struct {
	Images  int
	Videos  int
	Located int
	Indexed int
}

// Collector periodically refreshes the media-set gauges.
type Collector struct {
	provider StatsProvider
	interval time.Duration
	stopChan chan struct{}
}

// NewCollector creates a collector polling the provider at the given interval.
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	return &Collector{
		provider: provider,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start begins the collection loop in a background goroutine.
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the collection loop.
func (c *Collector) Stop() {
	close(c.stopChan)
}

func (c *Collector) collectLoop() {
	// Collect immediately on start
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	if c.provider == nil {
		return
	}

	stats := c.provider.GetStats()
	MediaTotal.WithLabelValues("image").Set(float64(stats.Images))
	MediaTotal.WithLabelValues("video").Set(float64(stats.Videos))
	MediaLocated.Set(float64(stats.Located))
	SpatialIndexSize.Set(float64(stats.Indexed))

	logging.Debug("Metrics collected: images=%d videos=%d located=%d indexed=%d",
		stats.Images, stats.Videos, stats.Located, stats.Indexed)
}
