package alloc

import "github.com/prometheus/client_golang/prometheus"

// Collector exposes a Tracker's statistics as Prometheus metrics.
type Collector struct {
	tracker *Tracker

	allocations *prometheus.Desc
	releases    *prometheus.Desc
	bytesAlloc  *prometheus.Desc
	bytesFree   *prometheus.Desc
	liveBuffers *prometheus.Desc
	liveBytes   *prometheus.Desc
	largest     *prometheus.Desc
}

// NewCollector creates a collector reading from t. Metric names are
// prefixed with namespace.
func NewCollector(t *Tracker, namespace string) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "buffers", name), help, nil, nil)
	}
	return &Collector{
		tracker:     t,
		allocations: desc("allocations_total", "Number of container buffers allocated."),
		releases:    desc("releases_total", "Number of container buffers released."),
		bytesAlloc:  desc("allocated_bytes_total", "Bytes allocated for container buffers."),
		bytesFree:   desc("released_bytes_total", "Bytes released by container buffers."),
		liveBuffers: desc("live", "Container buffers currently allocated."),
		liveBytes:   desc("live_bytes", "Bytes held by live container buffers."),
		largest:     desc("largest_bytes", "Largest single container buffer allocation."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.allocations
	ch <- c.releases
	ch <- c.bytesAlloc
	ch <- c.bytesFree
	ch <- c.liveBuffers
	ch <- c.liveBytes
	ch <- c.largest
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.tracker.Stats()
	ch <- prometheus.MustNewConstMetric(c.allocations, prometheus.CounterValue, float64(s.TotalAllocations))
	ch <- prometheus.MustNewConstMetric(c.releases, prometheus.CounterValue, float64(s.TotalReleases))
	ch <- prometheus.MustNewConstMetric(c.bytesAlloc, prometheus.CounterValue, float64(s.TotalBytesAlloc))
	ch <- prometheus.MustNewConstMetric(c.bytesFree, prometheus.CounterValue, float64(s.TotalBytesFree))
	ch <- prometheus.MustNewConstMetric(c.liveBuffers, prometheus.GaugeValue, float64(s.LiveBuffers))
	ch <- prometheus.MustNewConstMetric(c.liveBytes, prometheus.GaugeValue, float64(s.LiveBytes))
	ch <- prometheus.MustNewConstMetric(c.largest, prometheus.GaugeValue, float64(s.LargestAlloc))
}
