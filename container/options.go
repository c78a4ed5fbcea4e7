package container

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/robert-malhotra/go-containers/internal/alloc"
	"github.com/robert-malhotra/go-containers/internal/traits"
)

// Option configures a Vector or an Array.
type Option func(*options)

type options struct {
	logger  *zap.Logger
	tracker *alloc.Tracker
	tag     string
}

func defaultOptions(tag string) *options {
	return &options{
		logger: zap.NewNop(),
		tag:    tag,
	}
}

func buildOptions(tag string, opts []Option) *options {
	o := defaultOptions(tag)
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger buffer reallocations are reported to at debug
// level. A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTracker records every buffer the container allocates in t.
func WithTracker(t *Tracker) Option {
	return func(o *options) {
		o.tracker = t
	}
}

// WithTag labels the container's allocations and log entries.
func WithTag(tag string) Option {
	return func(o *options) {
		if tag != "" {
			o.tag = tag
		}
	}
}

// Tracker accounts for the buffers of any number of containers. It is safe
// for concurrent use.
type Tracker = alloc.Tracker

// TrackerStats is a snapshot of a Tracker's counters.
type TrackerStats = alloc.Stats

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return alloc.NewTracker()
}

// NewTrackerCollector exports t's counters as Prometheus metrics under
// namespace.
func NewTrackerCollector(t *Tracker, namespace string) prometheus.Collector {
	return alloc.NewCollector(t, namespace)
}

// Element capabilities. Element types implement these on their pointer
// receiver or value receiver to change how containers treat them.
type (
	// Destroyer is called exactly once when a container discards an element.
	Destroyer = traits.Destroyer

	// Cloner duplicates an element; the error aborts the copying operation.
	Cloner[T any] = traits.Cloner[T]

	// Pinned elements are copied and destroyed instead of moved.
	Pinned = traits.Pinned
)
