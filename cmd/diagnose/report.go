package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/robert-malhotra/go-containers/container"
)

// ArrayConfig describes one array to inspect.
type ArrayConfig struct {
	Name    string  `yaml:"name"`
	Dims    int     `yaml:"dims"`
	Sizes   []int   `yaml:"sizes"`
	Indices [][]int `yaml:"indices"`
}

// VectorConfig describes one growth run.
type VectorConfig struct {
	Name    string `yaml:"name"`
	Pushes  int    `yaml:"pushes"`
	Reserve int    `yaml:"reserve"`
}

// reporter runs diagnostics against a shared tracker and writes a plain
// text report.
type reporter struct {
	out     io.Writer
	logger  *zap.Logger
	tracker *container.Tracker
}

func newReporter(out io.Writer, logger *zap.Logger) *reporter {
	return &reporter{
		out:     out,
		logger:  logger,
		tracker: container.NewTracker(),
	}
}

func (r *reporter) array(cfg ArrayConfig) error {
	name := cfg.Name
	if name == "" {
		name = "array"
	}
	a, err := container.NewArray[int64](container.Dims(cfg.Dims, cfg.Sizes...),
		container.WithLogger(r.logger),
		container.WithTracker(r.tracker),
		container.WithTag(name),
	)
	if err != nil {
		return errors.Wrapf(err, "array %q", name)
	}
	defer a.Release()

	fmt.Fprintf(r.out, "Array %q:\n", name)
	fmt.Fprintf(r.out, "  Shape: %v\n", a.Shape())
	fmt.Fprintf(r.out, "  Size: %s elements (%s)\n",
		humanize.Comma(int64(a.Size())), humanize.IBytes(uint64(a.Size())*8))
	fmt.Fprintf(r.out, "  Strides: %v\n", a.Strides())

	for _, idx := range cfg.Indices {
		off, err := a.Offset(idx...)
		if err != nil {
			fmt.Fprintf(r.out, "  Index %v: %v\n", idx, err)
			continue
		}
		blk, _ := a.Block(idx...)
		fmt.Fprintf(r.out, "  Index %v: offset %d, block [%d, %d)\n", idx, off, off, off+len(blk))
	}
	return nil
}

func (r *reporter) growth(cfg VectorConfig) error {
	name := cfg.Name
	if name == "" {
		name = "vector"
	}
	if cfg.Pushes < 0 {
		return errors.Newf("vector %q: negative push count %d", name, cfg.Pushes)
	}

	v := container.NewVector[int64](
		container.WithLogger(r.logger),
		container.WithTracker(r.tracker),
		container.WithTag(name),
	)
	defer v.Release()
	if cfg.Reserve > 0 {
		if err := v.Reserve(cfg.Reserve); err != nil {
			return errors.Wrapf(err, "vector %q", name)
		}
	}

	fmt.Fprintf(r.out, "Vector %q:\n", name)
	fmt.Fprintf(r.out, "  Capacity: %d\n", v.Cap())
	last := v.Cap()
	for i := 0; i < cfg.Pushes; i++ {
		if err := v.PushBack(int64(i)); err != nil {
			return errors.Wrapf(err, "vector %q push %d", name, i)
		}
		if v.Cap() != last {
			fmt.Fprintf(r.out, "  Push %d: capacity %d -> %d\n", i+1, last, v.Cap())
			last = v.Cap()
		}
	}
	fmt.Fprintf(r.out, "  Length: %d, capacity: %d\n", v.Len(), v.Cap())
	return nil
}

func (r *reporter) summary() {
	fmt.Fprintf(r.out, "Buffers: %s\n", r.tracker.Stats())
}

// metrics gathers the tracker's counters through a Prometheus registry
// and prints them sorted by name.
func (r *reporter) metrics() error {
	reg := prometheus.NewRegistry()
	if err := reg.Register(container.NewTrackerCollector(r.tracker, "diagnose")); err != nil {
		return err
	}
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	sort.Slice(families, func(i, j int) bool {
		return families[i].GetName() < families[j].GetName()
	})
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			v := m.GetGauge().GetValue()
			if c := m.GetCounter(); c != nil {
				v = c.GetValue()
			}
			fmt.Fprintf(r.out, "%s %g\n", mf.GetName(), v)
		}
	}
	return nil
}

func (r *reporter) finish(withMetrics bool) error {
	r.summary()
	if err := r.tracker.Validate(); err != nil {
		return err
	}
	if err := r.tracker.CheckReleased(); err != nil {
		return err
	}
	if withMetrics {
		return r.metrics()
	}
	return nil
}
