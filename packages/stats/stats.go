// Package stats aggregates test duration statistics for a reporting
// session. The protocol itself carries no durations; the numbers here
// come from the engine-recorded durations in the result stream.
package stats

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/abdul-hamid-achik/specbridge/packages/core/result"
)

// Collector accumulates fragment durations in a histogram
// (microsecond resolution, matching the engine's precision).
type Collector struct {
	histogram *hdrhistogram.Histogram
	count     int64
	total     time.Duration
}

func NewCollector() *Collector {
	return &Collector{
		// 1us to 10min covers any realistic single test
		histogram: hdrhistogram.New(1, 10*60*1000*1000, 3),
	}
}

// Record adds one test duration.
func (c *Collector) Record(d time.Duration) {
	_ = c.histogram.RecordValue(d.Microseconds())
	c.count++
	c.total += d
}

// RecordSpec records every test fragment in a spec result tree.
func (c *Collector) RecordSpec(spec *result.SpecResult) {
	var walk func(frags []*result.Fragment)
	walk = func(frags []*result.Fragment) {
		for _, f := range frags {
			if f.Kind == result.FragmentTest && f.Duration > 0 {
				c.Record(f.Duration)
			}
			walk(f.Children)
		}
	}
	walk(spec.Fragments)
}

// Summary is a snapshot of the collected duration distribution.
type Summary struct {
	Count int64
	Total time.Duration
	Mean  time.Duration
	P50   time.Duration
	P95   time.Duration
	P99   time.Duration
	Max   time.Duration
}

func (c *Collector) Summary() Summary {
	s := Summary{
		Count: c.count,
		Total: c.total,
	}
	if c.count == 0 {
		return s
	}
	s.Mean = time.Duration(c.histogram.Mean()) * time.Microsecond
	s.P50 = time.Duration(c.histogram.ValueAtQuantile(50)) * time.Microsecond
	s.P95 = time.Duration(c.histogram.ValueAtQuantile(95)) * time.Microsecond
	s.P99 = time.Duration(c.histogram.ValueAtQuantile(99)) * time.Microsecond
	s.Max = time.Duration(c.histogram.Max()) * time.Microsecond
	return s
}
