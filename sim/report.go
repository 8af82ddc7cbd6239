//go:build !tinygo

package sim

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/stat"

	"radionode/core"
)

// Report summarises a simulation run
type Report struct {
	Raised       [core.NumSources]uint32
	Cleared      [core.NumSources]uint32
	Ticks        uint32
	IntervalMean float64 // microseconds between timer interrupts
	IntervalStd  float64
	Samples      int
	Dropped      uint32
}

// Report collects counters and timer jitter statistics. Events still in
// the tap are drained first so the statistics cover them.
func (m *Machine) Report() Report {
	m.Drain()

	var r Report
	for src := core.Source(0); src < core.NumSources; src++ {
		r.Raised[src], r.Cleared[src] = m.Counts(src)
	}
	r.Ticks = core.Now()
	r.Dropped = m.Dropped()

	m.statsMu.Lock()
	intervals := append([]float64(nil), m.intervals...)
	m.statsMu.Unlock()

	r.Samples = len(intervals)
	if r.Samples > 1 {
		r.IntervalMean, r.IntervalStd = stat.MeanStdDev(intervals, nil)
	} else if r.Samples == 1 {
		r.IntervalMean = intervals[0]
	}
	return r
}

// Write prints the report in a fixed layout
func (r Report) Write(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "ticks: %d\n", r.Ticks); err != nil {
		return err
	}
	for src := core.Source(0); src < core.NumSources; src++ {
		if _, err := fmt.Fprintf(w, "%-8s raised=%d cleared=%d\n", src, r.Raised[src], r.Cleared[src]); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "tick interval: mean=%.1fus std=%.1fus (%d samples), dropped events: %d\n",
		r.IntervalMean, r.IntervalStd, r.Samples, r.Dropped)
	return err
}
