// Package summary aggregates pipeline reports over a run.
package summary

import (
	"fmt"
	"io"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"apm/core"
)

// Collector is a core.ReportSink that keeps the per-channel averages and
// millivolt readings of every report.
type Collector struct {
	mu       sync.Mutex
	channels int
	avg      [][]float64
	mv       [][]float64
	samples  int
	empty    int
	buffers  [2]int
}

func NewCollector(channels int) *Collector {
	if channels > core.MaxChannels {
		channels = core.MaxChannels
	}
	return &Collector{
		channels: channels,
		avg:      make([][]float64, channels),
		mv:       make([][]float64, channels),
	}
}

// Report implements core.ReportSink.
func (c *Collector) Report(r *core.Report) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r.Stats.Count == 0 {
		c.empty++
		return
	}
	c.samples += r.Stats.Count
	if r.Buffer == 0 || r.Buffer == 1 {
		c.buffers[r.Buffer]++
	}
	for ch := 0; ch < c.channels; ch++ {
		c.avg[ch] = append(c.avg[ch], float64(r.Stats.Average[ch]))
		c.mv[ch] = append(c.mv[ch], float64(r.MilliVolts[ch]))
	}
}

// Channel summarizes one channel across reports.
type Channel struct {
	MeanRaw    float64
	StdDevRaw  float64
	MinRaw     float64
	MaxRaw     float64
	MeanMilliV float64
}

// Summary is the result of a run.
type Summary struct {
	Reports  int // non-empty reports
	Empty    int
	Samples  int
	Buffers  [2]int
	Channels []Channel
}

// Summary computes the statistics collected so far.
func (c *Collector) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Summary{
		Empty:    c.empty,
		Samples:  c.samples,
		Buffers:  c.buffers,
		Channels: make([]Channel, c.channels),
	}
	if c.channels == 0 || len(c.avg[0]) == 0 {
		return s
	}
	s.Reports = len(c.avg[0])
	for ch := range s.Channels {
		mean, std := stat.MeanStdDev(c.avg[ch], nil)
		if s.Reports < 2 {
			std = 0
		}
		s.Channels[ch] = Channel{
			MeanRaw:    mean,
			StdDevRaw:  std,
			MinRaw:     floats.Min(c.avg[ch]),
			MaxRaw:     floats.Max(c.avg[ch]),
			MeanMilliV: stat.Mean(c.mv[ch], nil),
		}
	}
	return s
}

// Print writes a human-readable table.
func (s Summary) Print(w io.Writer) {
	fmt.Fprintf(w, "reports: %d (buffer 0: %d, buffer 1: %d, empty: %d)\n",
		s.Reports, s.Buffers[0], s.Buffers[1], s.Empty)
	fmt.Fprintf(w, "samples: %d\n", s.Samples)
	if s.Reports == 0 {
		return
	}
	fmt.Fprintf(w, "%-4s %12s %10s %10s %10s %10s\n", "ch", "mean", "stddev", "min", "max", "mean mV")
	for ch, c := range s.Channels {
		fmt.Fprintf(w, "%-4d %12.2f %10.2f %10.0f %10.0f %10.1f\n",
			ch, c.MeanRaw, c.StdDevRaw, c.MinRaw, c.MaxRaw, c.MeanMilliV)
	}
}
