package core

import "golang.org/x/exp/constraints"

// Statistics summarizes one filled buffer.
//
// Min and Max are taken over every scanned sample regardless of channel,
// so with two inputs they mix both channels' raw values. Sums and averages
// are per channel.
type Statistics struct {
	Count    int // samples scanned
	Channels int
	Sum      [MaxChannels]int64
	Average  [MaxChannels]int64
	Min      int64
	Max      int64
}

// Reduce scans interleaved samples once. Sample i belongs to slot
// i mod channels, reported under the channel order selects. Each average
// is the channel sum divided by Count/channels, truncated toward zero.
// An empty slice yields zero statistics.
func Reduce[T constraints.Signed](samples []T, channels int, order SlotOrder) Statistics {
	st := Statistics{Count: len(samples), Channels: channels}
	if len(samples) == 0 || channels <= 0 || channels > MaxChannels {
		return st
	}

	var sums [MaxChannels]int64
	min, max := samples[0], samples[0]
	slot := 0
	for _, v := range samples {
		sums[slot] += int64(v)
		slot++
		if slot == channels {
			slot = 0
		}
		if v > max {
			max = v
		}
		if v < min {
			min = v
		}
	}
	st.Min, st.Max = int64(min), int64(max)

	perChannel := float64(len(samples)) / float64(channels)
	for s := 0; s < channels; s++ {
		ch := order.channel(s, channels)
		st.Sum[ch] = sums[s]
		st.Average[ch] = int64(float64(sums[s]) / perChannel)
	}
	return st
}

// Report is the record emitted for every filled buffer.
type Report struct {
	Buffer     int     // buffer index, 0 or 1
	Address    uintptr // buffer base address
	Stats      Statistics
	MilliVolts [MaxChannels]int64
}

// ReportSink consumes reports inside the converter event. Implementations
// must copy what they keep and must not block.
type ReportSink interface {
	Report(r *Report)
}

// ReportFunc adapts a function to ReportSink.
type ReportFunc func(r *Report)

func (f ReportFunc) Report(r *Report) { f(r) }
