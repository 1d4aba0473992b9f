package sim

import "math"

// Constant returns v on every channel.
func Constant(v int16) Source {
	return func(int, uint64) int16 { return v }
}

// PerChannel returns vals[channel], or 0 for channels beyond vals.
func PerChannel(vals ...int16) Source {
	return func(ch int, _ uint64) int16 {
		if ch < len(vals) {
			return vals[ch]
		}
		return 0
	}
}

// Ramp counts up by step per trigger from start, wrapping at int16 range.
func Ramp(start, step int16) Source {
	return func(_ int, n uint64) int16 {
		return start + int16(uint64(step)*n)
	}
}

// Sine returns offset + amplitude*sin(2*pi*n/period) for every channel,
// shifted by phase radians per channel.
func Sine(offset, amplitude float64, period uint64, phase float64) Source {
	if period == 0 {
		period = 1
	}
	return func(ch int, n uint64) int16 {
		x := 2 * math.Pi * float64(n%period) / float64(period)
		v := offset + amplitude*math.Sin(x+phase*float64(ch))
		return clamp16(math.Round(v))
	}
}

func clamp16(v float64) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}
