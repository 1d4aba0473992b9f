package core

// MaxChannels is the number of converter channels the hardware offers.
const MaxChannels = 8

// Input selects the positive input of a converter channel. Values match
// the SAADC PSELP encoding.
type Input uint8

const (
	InputNC Input = iota
	InputAIN0
	InputAIN1
	InputAIN2
	InputAIN3
	InputAIN4
	InputAIN5
	InputAIN6
	InputAIN7
	InputVDD
)

// Gain is the channel gain. Values match the SAADC CONFIG.GAIN encoding.
type Gain uint8

const (
	Gain1_6 Gain = iota
	Gain1_5
	Gain1_4
	Gain1_3
	Gain1_2
	Gain1
	Gain2
	Gain4
)

// Ratio returns the gain as numerator/denominator.
func (g Gain) Ratio() (num, den int64) {
	switch g {
	case Gain1_6:
		return 1, 6
	case Gain1_5:
		return 1, 5
	case Gain1_4:
		return 1, 4
	case Gain1_3:
		return 1, 3
	case Gain1_2:
		return 1, 2
	case Gain1:
		return 1, 1
	case Gain2:
		return 2, 1
	case Gain4:
		return 4, 1
	}
	return 0, 0
}

// AcqTime is the channel acquisition time. Values match CONFIG.TACQ.
type AcqTime uint8

const (
	Acq3us AcqTime = iota
	Acq5us
	Acq10us
	Acq15us
	Acq20us
	Acq40us
)

// Micros returns the acquisition time in microseconds, 0 if unknown.
func (t AcqTime) Micros() uint32 {
	switch t {
	case Acq3us:
		return 3
	case Acq5us:
		return 5
	case Acq10us:
		return 10
	case Acq15us:
		return 15
	case Acq20us:
		return 20
	case Acq40us:
		return 40
	}
	return 0
}

// Resolution is the conversion width. Values match RESOLUTION.VAL.
type Resolution uint8

const (
	Resolution8Bit Resolution = iota
	Resolution10Bit
	Resolution12Bit
	Resolution14Bit
)

// Bits returns the resolution in bits, 0 if unknown.
func (r Resolution) Bits() uint8 {
	switch r {
	case Resolution8Bit:
		return 8
	case Resolution10Bit:
		return 10
	case Resolution12Bit:
		return 12
	case Resolution14Bit:
		return 14
	}
	return 0
}

// ChannelConfig describes one converter channel.
type ChannelConfig struct {
	Input       Input
	Gain        Gain
	Acquisition AcqTime
}

// SlotOrder maps an interleave slot (sample index mod N) to the channel
// number used in reports.
type SlotOrder uint8

const (
	// SlotOrderReversed reports slot k as channel N-1-k. With two channels
	// even samples are reported as channel 1 and odd samples as channel 0.
	SlotOrderReversed SlotOrder = iota
	// SlotOrderDirect reports slot k as channel k.
	SlotOrderDirect
)

func (o SlotOrder) channel(slot, n int) int {
	if o == SlotOrderDirect {
		return slot
	}
	return n - 1 - slot
}

// AdvancedConfig mirrors the converter's advanced mode options.
type AdvancedConfig struct {
	Oversampling    uint8 // log2 of samples averaged per result, 0 = off
	Burst           bool
	InternalTimerCC uint16 // 0 = sample task driven externally
	StartOnEnd      bool   // hardware short END->START instead of the interconnect
}

// VoltageScale converts a raw average to millivolts:
//
//	mV = ReferenceMilliVolts * GainNumerator * raw / (GainDenominator * 2^ResolutionBits)
//
// GainNumerator/GainDenominator is the inverse of the channel gain, so a
// channel at gain 1/4 uses 4/1. The reference is the converter's internal
// reference: 900 mV on nRF54L, 600 mV on nRF52.
type VoltageScale struct {
	ReferenceMilliVolts int64
	GainNumerator       int64
	GainDenominator     int64
	ResolutionBits      uint8
}

// Validate rejects scales that would divide by zero or overflow.
func (s VoltageScale) Validate() error {
	if s.ReferenceMilliVolts <= 0 || s.GainNumerator <= 0 || s.GainDenominator <= 0 {
		return ErrVoltageScale
	}
	if s.ResolutionBits == 0 || s.ResolutionBits > 16 {
		return ErrVoltageScale
	}
	return nil
}

// MilliVolts applies the scale with integer arithmetic truncating toward zero.
func (s VoltageScale) MilliVolts(raw int64) int64 {
	return (s.ReferenceMilliVolts * s.GainNumerator * raw) / (s.GainDenominator << s.ResolutionBits)
}

// Config is the complete pipeline configuration.
type Config struct {
	Channels   []ChannelConfig
	Resolution Resolution
	Advanced   AdvancedConfig

	// SampleIntervalMicros is the timer compare period. It must be at least
	// MinIntervalMicros or the converter skips triggers.
	SampleIntervalMicros uint32
	TimerFrequencyHz     uint32
	// ConversionMicros is the per-channel conversion time after acquisition.
	ConversionMicros uint32

	// BufferSize is the capacity of each of the two buffers in samples
	// across all channels.
	BufferSize  int
	IRQPriority uint8
	SlotOrder   SlotOrder
	Scale       VoltageScale

	// ReduceCostNanos is the worst-case reduction cost per sample measured
	// on the target. When non-zero, Validate requires a full buffer to be
	// reduced within one buffer fill period.
	ReduceCostNanos uint32
}

// DefaultConfig matches the reference board: AIN4 and AIN5 at gain 1/4,
// 12 bit, one trigger every 50 us, 8000 samples per buffer.
func DefaultConfig() Config {
	return Config{
		Channels: []ChannelConfig{
			{Input: InputAIN4, Gain: Gain1_4, Acquisition: Acq10us},
			{Input: InputAIN5, Gain: Gain1_4, Acquisition: Acq10us},
		},
		Resolution:           Resolution12Bit,
		SampleIntervalMicros: 50,
		TimerFrequencyHz:     1000000,
		ConversionMicros:     2,
		BufferSize:           8000,
		IRQPriority:          6,
		SlotOrder:            SlotOrderReversed,
		Scale: VoltageScale{
			ReferenceMilliVolts: 900,
			GainNumerator:       4,
			GainDenominator:     1,
			ResolutionBits:      12,
		},
	}
}

// Validate checks the invariants that must hold before setup. An interval
// below MinIntervalMicros is not an error; see IntervalDegraded.
func (c *Config) Validate() error {
	n := len(c.Channels)
	if n == 0 {
		return ErrNoChannels
	}
	if n > MaxChannels {
		return ErrTooManyChannels
	}
	for _, ch := range c.Channels {
		if num, _ := ch.Gain.Ratio(); num == 0 {
			return ErrGain
		}
		if ch.Acquisition.Micros() == 0 {
			return ErrAcquisitionTime
		}
	}
	if c.Resolution.Bits() == 0 {
		return ErrResolution
	}
	if c.BufferSize <= 0 || c.BufferSize%n != 0 {
		return ErrBufferSize
	}
	if c.SampleIntervalMicros == 0 {
		return ErrSampleInterval
	}
	if c.TimerFrequencyHz == 0 {
		return ErrTimerFrequency
	}
	if err := c.Scale.Validate(); err != nil {
		return err
	}
	// Reports use one scale for every channel, so each channel must share
	// the gain it undoes.
	for _, ch := range c.Channels {
		num, den := ch.Gain.Ratio()
		if c.Scale.GainNumerator*num != c.Scale.GainDenominator*den {
			return ErrScaleGain
		}
	}
	if c.ReduceCostNanos != 0 {
		cost := uint64(c.BufferSize) * uint64(c.ReduceCostNanos)
		if cost > c.FillPeriodMicros()*1000 {
			return ErrReductionBudget
		}
	}
	return nil
}

// ChannelMask has one bit set per configured channel.
func (c *Config) ChannelMask() uint32 {
	return uint32(1)<<uint(len(c.Channels)) - 1
}

// MinIntervalMicros is the shortest trigger period at which every channel
// completes acquisition and conversion.
func (c *Config) MinIntervalMicros() uint32 {
	var total uint32
	for _, ch := range c.Channels {
		total += ch.Acquisition.Micros() + c.ConversionMicros
	}
	return total
}

// IntervalDegraded reports whether triggers arrive faster than the
// converter can serve them. Sampling still runs but skips triggers.
func (c *Config) IntervalDegraded() bool {
	return c.SampleIntervalMicros < c.MinIntervalMicros()
}

// FillPeriodMicros is the time the converter takes to fill one buffer.
func (c *Config) FillPeriodMicros() uint64 {
	if len(c.Channels) == 0 {
		return 0
	}
	return uint64(c.BufferSize/len(c.Channels)) * uint64(c.SampleIntervalMicros)
}
