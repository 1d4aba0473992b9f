// Package config loads the host simulator configuration from YAML.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"apm/core"
	"apm/sim"
)

// File is the on-disk configuration.
type File struct {
	Channels             []Channel `yaml:"channels"`
	ResolutionBits       int       `yaml:"resolution_bits"`
	SampleIntervalMicros uint32    `yaml:"sample_interval_us"`
	TimerFrequencyHz     uint32    `yaml:"timer_frequency_hz"`
	ConversionMicros     uint32    `yaml:"conversion_us"`
	BufferSize           int       `yaml:"buffer_size"`
	IRQPriority          uint8     `yaml:"irq_priority"`
	SlotOrder            string    `yaml:"slot_order"`
	ReferenceMilliVolts  int64     `yaml:"reference_mv"`
	ReduceCostNanos      uint32    `yaml:"reduce_cost_ns"`

	Log Log `yaml:"log"`
	Sim Sim `yaml:"sim"`
}

// Channel is one converter input.
type Channel struct {
	Input             string `yaml:"input"` // AIN0..AIN7 or VDD
	Gain              string `yaml:"gain"`  // 1/6 .. 4
	AcquisitionMicros uint32 `yaml:"acquisition_us"`
}

// Log selects where log lines go.
type Log struct {
	Level  string `yaml:"level"`
	Serial string `yaml:"serial"` // empty for stdout
	Baud   int    `yaml:"baud"`
}

// Sim sizes the simulated board and its input signal.
type Sim struct {
	FabricChannels   int    `yaml:"fabric_channels"`
	ConversionNanos  uint64 `yaml:"conversion_ns"`
	CalibrationNanos uint64 `yaml:"calibration_ns"`
	Source           Source `yaml:"source"`
}

// Source describes the simulated input waveform.
type Source struct {
	Kind      string  `yaml:"kind"` // constant, per_channel, ramp, sine
	Values    []int16 `yaml:"values"`
	Start     int16   `yaml:"start"`
	Step      int16   `yaml:"step"`
	Offset    float64 `yaml:"offset"`
	Amplitude float64 `yaml:"amplitude"`
	Period    uint64  `yaml:"period"`
	Phase     float64 `yaml:"phase"`
}

// Load parses YAML and fills in defaults.
func Load(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	applyDefaults(&f)
	return &f, nil
}

// LoadFile reads and parses the file at path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Load(data)
}

// Default returns the configuration of the reference board.
func Default() *File {
	f := &File{}
	applyDefaults(f)
	return f
}

// applyDefaults fills in missing values from core.DefaultConfig and
// sim.DefaultConfig.
func applyDefaults(f *File) {
	if len(f.Channels) == 0 {
		f.Channels = []Channel{
			{Input: "AIN4", Gain: "1/4", AcquisitionMicros: 10},
			{Input: "AIN5", Gain: "1/4", AcquisitionMicros: 10},
		}
	}
	for i := range f.Channels {
		if f.Channels[i].Gain == "" {
			f.Channels[i].Gain = "1/4"
		}
		if f.Channels[i].AcquisitionMicros == 0 {
			f.Channels[i].AcquisitionMicros = 10
		}
	}

	def := core.DefaultConfig()
	if f.ResolutionBits == 0 {
		f.ResolutionBits = int(def.Resolution.Bits())
	}
	if f.SampleIntervalMicros == 0 {
		f.SampleIntervalMicros = def.SampleIntervalMicros
	}
	if f.TimerFrequencyHz == 0 {
		f.TimerFrequencyHz = def.TimerFrequencyHz
	}
	if f.ConversionMicros == 0 {
		f.ConversionMicros = def.ConversionMicros
	}
	if f.BufferSize == 0 {
		f.BufferSize = def.BufferSize
	}
	if f.IRQPriority == 0 {
		f.IRQPriority = def.IRQPriority
	}
	if f.SlotOrder == "" {
		f.SlotOrder = "reversed"
	}
	if f.ReferenceMilliVolts == 0 {
		f.ReferenceMilliVolts = def.Scale.ReferenceMilliVolts
	}

	if f.Log.Level == "" {
		f.Log.Level = "info"
	}
	if f.Log.Baud == 0 {
		f.Log.Baud = 115200
	}

	sd := sim.DefaultConfig()
	if f.Sim.FabricChannels == 0 {
		f.Sim.FabricChannels = sd.FabricChannels
	}
	if f.Sim.ConversionNanos == 0 {
		f.Sim.ConversionNanos = uint64(f.ConversionMicros) * 1000
	}
	if f.Sim.CalibrationNanos == 0 {
		f.Sim.CalibrationNanos = sd.CalibrationNanos
	}
	if f.Sim.Source.Kind == "" {
		f.Sim.Source.Kind = "constant"
	}
	if f.Sim.Source.Period == 0 {
		f.Sim.Source.Period = 1000
	}
}

// Core converts the file into a pipeline configuration. It does not
// validate; call Validate on the result.
func (f *File) Core() (core.Config, error) {
	cfg := core.DefaultConfig()
	cfg.Channels = make([]core.ChannelConfig, 0, len(f.Channels))
	for i, ch := range f.Channels {
		in, err := parseInput(ch.Input)
		if err != nil {
			return cfg, fmt.Errorf("channel %d: %w", i, err)
		}
		gain, err := parseGain(ch.Gain)
		if err != nil {
			return cfg, fmt.Errorf("channel %d: %w", i, err)
		}
		acq, err := parseAcquisition(ch.AcquisitionMicros)
		if err != nil {
			return cfg, fmt.Errorf("channel %d: %w", i, err)
		}
		cfg.Channels = append(cfg.Channels, core.ChannelConfig{Input: in, Gain: gain, Acquisition: acq})
	}

	res, err := parseResolution(f.ResolutionBits)
	if err != nil {
		return cfg, err
	}
	cfg.Resolution = res

	switch strings.ToLower(f.SlotOrder) {
	case "reversed":
		cfg.SlotOrder = core.SlotOrderReversed
	case "direct":
		cfg.SlotOrder = core.SlotOrderDirect
	default:
		return cfg, fmt.Errorf("unknown slot order %q", f.SlotOrder)
	}

	cfg.SampleIntervalMicros = f.SampleIntervalMicros
	cfg.TimerFrequencyHz = f.TimerFrequencyHz
	cfg.ConversionMicros = f.ConversionMicros
	cfg.BufferSize = f.BufferSize
	cfg.IRQPriority = f.IRQPriority
	cfg.ReduceCostNanos = f.ReduceCostNanos

	// The scale inverts the first channel gain; core validation rejects
	// channels with a different gain.
	cfg.Scale.ReferenceMilliVolts = f.ReferenceMilliVolts
	cfg.Scale.ResolutionBits = res.Bits()
	if len(cfg.Channels) > 0 {
		num, den := cfg.Channels[0].Gain.Ratio()
		cfg.Scale.GainNumerator, cfg.Scale.GainDenominator = den, num
	}
	return cfg, nil
}

// SimConfig converts the sim section.
func (f *File) SimConfig() (sim.Config, error) {
	cfg := sim.Config{
		FabricChannels:   f.Sim.FabricChannels,
		ConversionNanos:  f.Sim.ConversionNanos,
		CalibrationNanos: f.Sim.CalibrationNanos,
	}
	s := f.Sim.Source
	switch strings.ToLower(s.Kind) {
	case "constant":
		var v int16
		if len(s.Values) > 0 {
			v = s.Values[0]
		}
		cfg.Source = sim.Constant(v)
	case "per_channel":
		cfg.Source = sim.PerChannel(s.Values...)
	case "ramp":
		cfg.Source = sim.Ramp(s.Start, s.Step)
	case "sine":
		cfg.Source = sim.Sine(s.Offset, s.Amplitude, s.Period, s.Phase)
	default:
		return cfg, fmt.Errorf("unknown source kind %q", s.Kind)
	}
	return cfg, nil
}

func parseInput(s string) (core.Input, error) {
	switch strings.ToUpper(s) {
	case "AIN0":
		return core.InputAIN0, nil
	case "AIN1":
		return core.InputAIN1, nil
	case "AIN2":
		return core.InputAIN2, nil
	case "AIN3":
		return core.InputAIN3, nil
	case "AIN4":
		return core.InputAIN4, nil
	case "AIN5":
		return core.InputAIN5, nil
	case "AIN6":
		return core.InputAIN6, nil
	case "AIN7":
		return core.InputAIN7, nil
	case "VDD":
		return core.InputVDD, nil
	}
	return core.InputNC, fmt.Errorf("unknown input %q", s)
}

func parseGain(s string) (core.Gain, error) {
	switch s {
	case "1/6":
		return core.Gain1_6, nil
	case "1/5":
		return core.Gain1_5, nil
	case "1/4":
		return core.Gain1_4, nil
	case "1/3":
		return core.Gain1_3, nil
	case "1/2":
		return core.Gain1_2, nil
	case "1":
		return core.Gain1, nil
	case "2":
		return core.Gain2, nil
	case "4":
		return core.Gain4, nil
	}
	return 0, fmt.Errorf("unknown gain %q", s)
}

func parseAcquisition(us uint32) (core.AcqTime, error) {
	for t := core.Acq3us; t <= core.Acq40us; t++ {
		if t.Micros() == us {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unsupported acquisition time %d us", us)
}

func parseResolution(bits int) (core.Resolution, error) {
	for r := core.Resolution8Bit; r <= core.Resolution14Bit; r++ {
		if int(r.Bits()) == bits {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unsupported resolution %d bits", bits)
}
