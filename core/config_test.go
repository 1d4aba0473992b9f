package core

import "testing"

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config rejected: %v", err)
	}
	if cfg.ChannelMask() != 0x3 {
		t.Errorf("Expected channel mask 0x3, got %x", cfg.ChannelMask())
	}
	if cfg.MinIntervalMicros() != 24 {
		t.Errorf("Expected minimum interval 24 us, got %d", cfg.MinIntervalMicros())
	}
	if cfg.IntervalDegraded() {
		t.Error("Default interval reported as degraded")
	}
	if cfg.FillPeriodMicros() != 200000 {
		t.Errorf("Expected fill period 200000 us, got %d", cfg.FillPeriodMicros())
	}
}

func TestIntervalDegraded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SampleIntervalMicros = 20
	if !cfg.IntervalDegraded() {
		t.Error("20 us interval should be degraded")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Degraded interval should still validate, got %v", err)
	}
	cfg.SampleIntervalMicros = 24
	if cfg.IntervalDegraded() {
		t.Error("24 us interval should not be degraded")
	}
}

func TestReductionBudget(t *testing.T) {
	cfg := DefaultConfig()
	// 8000 samples must be reduced within 200 ms.
	cfg.ReduceCostNanos = 25000
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected budget to fit, got %v", err)
	}
	cfg.ReduceCostNanos = 25001
	if err := cfg.Validate(); err != ErrReductionBudget {
		t.Errorf("Expected ErrReductionBudget, got %v", err)
	}
}

func TestConfigValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"no channels", func(c *Config) { c.Channels = nil }, ErrNoChannels},
		{"too many channels", func(c *Config) { c.Channels = make([]ChannelConfig, MaxChannels+1) }, ErrTooManyChannels},
		{"bad gain", func(c *Config) { c.Channels[0].Gain = 42 }, ErrGain},
		{"bad acquisition", func(c *Config) { c.Channels[1].Acquisition = 9 }, ErrAcquisitionTime},
		{"bad resolution", func(c *Config) { c.Resolution = 7 }, ErrResolution},
		{"zero buffer", func(c *Config) { c.BufferSize = 0 }, ErrBufferSize},
		{"odd buffer", func(c *Config) { c.BufferSize = 7999 }, ErrBufferSize},
		{"zero interval", func(c *Config) { c.SampleIntervalMicros = 0 }, ErrSampleInterval},
		{"zero timer", func(c *Config) { c.TimerFrequencyHz = 0 }, ErrTimerFrequency},
		{"zero reference", func(c *Config) { c.Scale.ReferenceMilliVolts = 0 }, ErrVoltageScale},
		{"zero gain denominator", func(c *Config) { c.Scale.GainDenominator = 0 }, ErrVoltageScale},
		{"wide resolution", func(c *Config) { c.Scale.ResolutionBits = 17 }, ErrVoltageScale},
		{"scale for another gain", func(c *Config) {
			c.Channels[0].Gain = Gain1_6
			c.Channels[1].Gain = Gain1_6
		}, ErrScaleGain},
		{"mixed gains", func(c *Config) { c.Channels[1].Gain = Gain1_2 }, ErrScaleGain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); err != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestScaleMatchingGainAccepted(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Channels[0].Gain = Gain1_6
	cfg.Channels[1].Gain = Gain1_6
	cfg.Scale.GainNumerator, cfg.Scale.GainDenominator = 6, 1
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected 1/6 gain with a 6/1 scale to validate, got %v", err)
	}

	// Equivalent fractions are accepted.
	cfg.Channels[0].Gain = Gain2
	cfg.Channels[1].Gain = Gain2
	cfg.Scale.GainNumerator, cfg.Scale.GainDenominator = 2, 4
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected gain 2 with a 2/4 scale to validate, got %v", err)
	}
}

func TestGainRatio(t *testing.T) {
	if n, d := Gain1_4.Ratio(); n != 1 || d != 4 {
		t.Errorf("Expected 1/4, got %d/%d", n, d)
	}
	if n, d := Gain4.Ratio(); n != 4 || d != 1 {
		t.Errorf("Expected 4/1, got %d/%d", n, d)
	}
	if Acq40us.Micros() != 40 || Resolution14Bit.Bits() != 14 {
		t.Error("Unexpected acquisition or resolution encoding")
	}
}
