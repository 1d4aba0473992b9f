package config

import (
	"strings"
	"testing"

	"apm/core"
)

func TestDefaultMatchesCore(t *testing.T) {
	cfg, err := Default().Core()
	if err != nil {
		t.Fatalf("Core failed: %v", err)
	}
	def := core.DefaultConfig()

	if len(cfg.Channels) != 2 || cfg.Channels[0] != def.Channels[0] || cfg.Channels[1] != def.Channels[1] {
		t.Errorf("Expected default channels, got %+v", cfg.Channels)
	}
	if cfg.Scale != def.Scale {
		t.Errorf("Expected scale %+v, got %+v", def.Scale, cfg.Scale)
	}
	if cfg.SampleIntervalMicros != 50 || cfg.BufferSize != 8000 || cfg.IRQPriority != 6 {
		t.Errorf("Unexpected timing defaults %+v", cfg)
	}
	if cfg.SlotOrder != core.SlotOrderReversed {
		t.Error("Expected reversed slot order by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config invalid: %v", err)
	}
}

func TestLoadYAML(t *testing.T) {
	data := []byte(`
channels:
  - input: AIN0
    gain: "1/6"
    acquisition_us: 3
  - input: vdd
    gain: "1/6"
resolution_bits: 10
sample_interval_us: 100
buffer_size: 400
slot_order: direct
reference_mv: 600
log:
  level: debug
sim:
  fabric_channels: 4
  source:
    kind: sine
    offset: 512
    amplitude: 100
    period: 50
`)
	f, err := Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if f.Channels[1].AcquisitionMicros != 10 {
		t.Errorf("Expected default acquisition for channel 1, got %d", f.Channels[1].AcquisitionMicros)
	}
	if f.Log.Level != "debug" || f.Log.Baud != 115200 {
		t.Errorf("Unexpected log section %+v", f.Log)
	}

	cfg, err := f.Core()
	if err != nil {
		t.Fatalf("Core failed: %v", err)
	}
	if cfg.Channels[0].Input != core.InputAIN0 || cfg.Channels[1].Input != core.InputVDD {
		t.Errorf("Unexpected inputs %+v", cfg.Channels)
	}
	if cfg.Channels[0].Acquisition != core.Acq3us {
		t.Errorf("Expected 3 us acquisition, got %d us", cfg.Channels[0].Acquisition.Micros())
	}
	if cfg.Resolution != core.Resolution10Bit || cfg.SlotOrder != core.SlotOrderDirect {
		t.Errorf("Unexpected resolution %d or order %d", cfg.Resolution, cfg.SlotOrder)
	}
	want := core.VoltageScale{ReferenceMilliVolts: 600, GainNumerator: 6, GainDenominator: 1, ResolutionBits: 10}
	if cfg.Scale != want {
		t.Errorf("Expected scale %+v, got %+v", want, cfg.Scale)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Loaded config invalid: %v", err)
	}

	scfg, err := f.SimConfig()
	if err != nil {
		t.Fatalf("SimConfig failed: %v", err)
	}
	if scfg.FabricChannels != 4 || scfg.ConversionNanos != 2000 {
		t.Errorf("Unexpected sim config %+v", scfg)
	}
	if v := scfg.Source(0, 0); v != 512 {
		t.Errorf("Expected sine to start at its offset, got %d", v)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad input", "channels: [{input: AIN9}]", "unknown input"},
		{"bad gain", "channels: [{input: AIN1, gain: \"3\"}]", "unknown gain"},
		{"bad acquisition", "channels: [{input: AIN1, acquisition_us: 7}]", "acquisition time"},
		{"bad resolution", "resolution_bits: 11", "unsupported resolution"},
		{"bad order", "slot_order: sideways", "slot order"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Load([]byte(tt.yaml))
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			_, err = f.Core()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}

	if _, err := Load([]byte("channels: {")); err == nil {
		t.Error("Expected a parse error")
	}

	f := Default()
	f.Sim.Source.Kind = "noise"
	if _, err := f.SimConfig(); err == nil {
		t.Error("Expected unknown source kind to fail")
	}
}
