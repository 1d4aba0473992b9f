package sim

import "apm/core"

// Config sizes the simulated board.
type Config struct {
	FabricChannels   int    // PPI channels available, 20 on nRF52
	ConversionNanos  uint64 // per channel conversion time
	CalibrationNanos uint64
	Source           Source
}

// DefaultConfig matches an nRF52 SAADC: 20 PPI channels, 2 us
// conversions, 100 us offset calibration.
func DefaultConfig() Config {
	return Config{
		FabricChannels:   20,
		ConversionNanos:  2000,
		CalibrationNanos: 100000,
		Source:           Constant(0),
	}
}

// System wires a scheduler, bus, timer, interconnect and converter.
type System struct {
	Sched     *Scheduler
	Bus       *Bus
	Timer     *HWTimer
	Fabric    *Fabric
	Converter *Converter
}

func NewSystem(cfg Config) *System {
	sched := &Scheduler{}
	bus := NewBus()
	return &System{
		Sched:  sched,
		Bus:    bus,
		Timer:  NewHWTimer(sched, bus),
		Fabric: NewFabric(bus, cfg.FabricChannels),
		Converter: NewConverter(sched, bus, ConverterConfig{
			ConversionNanos:  cfg.ConversionNanos,
			CalibrationNanos: cfg.CalibrationNanos,
			Source:           cfg.Source,
		}),
	}
}

// Peripherals returns the drivers for core.New.
func (s *System) Peripherals() core.Peripherals {
	return core.Peripherals{
		Timer:        s.Timer,
		Converter:    s.Converter,
		Interconnect: s.Fabric,
	}
}

// RunFor advances the simulation by d nanoseconds.
func (s *System) RunFor(d uint64) {
	s.Sched.RunFor(d)
}

// RunUntilReports runs until the converter has completed n buffers or the
// deadline passes, and reports whether n was reached.
func (s *System) RunUntilReports(n uint64, deadline uint64) bool {
	for s.Converter.Completions < n {
		if !s.Sched.Pending() || s.Sched.list.WakeTime > deadline {
			s.Sched.RunUntil(deadline)
			return s.Converter.Completions >= n
		}
		s.Sched.Step()
	}
	// Deliver the completion events raised by the last step.
	s.Sched.RunUntil(s.Sched.Now())
	return true
}
