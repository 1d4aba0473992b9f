package core

import "unsafe"

// State is the converter sequencing state.
type State uint8

const (
	StateUninitialized State = iota
	StateCalibrating
	StateReady
	StateSampling
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateCalibrating:
		return "calibrating"
	case StateReady:
		return "ready"
	case StateSampling:
		return "sampling"
	default:
		return "unknown"
	}
}

// Peripherals groups the drivers the pipeline sequences.
type Peripherals struct {
	Timer        Timer
	Converter    Converter
	Interconnect Interconnect
}

// Counters are cumulative pipeline statistics.
type Counters struct {
	Reports  uint32 // buffers reduced and reported
	Requests uint32 // buffer requests served
	Failures uint32 // peripheral calls that failed
	Ignored  uint32 // events that did not apply to the current state
	Overruns uint32 // completions for a buffer the converter did not own
}

// Pipeline is the capture context: it owns the two buffers, sequences the
// converter from calibration to continuous sampling and reduces every
// filled buffer. All event handling runs inside HandleEvent, which the
// converter calls one event at a time.
type Pipeline struct {
	cfg    Config
	log    *Logger
	timer  Timer
	conv   Converter
	fabric Interconnect

	buffers *BufferManager
	sinks   []ReportSink
	handler EventHandler

	state        State
	timerArmed   bool
	timerEnabled bool
	inEvent      bool
	links        [2]Channel

	counters Counters
	trace    traceRing

	// Scratch space for the completion path, which must not allocate.
	report Report
	fields [4 + 2*MaxChannels]Field
}

var (
	avgKeys = [MaxChannels]string{"avg0", "avg1", "avg2", "avg3", "avg4", "avg5", "avg6", "avg7"}
	mvKeys  = [MaxChannels]string{"mv0", "mv1", "mv2", "mv3", "mv4", "mv5", "mv6", "mv7"}
)

// New validates cfg and allocates the buffers. No peripheral is touched
// until Setup.
func New(cfg Config, hw Peripherals, log *Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if hw.Timer == nil || hw.Converter == nil || hw.Interconnect == nil {
		return nil, ErrMissingDriver
	}
	if log == nil {
		log = NewLogger("apm", nil)
	}
	p := &Pipeline{
		cfg:     cfg,
		log:     log,
		timer:   hw.Timer,
		conv:    hw.Converter,
		fabric:  hw.Interconnect,
		buffers: NewBufferManager(cfg.BufferSize),
	}
	p.handler = p.HandleEvent
	return p, nil
}

// AddReportSink registers s to receive every report. Call before Setup.
func (p *Pipeline) AddReportSink(s ReportSink) {
	p.sinks = append(p.sinks, s)
}

func (p *Pipeline) Config() Config           { return p.cfg }
func (p *Pipeline) Buffers() *BufferManager { return p.buffers }

// State returns the sequencing state.
func (p *Pipeline) State() State {
	st := maskInterrupts()
	s := p.state
	unmaskInterrupts(st)
	return s
}

// TimerEnabled reports whether the pipeline has started the timer.
func (p *Pipeline) TimerEnabled() bool {
	st := maskInterrupts()
	on := p.timerEnabled
	unmaskInterrupts(st)
	return on
}

// Counters returns a snapshot of the cumulative counters.
func (p *Pipeline) Counters() Counters {
	st := maskInterrupts()
	c := p.counters
	unmaskInterrupts(st)
	return c
}

// Setup configures the timer, the converter and the interconnect in that
// order. Each step logs its own failure; Setup keeps going so independent
// peripherals are still configured and returns the first error.
func (p *Pipeline) Setup() error {
	var first error
	for _, step := range []func() error{
		p.ConfigureTimer,
		p.ConfigureConverter,
		p.ConfigureInterconnect,
	} {
		if err := step(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// ConfigureTimer arms compare channel 0 to fire every sample interval and
// clear the counter. The timer stays disabled until the converter is ready.
func (p *Pipeline) ConfigureTimer() error {
	err := p.timer.Init(TimerConfig{FrequencyHz: p.cfg.TimerFrequencyHz, BitWidth: 32})
	if err != nil {
		p.fail("timer_init", err)
		return err
	}
	ticks := p.timer.MicrosecondsToTicks(p.cfg.SampleIntervalMicros)
	p.timer.SetCompare(Compare0, ticks, true)
	p.timerArmed = true

	if p.cfg.IntervalDegraded() {
		p.log.Warn("sample interval below acquisition+conversion time, triggers will be skipped",
			Uint("interval_us", uint64(p.cfg.SampleIntervalMicros)),
			Uint("min_us", uint64(p.cfg.MinIntervalMicros())))
	}
	p.log.Debug("timer configured",
		Uint("interval_us", uint64(p.cfg.SampleIntervalMicros)),
		Uint("ticks", uint64(ticks)))
	return nil
}

// ConfigureConverter initializes the converter, programs the channels,
// selects advanced mode, primes both buffers and requests offset
// calibration. On success the pipeline is Calibrating.
func (p *Pipeline) ConfigureConverter() error {
	if p.state != StateUninitialized {
		err := CodeInvalidState
		p.fail("converter_setup", err)
		return err
	}
	if err := p.conv.Init(p.cfg.IRQPriority); err != nil {
		p.fail("saadc_init", err)
		return err
	}
	if err := p.conv.ConfigureChannels(p.cfg.Channels); err != nil {
		p.fail("saadc_channels_config", err)
		return err
	}
	mask := p.conv.ConfiguredChannels()
	if err := p.conv.SetMode(mask, p.cfg.Resolution, p.cfg.Advanced, p.handler); err != nil {
		p.fail("saadc_advanced_mode_set", err)
		return err
	}
	for i := 0; i < 2; i++ {
		if _, err := p.buffers.Supply(p.conv); err != nil {
			p.fail("saadc_buffer_set", err)
			return err
		}
	}
	if err := p.conv.Calibrate(p.handler); err != nil {
		p.fail("saadc_offset_calibrate", err)
		return err
	}
	p.state = StateCalibrating
	p.log.Debug("converter configured",
		Hex("channels", uint64(mask)),
		Uint("buffer_size", uint64(p.cfg.BufferSize)))
	return nil
}

// ConfigureInterconnect links timer compare 0 to the converter sample task
// and converter END to converter START. Both links stay allocated for the
// life of the pipeline.
func (p *Pipeline) ConfigureInterconnect() error {
	for i := range p.links {
		ch, err := p.fabric.AllocChannel()
		if err != nil {
			p.fail("gppi_channel_alloc", err)
			return err
		}
		p.links[i] = ch
	}
	p.fabric.ConnectEndpoints(p.links[0],
		p.timer.CompareEventAddress(Compare0),
		p.conv.TaskAddress(TaskSample))
	p.fabric.ConnectEndpoints(p.links[1],
		p.conv.EventAddress(EventEnd),
		p.conv.TaskAddress(TaskStart))
	p.fabric.EnableChannels(ChannelMask(p.links[0]))
	p.fabric.EnableChannels(ChannelMask(p.links[1]))
	p.log.Debug("interconnect configured",
		Uint("sample_link", uint64(p.links[0])),
		Uint("start_link", uint64(p.links[1])))
	return nil
}

// HandleEvent is the converter event callback. It runs in interrupt
// context on hardware and does not allocate.
func (p *Pipeline) HandleEvent(ev Event) {
	if p.inEvent {
		p.counters.Ignored++
		p.log.Error("re-entrant converter event", Str("event", ev.Kind().String()))
		return
	}
	p.inEvent = true
	defer func() { p.inEvent = false }()
	ev.dispatch(p)
}

func (p *Pipeline) onCalibrationDone() {
	if !p.expect(KindCalibrationDone, StateCalibrating) {
		return
	}
	p.log.Info("SAADC event: CALIBRATEDONE")
	if err := p.conv.TriggerMode(); err != nil {
		p.fail("saadc_mode_trigger", err)
		p.traceEvent(KindCalibrationDone, -1, 0)
		return
	}
	p.state = StateReady
	p.traceEvent(KindCalibrationDone, -1, 0)
}

func (p *Pipeline) onReady() {
	if !p.expect(KindReady, StateReady) {
		return
	}
	if !p.timerArmed {
		p.fail("timer_enable", CodeInvalidState)
		p.traceEvent(KindReady, -1, 0)
		return
	}
	p.timer.Enable()
	p.timerEnabled = true
	p.state = StateSampling
	p.log.Info("sampling started")
	p.traceEvent(KindReady, -1, 0)
}

func (p *Pipeline) onBufferRequest() {
	if !p.expect(KindBufferRequest, StateReady, StateSampling) {
		return
	}
	idx, err := p.buffers.Supply(p.conv)
	if err != nil {
		p.fail("saadc_buffer_set", err)
	} else {
		p.counters.Requests++
	}
	p.traceEvent(KindBufferRequest, idx, 0)
}

func (p *Pipeline) onBufferDone(ev *BufferDoneEvent) {
	if !p.expect(KindBufferDone, StateReady, StateSampling) {
		return
	}
	idx := p.buffers.Index(ev.Buffer)
	if idx < 0 {
		p.counters.Ignored++
		p.log.Error("completion for unknown buffer", Uint("samples", uint64(ev.Size)))
		p.traceEvent(KindBufferDone, -1, 0)
		return
	}
	if !p.buffers.BeginDrain(idx) {
		p.counters.Overruns++
		p.log.Warn("completion for buffer not owned by converter", Int("buffer", int64(idx)))
	}

	size := ev.Size
	if size < 0 {
		size = 0
	}
	if size > len(ev.Buffer) {
		size = len(ev.Buffer)
	}
	n := len(p.cfg.Channels)
	r := &p.report
	r.Buffer = idx
	r.Address = uintptr(unsafe.Pointer(&ev.Buffer[0]))
	r.Stats = Reduce(ev.Buffer[:size], n, p.cfg.SlotOrder)
	r.MilliVolts = [MaxChannels]int64{}
	for ch := 0; ch < n; ch++ {
		r.MilliVolts[ch] = p.cfg.Scale.MilliVolts(r.Stats.Average[ch])
	}
	p.emit(r)

	p.buffers.EndDrain(idx)
	p.counters.Reports++
	p.traceEvent(KindBufferDone, idx, uint32(size))
}

func (p *Pipeline) onOther(ev OtherEvent) {
	p.log.Info("unhandled SAADC event", Uint("type", uint64(ev.Code)))
	p.traceEvent(KindOther, -1, 0)
}

// emit logs the report and hands it to every sink.
func (p *Pipeline) emit(r *Report) {
	level := LevelInfo
	if r.Stats.Count == 0 {
		level = LevelWarn
	}
	if p.log.Enabled(level) {
		n := r.Stats.Channels
		fields := append(p.fields[:0],
			Hex("addr", uint64(r.Address)),
			Int("samples", int64(r.Stats.Count)))
		for ch := 0; ch < n; ch++ {
			fields = append(fields, Int(avgKeys[ch], r.Stats.Average[ch]))
		}
		fields = append(fields, Int("min", r.Stats.Min), Int("max", r.Stats.Max))
		for ch := 0; ch < n; ch++ {
			fields = append(fields, Int(mvKeys[ch], r.MilliVolts[ch]))
		}
		p.log.Log(level, "SAADC buffer filled", fields...)
	}
	for _, s := range p.sinks {
		s.Report(r)
	}
}

// expect reports whether kind applies in the current state. Events that
// do not apply are logged, counted and otherwise ignored.
func (p *Pipeline) expect(kind EventKind, states ...State) bool {
	for _, s := range states {
		if p.state == s {
			return true
		}
	}
	p.counters.Ignored++
	p.log.Warn("unexpected SAADC event", Str("event", kind.String()), Str("state", p.state.String()))
	p.traceEvent(kind, -1, 0)
	return false
}

// fail logs a failed peripheral call. The caller returns without
// completing its step; nothing is retried.
func (p *Pipeline) fail(op string, err error) {
	p.counters.Failures++
	fields := append(p.fields[:0], Str("op", op), Hex32("code", uint32(StatusCode(err))), Err(err))
	p.log.log(LevelError, op, " error", fields)
}

func (p *Pipeline) traceEvent(kind EventKind, buffer int, count uint32) {
	p.trace.record(TraceEntry{Kind: kind, State: p.state, Buffer: int8(buffer), Count: count})
}
