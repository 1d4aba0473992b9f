package sim

import "apm/core"

// Register layout of the modelled SAADC.
const (
	saadcBase = 0x40007000

	saadcTaskStart     = 0x000
	saadcTaskSample    = 0x004
	saadcTaskStop      = 0x008
	saadcTaskCalibrate = 0x00C

	saadcEventStarted       = 0x100
	saadcEventEnd           = 0x104
	saadcEventDone          = 0x108
	saadcEventResultDone    = 0x10C
	saadcEventCalibrateDone = 0x110
	saadcEventStopped       = 0x114
)

// Source produces the raw result for a channel on the n-th accepted
// trigger.
type Source func(channel int, n uint64) int16

// ConverterConfig sets the timing of the modelled converter.
type ConverterConfig struct {
	ConversionNanos  uint64 // per channel, after acquisition
	CalibrationNanos uint64
	Source           Source
}

// Converter models a SAADC in advanced mode with double-buffered DMA.
//
// The buffer given first is filled after START; the second is queued
// behind it. On END the queued buffer moves up and, when the interconnect
// routes END to START, filling resumes at once and a BufferRequest asks
// for the next queued buffer. A START with nothing to fill leaves the
// converter stalled: triggers are dropped and no further completions are
// raised.
//
// Events for the handler are delivered from the scheduler after the
// hardware step that raised them, one at a time.
type Converter struct {
	Faults

	sched *Scheduler
	bus   *Bus
	cfg   ConverterConfig

	initialized bool
	priority    uint8
	channels    []core.ChannelConfig
	modeSet     bool
	resolution  core.Resolution
	handler     core.EventHandler
	calHandler  core.EventHandler

	primary   []int16
	secondary []int16
	started   bool
	pos       int
	busyUntil uint64
	readySent bool

	pending     []pendingEvent
	irq         Timer
	calibration Timer
	startTimer  Timer
	dispatching bool

	// Triggers counts SAMPLE tasks received.
	Triggers uint64
	// Accepted counts triggers that produced a conversion.
	Accepted uint64
	// Skipped counts triggers dropped because the previous conversion was
	// still running.
	Skipped uint64
	// Stalled counts triggers dropped because no buffer was available.
	Stalled uint64
	// Completions counts filled buffers.
	Completions uint64
}

type pendingEvent struct {
	ev      core.Event
	handler core.EventHandler
}

func NewConverter(sched *Scheduler, bus *Bus, cfg ConverterConfig) *Converter {
	if cfg.Source == nil {
		cfg.Source = Constant(0)
	}
	c := &Converter{sched: sched, bus: bus, cfg: cfg}
	c.irq.Handler = c.onIRQ
	c.calibration.Handler = c.onCalibrated
	c.startTimer.Handler = func(*Timer) uint8 {
		c.taskStart()
		return SF_DONE
	}
	bus.Map(saadcBase+saadcTaskStart, c.taskStart)
	bus.Map(saadcBase+saadcTaskSample, c.taskSample)
	bus.Map(saadcBase+saadcTaskStop, c.taskStop)
	return c
}

func (c *Converter) Init(priority uint8) error {
	if err := c.check("saadc_init"); err != nil {
		return err
	}
	if c.initialized {
		return core.CodeAlreadyInitialized
	}
	c.initialized = true
	c.priority = priority
	return nil
}

func (c *Converter) ConfigureChannels(channels []core.ChannelConfig) error {
	if err := c.check("saadc_channels_config"); err != nil {
		return err
	}
	if !c.initialized {
		return core.CodeInvalidState
	}
	if len(channels) == 0 || len(channels) > core.MaxChannels {
		return core.CodeInvalidParam
	}
	c.channels = append(c.channels[:0], channels...)
	return nil
}

func (c *Converter) ConfiguredChannels() uint32 {
	return uint32(1)<<uint(len(c.channels)) - 1
}

func (c *Converter) SetMode(mask uint32, res core.Resolution, adv core.AdvancedConfig, handler core.EventHandler) error {
	if err := c.check("saadc_advanced_mode_set"); err != nil {
		return err
	}
	if !c.initialized || mask == 0 || mask&^c.ConfiguredChannels() != 0 {
		return core.CodeInvalidParam
	}
	if handler == nil {
		return core.CodeNotSupported
	}
	c.resolution = res
	c.handler = handler
	c.modeSet = true
	return nil
}

func (c *Converter) SetBuffer(buf []int16, size int) error {
	if err := c.check("saadc_buffer_set"); err != nil {
		return err
	}
	if !c.modeSet {
		return core.CodeInvalidState
	}
	if size <= 0 || size > len(buf) {
		return core.CodeInvalidLength
	}
	switch {
	case c.primary == nil:
		c.primary = buf[:size]
	case c.secondary == nil:
		c.secondary = buf[:size]
	default:
		return core.CodeAlreadyInitialized
	}
	return nil
}

func (c *Converter) Calibrate(handler core.EventHandler) error {
	if err := c.check("saadc_offset_calibrate"); err != nil {
		return err
	}
	if !c.modeSet || c.started {
		return core.CodeBusy
	}
	c.calHandler = handler
	c.sched.After(&c.calibration, c.cfg.CalibrationNanos)
	return nil
}

func (c *Converter) TriggerMode() error {
	if err := c.check("saadc_mode_trigger"); err != nil {
		return err
	}
	if !c.modeSet || c.primary == nil {
		return core.CodeInvalidState
	}
	c.sched.After(&c.startTimer, 0)
	return nil
}

func (c *Converter) TaskAddress(task core.ConverterTask) uint32 {
	switch task {
	case core.TaskStart:
		return saadcBase + saadcTaskStart
	case core.TaskSample:
		return saadcBase + saadcTaskSample
	case core.TaskStop:
		return saadcBase + saadcTaskStop
	case core.TaskCalibrateOffset:
		return saadcBase + saadcTaskCalibrate
	}
	return 0
}

func (c *Converter) EventAddress(event core.ConverterEvent) uint32 {
	switch event {
	case core.EventStarted:
		return saadcBase + saadcEventStarted
	case core.EventEnd:
		return saadcBase + saadcEventEnd
	case core.EventDone:
		return saadcBase + saadcEventDone
	case core.EventResultDone:
		return saadcBase + saadcEventResultDone
	case core.EventCalibrateDone:
		return saadcBase + saadcEventCalibrateDone
	case core.EventStopped:
		return saadcBase + saadcEventStopped
	}
	return 0
}

// Filling returns the buffer being written, nil when stopped.
func (c *Converter) Filling() []int16 {
	if !c.started {
		return nil
	}
	return c.primary
}

// Queued returns the buffer queued behind the one being written.
func (c *Converter) Queued() []int16 {
	return c.secondary
}

// conversionNanos is how long one trigger keeps the converter busy.
func (c *Converter) conversionNanos() uint64 {
	var total uint64
	for _, ch := range c.channels {
		total += uint64(ch.Acquisition.Micros())*1000 + c.cfg.ConversionNanos
	}
	return total
}

func (c *Converter) taskStart() {
	if c.started {
		return
	}
	if c.primary == nil {
		return
	}
	c.started = true
	c.pos = 0
	c.bus.Signal(c.EventAddress(core.EventStarted))
	if !c.readySent {
		c.readySent = true
		c.raise(core.ReadyEvent{}, c.handler)
	}
	if c.secondary == nil {
		c.raise(core.BufferRequestEvent{}, c.handler)
	}
}

func (c *Converter) taskSample() {
	c.Triggers++
	if !c.started {
		c.Stalled++
		return
	}
	now := c.sched.Now()
	if now < c.busyUntil {
		c.Skipped++
		return
	}
	c.busyUntil = now + c.conversionNanos()
	for ch := range c.channels {
		c.primary[c.pos] = c.cfg.Source(ch, c.Accepted)
		c.pos++
		if c.pos == len(c.primary) {
			break
		}
	}
	c.Accepted++
	if c.pos == len(c.primary) {
		c.end()
	}
}

func (c *Converter) taskStop() {
	c.started = false
}

func (c *Converter) end() {
	done := c.primary
	c.primary = c.secondary
	c.secondary = nil
	c.started = false
	c.Completions++
	c.raise(&core.BufferDoneEvent{Buffer: done, Size: len(done)}, c.handler)
	c.bus.Signal(c.EventAddress(core.EventEnd))
}

func (c *Converter) onCalibrated(*Timer) uint8 {
	c.bus.Signal(c.EventAddress(core.EventCalibrateDone))
	c.raise(core.CalibrationDoneEvent{}, c.calHandler)
	return SF_DONE
}

// raise queues ev for delivery once the current hardware step is over.
func (c *Converter) raise(ev core.Event, handler core.EventHandler) {
	if handler == nil {
		return
	}
	c.pending = append(c.pending, pendingEvent{ev: ev, handler: handler})
	if !c.irq.queued && !c.dispatching {
		c.sched.After(&c.irq, 0)
	}
}

func (c *Converter) onIRQ(*Timer) uint8 {
	c.dispatching = true
	for len(c.pending) > 0 {
		p := c.pending[0]
		c.pending = c.pending[1:]
		p.handler(p.ev)
	}
	c.pending = c.pending[:0]
	c.dispatching = false
	return SF_DONE
}

var _ core.Converter = (*Converter)(nil)
