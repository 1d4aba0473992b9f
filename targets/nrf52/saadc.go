//go:build nrf52 || nrf52840 || nrf52833

package main

import (
	"device/nrf"
	"runtime/interrupt"
	"unsafe"

	"apm/core"
)

// SAADC interrupt bits (INTEN/INTENSET/INTENCLR).
const (
	saadcIntStarted       = 1 << 0
	saadcIntEnd           = 1 << 1
	saadcIntDone          = 1 << 2
	saadcIntResultDone    = 1 << 3
	saadcIntCalibrateDone = 1 << 4
	saadcIntStopped       = 1 << 5
)

// CH[n].CONFIG fields.
const (
	saadcConfigGainPos   = 8
	saadcConfigRefselPos = 12
	saadcConfigTacqPos   = 16
	saadcConfigModePos   = 20
	saadcConfigBurstPos  = 24

	saadcRefselInternal = 0
	saadcModeSE         = 0

	saadcSampleRateTimers = 1 << 12
	saadcMaxCount         = 0x7FFF
	ramStart              = 0x20000000
)

// SAADC drives the nRF52 SAADC in advanced mode. The buffer given first is
// programmed into RESULT.PTR; the second is programmed once STARTED shows
// the first has been latched.
type SAADC struct {
	initialized bool
	channels    []core.ChannelConfig
	handler     core.EventHandler
	calHandler  core.EventHandler
	intr        interrupt.Interrupt

	primary   []int16
	secondary []int16
	latched   bool // secondary written to RESULT.PTR
	running   bool
	readySent bool
	stalled   bool

	// done is handed to the pipeline by pointer so the interrupt does not
	// box a fresh value.
	done core.BufferDoneEvent
}

// The SAADC interrupt handler must be a top-level function, so the driver
// is a singleton.
var saadc SAADC

func saadcISR(interrupt.Interrupt) {
	saadc.handleIRQ()
}

func (d *SAADC) Init(priority uint8) error {
	if d.initialized {
		return core.CodeAlreadyInitialized
	}
	r := nrf.SAADC
	r.ENABLE.Set(0)
	r.INTENCLR.Set(0xFFFFFFFF)
	r.EVENTS_STARTED.Set(0)
	r.EVENTS_END.Set(0)
	r.EVENTS_CALIBRATEDONE.Set(0)
	r.EVENTS_STOPPED.Set(0)

	d.intr = interrupt.New(nrf.IRQ_SAADC, saadcISR)
	// nRF52 implements the top three priority bits.
	d.intr.SetPriority(priority << 5)
	d.intr.Enable()
	d.initialized = true
	return nil
}

func (d *SAADC) ConfigureChannels(channels []core.ChannelConfig) error {
	if !d.initialized {
		return core.CodeInvalidState
	}
	if len(channels) == 0 || len(channels) > core.MaxChannels {
		return core.CodeInvalidParam
	}
	r := nrf.SAADC
	for i, ch := range channels {
		r.CH[i].PSELP.Set(uint32(ch.Input))
		r.CH[i].PSELN.Set(0)
		r.CH[i].CONFIG.Set(uint32(ch.Gain)<<saadcConfigGainPos |
			saadcRefselInternal<<saadcConfigRefselPos |
			uint32(ch.Acquisition)<<saadcConfigTacqPos |
			saadcModeSE<<saadcConfigModePos)
	}
	for i := len(channels); i < core.MaxChannels; i++ {
		r.CH[i].PSELP.Set(0)
	}
	d.channels = append(d.channels[:0], channels...)
	return nil
}

func (d *SAADC) ConfiguredChannels() uint32 {
	return uint32(1)<<uint(len(d.channels)) - 1
}

func (d *SAADC) SetMode(mask uint32, res core.Resolution, adv core.AdvancedConfig, handler core.EventHandler) error {
	if !d.initialized || mask == 0 || mask&^d.ConfiguredChannels() != 0 {
		return core.CodeInvalidParam
	}
	if handler == nil || adv.StartOnEnd {
		// No END->START short on this SAADC; the interconnect provides it.
		return core.CodeNotSupported
	}
	r := nrf.SAADC
	r.RESOLUTION.Set(uint32(res))
	r.OVERSAMPLE.Set(uint32(adv.Oversampling))
	if adv.InternalTimerCC != 0 {
		r.SAMPLERATE.Set(uint32(adv.InternalTimerCC) | saadcSampleRateTimers)
	} else {
		r.SAMPLERATE.Set(0)
	}
	if adv.Burst {
		for i := range d.channels {
			r.CH[i].CONFIG.SetBits(1 << saadcConfigBurstPos)
		}
	}
	d.handler = handler
	r.ENABLE.Set(1)
	r.INTENSET.Set(saadcIntStarted | saadcIntEnd | saadcIntCalibrateDone)
	return nil
}

func (d *SAADC) SetBuffer(buf []int16, size int) error {
	if d.handler == nil {
		return core.CodeInvalidState
	}
	if size <= 0 || size > len(buf) || size > saadcMaxCount {
		return core.CodeInvalidLength
	}
	if uintptr(unsafe.Pointer(&buf[0])) < ramStart {
		// EasyDMA only reaches RAM.
		return core.CodeInvalidAddr
	}
	buf = buf[:size]
	switch {
	case d.primary == nil:
		d.primary = buf
		d.program(buf)
	case d.secondary == nil:
		d.secondary = buf
		if d.running {
			d.program(buf)
			d.latched = true
		}
	default:
		return core.CodeAlreadyInitialized
	}
	return nil
}

func (d *SAADC) program(buf []int16) {
	nrf.SAADC.RESULT.PTR.Set(uint32(uintptr(unsafe.Pointer(&buf[0]))))
	nrf.SAADC.RESULT.MAXCNT.Set(uint32(len(buf)))
}

func (d *SAADC) Calibrate(handler core.EventHandler) error {
	if d.handler == nil || d.running {
		return core.CodeBusy
	}
	d.calHandler = handler
	nrf.SAADC.TASKS_CALIBRATEOFFSET.Set(1)
	return nil
}

func (d *SAADC) TriggerMode() error {
	if d.handler == nil || d.primary == nil {
		return core.CodeInvalidState
	}
	nrf.SAADC.TASKS_START.Set(1)
	return nil
}

func (d *SAADC) TaskAddress(task core.ConverterTask) uint32 {
	r := nrf.SAADC
	switch task {
	case core.TaskStart:
		return regAddr(&r.TASKS_START)
	case core.TaskSample:
		return regAddr(&r.TASKS_SAMPLE)
	case core.TaskStop:
		return regAddr(&r.TASKS_STOP)
	case core.TaskCalibrateOffset:
		return regAddr(&r.TASKS_CALIBRATEOFFSET)
	}
	return 0
}

func (d *SAADC) EventAddress(event core.ConverterEvent) uint32 {
	r := nrf.SAADC
	switch event {
	case core.EventStarted:
		return regAddr(&r.EVENTS_STARTED)
	case core.EventEnd:
		return regAddr(&r.EVENTS_END)
	case core.EventDone:
		return regAddr(&r.EVENTS_DONE)
	case core.EventResultDone:
		return regAddr(&r.EVENTS_RESULTDONE)
	case core.EventCalibrateDone:
		return regAddr(&r.EVENTS_CALIBRATEDONE)
	case core.EventStopped:
		return regAddr(&r.EVENTS_STOPPED)
	}
	return 0
}

// handleIRQ services CALIBRATEDONE, END and STARTED in that order so a
// completion is always reported before the request for its replacement.
func (d *SAADC) handleIRQ() {
	r := nrf.SAADC

	if r.EVENTS_CALIBRATEDONE.Get() != 0 {
		r.EVENTS_CALIBRATEDONE.Set(0)
		r.TASKS_STOP.Set(1)
		if d.calHandler != nil {
			d.calHandler(core.CalibrationDoneEvent{})
		}
	}

	if r.EVENTS_END.Get() != 0 {
		r.EVENTS_END.Set(0)
		if !d.stalled && d.primary != nil {
			done := d.primary
			d.primary, d.secondary = d.secondary, nil
			d.latched = false
			if d.primary == nil {
				// The interconnect restarted the converter on the buffer
				// just completed; stop it before it is overwritten.
				r.TASKS_STOP.Set(1)
				d.running = false
				d.stalled = true
			}
			d.done = core.BufferDoneEvent{Buffer: done, Size: len(done)}
			d.handler(&d.done)
		}
	}

	if r.EVENTS_STARTED.Get() != 0 {
		r.EVENTS_STARTED.Set(0)
		if d.stalled {
			return
		}
		d.running = true
		if d.secondary != nil && !d.latched {
			d.program(d.secondary)
			d.latched = true
		}
		if !d.readySent {
			d.readySent = true
			d.handler(core.ReadyEvent{})
		}
		if d.secondary == nil {
			d.handler(core.BufferRequestEvent{})
		}
	}
}

var _ core.Converter = (*SAADC)(nil)
