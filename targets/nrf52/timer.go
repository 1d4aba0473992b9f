//go:build nrf52 || nrf52840 || nrf52833

package main

import (
	"device/nrf"
	"runtime/volatile"
	"unsafe"

	"apm/core"
)

const (
	timerBaseHz     = 16000000
	timerModeTimer  = 0
	timerBitMode32  = 3
	timerMaxPrescal = 9
)

// HWTimer drives one TIMER instance in timer mode.
type HWTimer struct {
	regs *nrf.TIMER_Type
	freq uint32
}

func newHWTimer(regs *nrf.TIMER_Type) *HWTimer {
	return &HWTimer{regs: regs}
}

// Init selects the prescaler giving exactly cfg.FrequencyHz.
func (t *HWTimer) Init(cfg core.TimerConfig) error {
	if t.freq != 0 {
		return core.CodeAlreadyInitialized
	}
	prescaler := -1
	for p := 0; p <= timerMaxPrescal; p++ {
		if timerBaseHz>>uint(p) == cfg.FrequencyHz {
			prescaler = p
			break
		}
	}
	if prescaler < 0 || cfg.BitWidth != 32 {
		return core.CodeInvalidParam
	}
	t.regs.TASKS_STOP.Set(1)
	t.regs.TASKS_CLEAR.Set(1)
	t.regs.MODE.Set(timerModeTimer)
	t.regs.BITMODE.Set(timerBitMode32)
	t.regs.PRESCALER.Set(uint32(prescaler))
	t.regs.SHORTS.Set(0)
	t.regs.INTENCLR.Set(0xFFFFFFFF)
	t.freq = cfg.FrequencyHz
	return nil
}

// SetCompare programs CC[ch]; autoClear sets the COMPAREn_CLEAR short.
func (t *HWTimer) SetCompare(ch core.CompareChannel, ticks uint32, autoClear bool) {
	t.regs.CC[ch].Set(ticks)
	t.regs.EVENTS_COMPARE[ch].Set(0)
	if autoClear {
		t.regs.SHORTS.SetBits(1 << uint(ch))
	} else {
		t.regs.SHORTS.ClearBits(1 << uint(ch))
	}
}

func (t *HWTimer) Enable() {
	t.regs.TASKS_CLEAR.Set(1)
	t.regs.TASKS_START.Set(1)
}

func (t *HWTimer) Disable() {
	t.regs.TASKS_STOP.Set(1)
}

func (t *HWTimer) MicrosecondsToTicks(us uint32) uint32 {
	return uint32(uint64(us) * uint64(t.freq) / 1000000)
}

func (t *HWTimer) CompareEventAddress(ch core.CompareChannel) uint32 {
	return regAddr(&t.regs.EVENTS_COMPARE[ch])
}

func regAddr(r *volatile.Register32) uint32 {
	return uint32(uintptr(unsafe.Pointer(r)))
}

var _ core.Timer = (*HWTimer)(nil)
