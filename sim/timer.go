package sim

import "apm/core"

// Register layout of the modelled TIMER instance.
const (
	timerBase         = 0x4000A000
	timerEventCompare = 0x140
)

// HWTimer models a free-running timer whose compare channel 0 can restart
// the counter on match.
type HWTimer struct {
	Faults

	sched *Scheduler
	bus   *Bus

	freq        uint32
	initialized bool
	cc          [4]uint32
	autoClear   [4]bool
	running     bool
	tick        Timer

	// Enables counts Disable->Enable transitions.
	Enables int
	// Compares counts compare-0 events raised.
	Compares uint64
}

func NewHWTimer(sched *Scheduler, bus *Bus) *HWTimer {
	t := &HWTimer{sched: sched, bus: bus}
	t.tick.Handler = t.onCompare
	return t
}

func (t *HWTimer) Init(cfg core.TimerConfig) error {
	if err := t.check("timer_init"); err != nil {
		return err
	}
	if t.initialized {
		return core.CodeAlreadyInitialized
	}
	if cfg.FrequencyHz == 0 || cfg.FrequencyHz > 16000000 {
		return core.CodeInvalidParam
	}
	t.freq = cfg.FrequencyHz
	t.initialized = true
	return nil
}

func (t *HWTimer) SetCompare(ch core.CompareChannel, ticks uint32, autoClear bool) {
	if int(ch) >= len(t.cc) {
		return
	}
	t.cc[ch] = ticks
	t.autoClear[ch] = autoClear
}

func (t *HWTimer) Enable() {
	if t.running || !t.initialized {
		return
	}
	t.running = true
	t.Enables++
	if p := t.period(); p > 0 {
		t.sched.After(&t.tick, p)
	}
}

func (t *HWTimer) Disable() {
	t.running = false
	t.sched.Cancel(&t.tick)
}

// Running reports whether the counter is counting.
func (t *HWTimer) Running() bool {
	return t.running
}

func (t *HWTimer) MicrosecondsToTicks(us uint32) uint32 {
	return uint32(uint64(us) * uint64(t.freq) / 1000000)
}

func (t *HWTimer) CompareEventAddress(ch core.CompareChannel) uint32 {
	return timerBase + timerEventCompare + 4*uint32(ch)
}

// period is the compare-0 period in nanoseconds.
func (t *HWTimer) period() uint64 {
	if t.freq == 0 || t.cc[0] == 0 {
		return 0
	}
	return uint64(t.cc[0]) * 1000000000 / uint64(t.freq)
}

func (t *HWTimer) onCompare(tm *Timer) uint8 {
	if !t.running {
		return SF_DONE
	}
	t.Compares++
	t.bus.Signal(t.CompareEventAddress(core.Compare0))
	if !t.autoClear[0] {
		// Without the clear short the counter wraps before matching again.
		return SF_DONE
	}
	tm.WakeTime += t.period()
	return SF_RESCHEDULE
}

var _ core.Timer = (*HWTimer)(nil)
