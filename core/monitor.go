package core

import "tinygo.org/x/drivers"

// Monitor keeps the most recent report and exposes it to task context as
// a drivers.Sensor. Report runs inside the converter event; Update copies
// the latest report with interrupts masked so readers never see a
// half-written record.
type Monitor struct {
	latest Report
	seq    uint32

	snap    Report
	snapSeq uint32
}

var _ drivers.Sensor = (*Monitor)(nil)

func NewMonitor() *Monitor {
	return &Monitor{}
}

// Report implements ReportSink.
func (m *Monitor) Report(r *Report) {
	m.latest = *r
	m.seq++
}

// Update refreshes the snapshot when which includes drivers.Voltage.
func (m *Monitor) Update(which drivers.Measurement) error {
	if which&drivers.Voltage == 0 {
		return nil
	}
	st := maskInterrupts()
	m.snap = m.latest
	m.snapSeq = m.seq
	unmaskInterrupts(st)
	return nil
}

// Sequence is the number of reports seen at the last Update; 0 means no
// buffer had been reduced yet.
func (m *Monitor) Sequence() uint32 {
	return m.snapSeq
}

// Voltage returns channel ch in microvolts as of the last Update.
func (m *Monitor) Voltage(ch int) int32 {
	if ch < 0 || ch >= MaxChannels {
		return 0
	}
	return int32(m.snap.MilliVolts[ch] * 1000)
}

// MilliVolts returns channel ch in millivolts as of the last Update.
func (m *Monitor) MilliVolts(ch int) int64 {
	if ch < 0 || ch >= MaxChannels {
		return 0
	}
	return m.snap.MilliVolts[ch]
}

// Snapshot returns the report captured by the last Update.
func (m *Monitor) Snapshot() Report {
	return m.snap
}
