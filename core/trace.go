package core

// TraceSize is the number of handled events kept for post-mortem.
const TraceSize = 32

// TraceEntry records one handled event.
type TraceEntry struct {
	Seq    uint32    // 1-based event number
	Kind   EventKind // variant handled
	State  State     // state after handling
	Buffer int8      // buffer index touched, -1 if none
	Count  uint32    // samples reduced for BufferDone
}

// traceRing is a fixed ring of the most recent events. Recording never
// allocates so it is safe in the event path.
type traceRing struct {
	ring [TraceSize]TraceEntry
	head uint8
	seq  uint32
}

func (t *traceRing) record(e TraceEntry) {
	t.seq++
	e.Seq = t.seq
	t.ring[t.head] = e
	t.head = (t.head + 1) % TraceSize
}

// appendTo appends the recorded entries to dst, oldest first.
func (t *traceRing) appendTo(dst []TraceEntry) []TraceEntry {
	for i := uint8(0); i < TraceSize; i++ {
		e := t.ring[(t.head+i)%TraceSize]
		if e.Seq == 0 {
			continue
		}
		dst = append(dst, e)
	}
	return dst
}

// Trace returns the last TraceSize handled events, oldest first. Call it
// from task context only.
func (p *Pipeline) Trace() []TraceEntry {
	st := maskInterrupts()
	ring := p.trace
	unmaskInterrupts(st)
	return ring.appendTo(make([]TraceEntry, 0, TraceSize))
}

// DumpTrace writes the trace ring through the pipeline logger.
func (p *Pipeline) DumpTrace() {
	p.log.Info("trace dump begin", Uint("events", uint64(p.trace.seq)))
	for _, e := range p.Trace() {
		p.log.Info("trace",
			Uint("seq", uint64(e.Seq)),
			Str("event", e.Kind.String()),
			Str("state", e.State.String()),
			Int("buffer", int64(e.Buffer)),
			Uint("count", uint64(e.Count)))
	}
	p.log.Info("trace dump end")
}
