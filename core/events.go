package core

// Event is a converter event. Exactly one of ReadyEvent,
// CalibrationDoneEvent, BufferRequestEvent, BufferDoneEvent or OtherEvent
// is delivered per handler invocation; each variant is handled by its own
// Pipeline method.
type Event interface {
	Kind() EventKind
	dispatch(p *Pipeline)
}

// EventKind tags an Event variant.
type EventKind uint8

const (
	KindReady EventKind = iota + 1
	KindCalibrationDone
	KindBufferRequest
	KindBufferDone
	KindOther
)

func (k EventKind) String() string {
	switch k {
	case KindReady:
		return "READY"
	case KindCalibrationDone:
		return "CALIBRATEDONE"
	case KindBufferRequest:
		return "BUF_REQ"
	case KindBufferDone:
		return "DONE"
	case KindOther:
		return "OTHER"
	default:
		return "UNKNOWN"
	}
}

// ReadyEvent: the converter accepts sample triggers.
type ReadyEvent struct{}

// CalibrationDoneEvent: offset calibration finished.
type CalibrationDoneEvent struct{}

// BufferRequestEvent: the converter has latched its next buffer and needs
// another one queued behind it.
type BufferRequestEvent struct{}

// BufferDoneEvent: Buffer holds Size freshly converted samples. Drivers
// deliver it by pointer to a value they own, which keeps the interrupt
// path free of allocations.
type BufferDoneEvent struct {
	Buffer []int16
	Size   int
}

// OtherEvent carries any converter event the pipeline does not act on.
type OtherEvent struct {
	Code uint8
}

func (ReadyEvent) Kind() EventKind           { return KindReady }
func (CalibrationDoneEvent) Kind() EventKind { return KindCalibrationDone }
func (BufferRequestEvent) Kind() EventKind   { return KindBufferRequest }
func (*BufferDoneEvent) Kind() EventKind     { return KindBufferDone }
func (OtherEvent) Kind() EventKind           { return KindOther }

func (ReadyEvent) dispatch(p *Pipeline)           { p.onReady() }
func (CalibrationDoneEvent) dispatch(p *Pipeline) { p.onCalibrationDone() }
func (BufferRequestEvent) dispatch(p *Pipeline)   { p.onBufferRequest() }
func (e *BufferDoneEvent) dispatch(p *Pipeline)   { p.onBufferDone(e) }
func (e OtherEvent) dispatch(p *Pipeline)         { p.onOther(e) }
