package core

// EventHandler receives converter events. The converter never invokes it
// re-entrantly: a new event is not dispatched until the previous call has
// returned.
type EventHandler func(ev Event)

// ConverterTask names a hardware task of the converter that the
// interconnect can trigger.
type ConverterTask uint8

const (
	TaskStart ConverterTask = iota
	TaskSample
	TaskStop
	TaskCalibrateOffset
)

// ConverterEvent names a hardware event of the converter that the
// interconnect can route.
type ConverterEvent uint8

const (
	EventStarted ConverterEvent = iota
	EventEnd
	EventDone
	EventResultDone
	EventCalibrateDone
	EventStopped
)

// Converter is the multi-channel ADC driver the pipeline uses.
//
// Buffers follow the double-buffered DMA model: the first SetBuffer after
// mode selection becomes the active buffer, the second is latched as the
// next one. Further buffers are accepted only in response to a
// BufferRequest event.
type Converter interface {
	// Init takes ownership of the peripheral and its interrupt.
	Init(priority uint8) error

	// ConfigureChannels programs inputs, gains and acquisition times.
	ConfigureChannels(channels []ChannelConfig) error

	// ConfiguredChannels returns the mask of channels set up so far.
	ConfiguredChannels() uint32

	// SetMode selects advanced (buffered, externally triggered) mode.
	SetMode(mask uint32, res Resolution, adv AdvancedConfig, handler EventHandler) error

	// SetBuffer hands buf[:size] to the converter as a write target.
	SetBuffer(buf []int16, size int) error

	// Calibrate starts offset calibration; completion is reported with a
	// CalibrationDone event to handler.
	Calibrate(handler EventHandler) error

	// TriggerMode starts the configured mode. A Ready event follows once
	// the converter accepts sample triggers.
	TriggerMode() error

	TaskAddress(task ConverterTask) uint32
	EventAddress(event ConverterEvent) uint32
}
