package core

// CompareChannel selects a capture/compare register of the timer.
type CompareChannel uint8

const (
	Compare0 CompareChannel = iota
	Compare1
	Compare2
	Compare3
)

// TimerConfig configures the timer peripheral.
type TimerConfig struct {
	FrequencyHz uint32 // tick rate after prescaling
	BitWidth    uint8  // counter width, 16/24/32
}

// Timer is a free-running hardware timer whose compare events pace the
// converter.
type Timer interface {
	Init(cfg TimerConfig) error

	// SetCompare arms a compare match after ticks. With autoClear the
	// counter restarts on the match, producing a periodic event.
	SetCompare(ch CompareChannel, ticks uint32, autoClear bool)

	Enable()
	Disable()

	MicrosecondsToTicks(us uint32) uint32
	CompareEventAddress(ch CompareChannel) uint32
}
