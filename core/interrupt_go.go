//go:build !tinygo

package core

// irqState stands in for the saved interrupt mask on hosted Go, where
// events are delivered from a single goroutine.
type irqState uintptr

func maskInterrupts() irqState {
	return 0
}

func unmaskInterrupts(irqState) {}
