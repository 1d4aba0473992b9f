//go:build tinygo

package core

import "runtime/interrupt"

type irqState = interrupt.State

// maskInterrupts disables interrupts so task context can copy state the
// converter interrupt writes.
func maskInterrupts() irqState {
	return interrupt.Disable()
}

func unmaskInterrupts(st irqState) {
	interrupt.Restore(st)
}
