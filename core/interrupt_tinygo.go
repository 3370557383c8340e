//go:build tinygo && avr

package core

import "runtime/interrupt"

// State is the saved SREG value
type State = interrupt.State

// disableInterrupts saves SREG and clears the I bit
func disableInterrupts() State {
	return interrupt.Disable()
}

// restoreInterrupts writes the saved SREG back, so the I bit ends up exactly
// as it was before disableInterrupts
func restoreInterrupts(state State) {
	interrupt.Restore(state)
}
