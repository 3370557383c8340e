//go:build !(tinygo && avr)

package core

// State is the saved global interrupt-enable flag (1 = enabled)
type State uintptr

// irqEnabled simulates the I bit of SREG on host builds
var irqEnabled = true

// disableInterrupts clears the simulated I bit and returns its previous value
func disableInterrupts() State {
	var s State
	if irqEnabled {
		s = 1
	}
	irqEnabled = false
	return s
}

// restoreInterrupts puts the simulated I bit back exactly as it was saved
func restoreInterrupts(state State) {
	irqEnabled = state != 0
}

// SetInterruptsEnabled sets the simulated global interrupt flag
func SetInterruptsEnabled(enabled bool) {
	irqEnabled = enabled
}

// InterruptsEnabled reports the simulated global interrupt flag
func InterruptsEnabled() bool {
	return irqEnabled
}
