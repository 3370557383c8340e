//go:build !avr

package pinmap

// Host builds simulate an ATmega328P
var Selected = ATmega328P
