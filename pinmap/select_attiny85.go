//go:build avr && (attiny25 || attiny45 || attiny85)

package pinmap

var Selected = ATtiny85
