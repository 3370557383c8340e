//go:build avr && (atmega168 || atmega328p)

package pinmap

var Selected = ATmega328P
