//go:build avr && (atmega32u4)

package pinmap

var Selected = ATmega32U4
