//go:build avr && (atmega1280 || atmega2560)

package pinmap

var Selected = ATmega2560
