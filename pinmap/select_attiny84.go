//go:build avr && (attiny24 || attiny44 || attiny84)

package pinmap

var Selected = ATtiny84
