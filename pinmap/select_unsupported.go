//go:build avr && !(atmega168 || atmega328p || atmega32u4 || atmega1280 || atmega2560 || attiny24 || attiny44 || attiny84 || attiny25 || attiny45 || attiny85)

package pinmap

// Refuse to build for an AVR chip without a pin table.
var Selected = avrTargetHasNoPinMap
