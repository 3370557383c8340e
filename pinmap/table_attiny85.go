//go:build attiny25 || attiny45 || attiny85 || !avr

package pinmap

import "fasterpin/board"

// ATtiny85: D0-D5 on PORTB (D5 is RESET)
var ATtiny85 = newMap("attiny85", []board.Pin{
	board.New(board.TinyPINB, 0), board.New(board.TinyPINB, 1), board.New(board.TinyPINB, 2),
	board.New(board.TinyPINB, 3), board.New(board.TinyPINB, 4), board.New(board.TinyPINB, 5),
})
