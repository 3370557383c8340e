//go:build attiny24 || attiny44 || attiny84 || !avr

package pinmap

import "fasterpin/board"

// ATtiny84: D0-D7 on PORTA, D8-D11 on PORTB (D11 is RESET)
var ATtiny84 = newMap("attiny84", []board.Pin{
	board.New(board.TinyPINA, 0), board.New(board.TinyPINA, 1), board.New(board.TinyPINA, 2), board.New(board.TinyPINA, 3),
	board.New(board.TinyPINA, 4), board.New(board.TinyPINA, 5), board.New(board.TinyPINA, 6), board.New(board.TinyPINA, 7),
	board.New(board.TinyPINB, 0), board.New(board.TinyPINB, 1), board.New(board.TinyPINB, 2), board.New(board.TinyPINB, 3),
})
