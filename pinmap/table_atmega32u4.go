//go:build atmega32u4 || !avr

package pinmap

import "fasterpin/board"

// ATmega32U4 follows the Arduino Leonardo variant
var ATmega32U4 = newMap("atmega32u4", []board.Pin{
	board.New(board.PIND, 2), board.New(board.PIND, 3), board.New(board.PIND, 1), board.New(board.PIND, 0), board.New(board.PIND, 4),
	board.New(board.PINC, 6), board.New(board.PIND, 7), board.New(board.PINE, 6), board.New(board.PINB, 4), board.New(board.PINB, 5),
	board.New(board.PINB, 6), board.New(board.PINB, 7), board.New(board.PIND, 6), board.New(board.PINC, 7), board.New(board.PINB, 3),
	board.New(board.PINB, 1), board.New(board.PINB, 2), board.New(board.PINB, 0), board.New(board.PINF, 7), board.New(board.PINF, 6),
	board.New(board.PINF, 5), board.New(board.PINF, 4), board.New(board.PINF, 1), board.New(board.PINF, 0),
})
