//go:build atmega168 || atmega328p || !avr

package pinmap

import "fasterpin/board"

// ATmega328P is the Arduino Uno/Nano layout: D0-D7 on PORTD, D8-D13 on
// PORTB, A0-A5 (D14-D19) on PORTC.
var ATmega328P = newMap("atmega328p", []board.Pin{
	board.New(board.PIND, 0), board.New(board.PIND, 1), board.New(board.PIND, 2), board.New(board.PIND, 3), board.New(board.PIND, 4),
	board.New(board.PIND, 5), board.New(board.PIND, 6), board.New(board.PIND, 7), board.New(board.PINB, 0), board.New(board.PINB, 1),
	board.New(board.PINB, 2), board.New(board.PINB, 3), board.New(board.PINB, 4), board.New(board.PINB, 5), board.New(board.PINC, 0),
	board.New(board.PINC, 1), board.New(board.PINC, 2), board.New(board.PINC, 3), board.New(board.PINC, 4), board.New(board.PINC, 5),
})
