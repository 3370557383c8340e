//go:build atmega1280 || atmega2560 || !avr

package pinmap

import "fasterpin/board"

// ATmega2560 follows the Arduino Mega variant. Ports H, J, K and L sit in
// extended I/O space.
var ATmega2560 = newMap("atmega2560", []board.Pin{
	board.New(board.PINE, 0), board.New(board.PINE, 1), board.New(board.PINE, 4), board.New(board.PINE, 5), board.New(board.PING, 5),
	board.New(board.PINE, 3), board.New(board.PINH, 3), board.New(board.PINH, 4), board.New(board.PINH, 5), board.New(board.PINH, 6),
	board.New(board.PINB, 4), board.New(board.PINB, 5), board.New(board.PINB, 6), board.New(board.PINB, 7), board.New(board.PINJ, 1),
	board.New(board.PINJ, 0), board.New(board.PINH, 1), board.New(board.PINH, 0), board.New(board.PIND, 3), board.New(board.PIND, 2),
	board.New(board.PIND, 1), board.New(board.PIND, 0), board.New(board.PINA, 0), board.New(board.PINA, 1), board.New(board.PINA, 2),
	board.New(board.PINA, 3), board.New(board.PINA, 4), board.New(board.PINA, 5), board.New(board.PINA, 6), board.New(board.PINA, 7),
	board.New(board.PINC, 7), board.New(board.PINC, 6), board.New(board.PINC, 5), board.New(board.PINC, 4), board.New(board.PINC, 3),
	board.New(board.PINC, 2), board.New(board.PINC, 1), board.New(board.PINC, 0), board.New(board.PIND, 7), board.New(board.PING, 2),
	board.New(board.PING, 1), board.New(board.PING, 0), board.New(board.PINL, 7), board.New(board.PINL, 6), board.New(board.PINL, 5),
	board.New(board.PINL, 4), board.New(board.PINL, 3), board.New(board.PINL, 2), board.New(board.PINL, 1), board.New(board.PINL, 0),
	board.New(board.PINB, 3), board.New(board.PINB, 2), board.New(board.PINB, 1), board.New(board.PINB, 0), board.New(board.PINF, 0),
	board.New(board.PINF, 1), board.New(board.PINF, 2), board.New(board.PINF, 3), board.New(board.PINF, 4), board.New(board.PINF, 5),
	board.New(board.PINF, 6), board.New(board.PINF, 7), board.New(board.PINK, 0), board.New(board.PINK, 1), board.New(board.PINK, 2),
	board.New(board.PINK, 3), board.New(board.PINK, 4), board.New(board.PINK, 5), board.New(board.PINK, 6), board.New(board.PINK, 7),
})
