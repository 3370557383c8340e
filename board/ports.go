package board

// ATmega port groups (PINx addresses in data space)
const (
	PINA uintptr = 0x20
	PINB uintptr = 0x23
	PINC uintptr = 0x26
	PIND uintptr = 0x29
	PINE uintptr = 0x2c
	PINF uintptr = 0x2f
	PING uintptr = 0x32

	// Extended I/O, outside the sbi/cbi window on ATmega1280/2560
	PINH uintptr = 0x100
	PINJ uintptr = 0x103
	PINK uintptr = 0x106
	PINL uintptr = 0x109
)

// ATtiny port groups
const (
	TinyPINB uintptr = 0x36
	TinyPINA uintptr = 0x39
)

var portNames = map[uintptr]byte{
	PINA: 'A', PINB: 'B', PINC: 'C', PIND: 'D', PINE: 'E', PINF: 'F', PING: 'G',
	PINH: 'H', PINJ: 'J', PINK: 'K', PINL: 'L',
	TinyPINA: 'A', TinyPINB: 'B',
}
