// Package board describes AVR pin identifiers and the register groups behind them.
//
// A Pin packs the data-space address of a port's PINx register with a bit
// number, the same encoding the Arduino-GPIO board layer uses:
//
//	pin = (address << 4) | bit
//
// Every port is a group of three consecutive registers: PINx, DDRx, PORTx.
package board

// Pin identifies one physical pin of the target chip
type Pin uint16

// Register offsets within a port group
const (
	OffsetPIN  = 0 // input state (writing a one toggles PORTx)
	OffsetDDR  = 1 // direction, 1 = output
	OffsetPORT = 2 // output state
	GroupSize  = 3
)

const (
	// AtomicMax is the first data-space address outside the I/O window
	// addressable by sbi/cbi.
	AtomicMax = 0x40

	// DataSpaceSize covers the extended I/O space of the largest supported chip.
	DataSpaceSize = 0x200
)

// New builds a pin identifier from a group base address and a bit number
func New(group uintptr, bit uint8) Pin {
	return Pin(group<<4) | Pin(bit&0x07)
}

// Reg returns the data-space address of the pin's register group (PINx)
func (p Pin) Reg() uintptr {
	return uintptr(p >> 4)
}

// Bit returns the bit position of the pin within its port
func (p Pin) Bit() uint8 {
	return uint8(p & 0x07)
}

// Mask returns the single-bit mask selecting the pin within its port
func (p Pin) Mask() uint8 {
	return 1 << (p & 0x07)
}

// IsAtomic reports whether the whole register group lies in the I/O window
// where a single instruction sets or clears one bit.
func IsAtomic(group uintptr) bool {
	return group+GroupSize-1 < AtomicMax
}

// String returns the port style name of the pin (PB5), or its raw
// encoding when the group is not a known port.
func (p Pin) String() string {
	if name, ok := portNames[p.Reg()]; ok {
		return "P" + string(name) + string('0'+rune(p.Bit()))
	}
	const hex = "0123456789abcdef"
	return "pin(0x" + string([]byte{
		hex[(p>>12)&0xf], hex[(p>>8)&0xf], hex[(p>>4)&0xf], hex[p&0xf],
	}) + ")"
}
