package core

import (
	"errors"

	"fasterpin/board"
	"fasterpin/pinmap"
)

// ErrUnknownPort is returned when a chip pin identifier names a register
// group that holds no pin of the active table
var ErrUnknownPort = errors.New("pin identifier is not on a port of this chip")

// Pin map used to resolve logical indices. Target builds use the table
// selected for the chip; tests may swap it.
var pinMap = pinmap.Selected

// SetPinMap replaces the table used by later binds. Existing bindings are
// not affected.
func SetPinMap(m *pinmap.Map) {
	pinMap = m
}

// PinMap returns the active pin table
func PinMap() *pinmap.Map {
	return pinMap
}

// FastPin is a digital pin chosen at run time. Binding resolves the logical
// index once and caches the register group and mask; the I/O operations
// then touch only those.
//
// Several FastPins may share one port group. A FastPin never owns the
// registers it points at.
type FastPin struct {
	port    *portRegisters
	set     uint8 // bit mask
	unset   uint8 // ^set
	pin     int   // logical index, or pinmap.NoPin
	id      board.Pin
	guarded bool // updates need a critical section
}

// NewFastPin returns a FastPin bound to a logical pin
func NewFastPin(index int) (*FastPin, error) {
	p := &FastPin{}
	if err := p.SetPin(index); err != nil {
		return nil, err
	}
	return p, nil
}

// NewFastPinID returns a FastPin bound to a chip pin identifier
func NewFastPinID(id board.Pin) (*FastPin, error) {
	p := &FastPin{}
	if err := p.SetPinID(id); err != nil {
		return nil, err
	}
	return p, nil
}

// DefaultFastPin returns a FastPin bound to logical pin 0
func DefaultFastPin() *FastPin {
	p := &FastPin{}
	p.SetPinUnchecked(0)
	return p
}

// SetPin rebinds to a logical pin. On a *pinmap.RangeError the current
// binding is kept. The pin's direction and level are not touched.
func (p *FastPin) SetPin(index int) error {
	id, err := pinMap.Resolve(index)
	if err != nil {
		return err
	}
	p.bind(id, index)
	return nil
}

// SetPinUnchecked rebinds without validating index. Use only where the index
// is known to be in range.
func (p *FastPin) SetPinUnchecked(index int) {
	p.bind(pinMap.ResolveUnchecked(index), index)
}

// SetPinID rebinds to a chip pin identifier. Registers and mask come from the
// identifier itself; the logical index is found by reverse lookup and is
// pinmap.NoPin when the pin is not in the table. The identifier's group must
// be a port of the active table, otherwise ErrUnknownPort is returned and the
// current binding is kept.
func (p *FastPin) SetPinID(id board.Pin) error {
	if !pinMap.HasPort(id.Reg()) {
		return ErrUnknownPort
	}
	index, _ := pinMap.Lookup(id)
	p.bind(id, index)
	return nil
}

// SetPinWire rebinds to a logical index received as a protocol argument.
// The range check runs on the full value so it cannot wrap on targets
// with a 16-bit int.
func (p *FastPin) SetPinWire(index uint32) error {
	if index >= uint32(pinMap.Len()) {
		return &pinmap.RangeError{Index: int(min(index, 0x7fff)), Count: pinMap.Len()}
	}
	return p.SetPin(int(index))
}

func (p *FastPin) bind(id board.Pin, index int) {
	group := id.Reg()
	p.port = portAt(group)
	p.set = id.Mask()
	p.unset = ^p.set
	p.pin = index
	p.id = id
	p.guarded = !(atomicWindow && board.IsAtomic(group))
}

// Input makes the pin a digital input
func (p *FastPin) Input() {
	defer lock(p.guarded).unlock()
	p.port.andDDR(p.unset)
}

// Output makes the pin a digital output
func (p *FastPin) Output() {
	defer lock(p.guarded).unlock()
	p.port.orDDR(p.set)
}

// Read returns the pin level. Output pins read back the level they drive.
func (p *FastPin) Read() bool {
	return p.port.level(p.set)
}

// Low drives the pin low (or disables the pull-up on an input)
func (p *FastPin) Low() {
	defer lock(p.guarded).unlock()
	p.port.andPORT(p.unset)
}

// High drives the pin high (or enables the pull-up on an input)
func (p *FastPin) High() {
	defer lock(p.guarded).unlock()
	p.port.orPORT(p.set)
}

// Write drives the pin to value
func (p *FastPin) Write(value bool) {
	if value {
		p.High()
	} else {
		p.Low()
	}
}

// Toggle flips the output state. A single store to PINx, so it needs no
// critical section.
func (p *FastPin) Toggle() {
	p.port.togglePORT(p.set)
}

// Pin returns the bound logical index, or pinmap.NoPin
func (p *FastPin) Pin() int {
	return p.pin
}

// ID returns the bound chip pin identifier
func (p *FastPin) ID() board.Pin {
	return p.id
}

// Mask returns the pin's bit within its port
func (p *FastPin) Mask() uint8 {
	return p.set
}

// InverseMask returns ^Mask()
func (p *FastPin) InverseMask() uint8 {
	return p.unset
}
