// Package pinmap translates logical pin indices into chip pin identifiers.
//
// Exactly one table is selected per build target (see Selected). Tables are
// immutable; every operation here is read-only.
package pinmap

import (
	"errors"

	"fasterpin/board"
)

// NoPin is reported for a chip pin that has no logical index
const NoPin = -1

var ErrDuplicatePin = errors.New("pin map contains duplicate identifiers")

// RangeError is returned when a logical index is outside the table
type RangeError struct {
	Index int
	Count int
}

func (e *RangeError) Error() string {
	return "logical pin " + itoa(e.Index) + " out of range [0, " + itoa(e.Count) + ")"
}

// Map is an ordered table of chip pin identifiers indexed by logical pin
type Map struct {
	name string
	pins []board.Pin
}

func newMap(name string, pins []board.Pin) *Map {
	return &Map{name: name, pins: pins}
}

// Name returns the chip family the table was built for
func (m *Map) Name() string {
	return m.name
}

// Len returns the number of logical pins
func (m *Map) Len() int {
	return len(m.pins)
}

// Resolve returns the chip pin identifier for a logical index
func (m *Map) Resolve(index int) (board.Pin, error) {
	if index < 0 || index >= len(m.pins) {
		return 0, &RangeError{Index: index, Count: len(m.pins)}
	}
	return m.pins[index], nil
}

// ResolveUnchecked is Resolve without the range check. The caller
// guarantees 0 <= index < Len(); anything else panics.
func (m *Map) ResolveUnchecked(index int) board.Pin {
	return m.pins[index]
}

// Lookup finds the logical index of a chip pin identifier. The first match
// in table order wins.
func (m *Map) Lookup(id board.Pin) (int, bool) {
	for i, p := range m.pins {
		if p == id {
			return i, true
		}
	}
	return NoPin, false
}

// HasPort reports whether any pin in the table lives in the register group
// at the given address
func (m *Map) HasPort(group uintptr) bool {
	for _, p := range m.pins {
		if p.Reg() == group {
			return true
		}
	}
	return false
}

// Validate checks that every identifier appears at most once
func (m *Map) Validate() error {
	seen := make(map[board.Pin]struct{}, len(m.pins))
	for _, p := range m.pins {
		if _, dup := seen[p]; dup {
			return errors.Join(ErrDuplicatePin, errors.New(m.name+": "+p.String()))
		}
		seen[p] = struct{}{}
	}
	return nil
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}
