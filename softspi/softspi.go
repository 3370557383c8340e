// Package softspi bit-bangs an SPI controller on three runtime-selected pins.
//
// Bus implements tinygo.org/x/drivers.SPI so any driver written against that
// interface can talk to a device wired to arbitrary digital pins.
package softspi

import (
	"errors"

	"tinygo.org/x/drivers"

	"fasterpin/core"
	"fasterpin/pinmap"
)

var (
	ErrInvalidMode    = errors.New("invalid SPI mode")
	ErrLengthMismatch = errors.New("tx and rx buffer lengths must match")
)

// Config selects the pins by logical index. SDI may be pinmap.NoPin for a
// write-only bus; reads then return zero bits.
type Config struct {
	SCK  int
	SDO  int
	SDI  int
	Mode uint8 // 0-3: bit 1 is CPOL, bit 0 is CPHA

	// Delay runs once per clock half period. nil clocks as fast as the
	// pin operations allow.
	Delay func()
}

// Bus is a bit-banged SPI controller, MSB first
type Bus struct {
	sck, sdo, sdi *core.FastPin
	cpol, cpha    bool
	delay         func()
}

var _ drivers.SPI = (*Bus)(nil)

// New binds the pins and parks the clock at its idle level
func New(cfg Config) (*Bus, error) {
	if cfg.Mode > 3 {
		return nil, ErrInvalidMode
	}

	sck, err := core.NewFastPin(cfg.SCK)
	if err != nil {
		return nil, err
	}
	sdo, err := core.NewFastPin(cfg.SDO)
	if err != nil {
		return nil, err
	}
	var sdi *core.FastPin
	if cfg.SDI != pinmap.NoPin {
		if sdi, err = core.NewFastPin(cfg.SDI); err != nil {
			return nil, err
		}
	}

	b := &Bus{
		sck:   sck,
		sdo:   sdo,
		sdi:   sdi,
		cpol:  cfg.Mode&2 != 0,
		cpha:  cfg.Mode&1 != 0,
		delay: cfg.Delay,
	}
	b.configure()
	return b, nil
}

func (b *Bus) configure() {
	// Latch levels before enabling the drivers
	b.sck.Write(b.cpol)
	b.sdo.Low()
	b.sck.Output()
	b.sdo.Output()
	if b.sdi != nil {
		b.sdi.Input()
	}
}

func (b *Bus) halfPeriod() {
	if b.delay != nil {
		b.delay()
	}
}

func (b *Bus) sample() bool {
	return b.sdi != nil && b.sdi.Read()
}

// Transfer clocks one byte out and returns the byte clocked in
func (b *Bus) Transfer(w byte) (byte, error) {
	var r byte
	for bit := 7; bit >= 0; bit-- {
		out := w&(1<<bit) != 0
		if !b.cpha {
			// Data valid before the leading edge, sampled on it
			b.sdo.Write(out)
			b.halfPeriod()
			b.sck.Toggle()
			if b.sample() {
				r |= 1 << bit
			}
			b.halfPeriod()
			b.sck.Toggle()
		} else {
			// Data changes on the leading edge, sampled on the trailing one
			b.sck.Toggle()
			b.sdo.Write(out)
			b.halfPeriod()
			b.sck.Toggle()
			if b.sample() {
				r |= 1 << bit
			}
			b.halfPeriod()
		}
	}
	return r, nil
}

// Tx writes w and fills r. Either may be nil; when both are set they must
// have the same length. A nil w sends zeros.
func (b *Bus) Tx(w, r []byte) error {
	n := len(w)
	switch {
	case w == nil:
		n = len(r)
	case r != nil && len(r) != len(w):
		return ErrLengthMismatch
	}

	for i := 0; i < n; i++ {
		var out byte
		if w != nil {
			out = w[i]
		}
		in, err := b.Transfer(out)
		if err != nil {
			return err
		}
		if r != nil {
			r[i] = in
		}
	}
	return nil
}
