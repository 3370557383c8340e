package softspi

import (
	"bytes"
	"testing"

	"fasterpin/core"
	"fasterpin/pinmap"
)

const (
	pinSCK = 13
	pinSDO = 11
	pinSDI = 12
)

// loopback ties SDO to SDI in the simulator and counts SCK edges
func loopback(t *testing.T) *int {
	t.Helper()
	prev := core.PinMap()
	core.SetPinMap(pinmap.ATmega328P)
	core.ResetSimulation()

	sck := pinmap.ATmega328P.ResolveUnchecked(pinSCK)
	sdo := pinmap.ATmega328P.ResolveUnchecked(pinSDO)
	sdi := pinmap.ATmega328P.ResolveUnchecked(pinSDI)

	edges := 0
	last := core.OutputLevel(sck)
	core.OnPortWrite(func(group uintptr) {
		core.DriveInput(sdi, core.OutputLevel(sdo))
		if level := core.OutputLevel(sck); level != last {
			edges++
			last = level
		}
	})
	t.Cleanup(func() {
		core.SetPinMap(prev)
		core.ResetSimulation()
	})
	return &edges
}

func TestLoopbackAllModes(t *testing.T) {
	tx := []byte{0x00, 0xFF, 0xA5, 0x5A, 0x81, 0x3C}

	for mode := uint8(0); mode < 4; mode++ {
		edges := loopback(t)
		bus, err := New(Config{SCK: pinSCK, SDO: pinSDO, SDI: pinSDI, Mode: mode})
		if err != nil {
			t.Fatalf("mode %d: New failed: %v", mode, err)
		}
		*edges = 0

		rx := make([]byte, len(tx))
		if err := bus.Tx(tx, rx); err != nil {
			t.Fatalf("mode %d: Tx failed: %v", mode, err)
		}
		if !bytes.Equal(rx, tx) {
			t.Errorf("mode %d: loopback got %x, expected %x", mode, rx, tx)
		}
		if *edges != 16*len(tx) {
			t.Errorf("mode %d: expected %d clock edges, got %d", mode, 16*len(tx), *edges)
		}

		sck := pinmap.ATmega328P.ResolveUnchecked(pinSCK)
		if idle := core.OutputLevel(sck); idle != (mode&2 != 0) {
			t.Errorf("mode %d: clock idles %v", mode, idle)
		}
	}
}

func TestTransferSingleByte(t *testing.T) {
	loopback(t)
	bus, err := New(Config{SCK: pinSCK, SDO: pinSDO, SDI: pinSDI})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	got, err := bus.Transfer(0x42)
	if err != nil || got != 0x42 {
		t.Errorf("Transfer(0x42) = 0x%02x, %v", got, err)
	}
}

func TestWriteOnlyBus(t *testing.T) {
	loopback(t)
	bus, err := New(Config{SCK: pinSCK, SDO: pinSDO, SDI: pinmap.NoPin})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	rx := []byte{0xEE}
	if err := bus.Tx([]byte{0xFF}, rx); err != nil {
		t.Fatalf("Tx failed: %v", err)
	}
	if rx[0] != 0 {
		t.Errorf("Write-only bus read 0x%02x", rx[0])
	}
}

func TestTxNilBuffers(t *testing.T) {
	loopback(t)
	bus, err := New(Config{SCK: pinSCK, SDO: pinSDO, SDI: pinSDI})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := bus.Tx([]byte{1, 2, 3}, nil); err != nil {
		t.Errorf("Tx with nil rx failed: %v", err)
	}
	rx := make([]byte, 2)
	if err := bus.Tx(nil, rx); err != nil {
		t.Errorf("Tx with nil tx failed: %v", err)
	}
	if err := bus.Tx([]byte{1}, make([]byte, 2)); err != ErrLengthMismatch {
		t.Errorf("Expected ErrLengthMismatch, got %v", err)
	}
}

func TestNewErrors(t *testing.T) {
	loopback(t)

	if _, err := New(Config{SCK: pinSCK, SDO: pinSDO, SDI: pinSDI, Mode: 4}); err != ErrInvalidMode {
		t.Errorf("Expected ErrInvalidMode, got %v", err)
	}
	if _, err := New(Config{SCK: 99, SDO: pinSDO, SDI: pinSDI}); err == nil {
		t.Error("Expected error for out-of-range SCK")
	}
}

func TestDelayCalledPerHalfPeriod(t *testing.T) {
	loopback(t)
	calls := 0
	bus, err := New(Config{SCK: pinSCK, SDO: pinSDO, SDI: pinSDI, Delay: func() { calls++ }})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	bus.Transfer(0)
	if calls != 16 {
		t.Errorf("Expected 16 delays per byte, got %d", calls)
	}
}
