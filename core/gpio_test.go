package core

import (
	"errors"
	"testing"

	"fasterpin/board"
	"fasterpin/pinmap"
	"fasterpin/protocol"
)

// setupFirmware installs a fresh command table, dictionary and transport
// and returns the transport's output
func setupFirmware(t *testing.T) *protocol.ScratchOutput {
	t.Helper()
	usePinMap(t, pinmap.ATmega328P)

	oldRegistry, oldDictionary := globalRegistry, globalDictionary
	oldTransport, oldDriver := globalTransport, gpioDriver
	globalRegistry = NewCommandRegistry()
	globalDictionary = NewDictionary(globalRegistry)
	gpioDriver = nil
	fastPins = make(map[uint8]*FastPin)

	out := protocol.NewScratchOutput()
	SetGlobalTransport(protocol.NewTransport(out, DispatchCommand))
	InitCoreCommands()

	t.Cleanup(func() {
		globalRegistry, globalDictionary = oldRegistry, oldDictionary
		globalTransport, gpioDriver = oldTransport, oldDriver
		fastPins = make(map[uint8]*FastPin)
	})
	return out
}

// runCommand dispatches a named command and returns the payload of the
// response it sent, or nil
func runCommand(t *testing.T, out *protocol.ScratchOutput, name string, args ...uint32) []byte {
	t.Helper()
	payload, err := tryCommand(out, name, args...)
	if err != nil {
		t.Fatalf("%s %v failed: %v", name, args, err)
	}
	return payload
}

func tryCommand(out *protocol.ScratchOutput, name string, args ...uint32) ([]byte, error) {
	cmd, ok := globalRegistry.GetCommandByName(name)
	if !ok {
		return nil, errors.New("not registered: " + name)
	}

	enc := protocol.NewScratchOutput()
	for _, a := range args {
		protocol.EncodeVLQUint(enc, a)
	}
	data := append([]byte(nil), enc.Result()...)

	out.Reset()
	if err := DispatchCommand(cmd.ID, &data); err != nil {
		return nil, err
	}

	// One block: len, seq, payload, crc16, sync
	block := out.Result()
	if len(block) == 0 {
		return nil, nil
	}
	return append([]byte(nil), block[2:int(block[0])-3]...), nil
}

func decodeAll(t *testing.T, payload []byte, n int) []int32 {
	t.Helper()
	vals := make([]int32, n)
	for i := range vals {
		v, err := protocol.DecodeVLQInt(&payload)
		if err != nil {
			t.Fatalf("decode arg %d: %v", i, err)
		}
		vals[i] = v
	}
	return vals
}

func TestConfigFastPinDrivesPin(t *testing.T) {
	out := setupFirmware(t)
	led := pinmap.ATmega328P.ResolveUnchecked(13)

	runCommand(t, out, "config_fast_pin", 3, 13)
	runCommand(t, out, "set_fast_pin_mode", 3, 1)
	if !IsOutput(led) {
		t.Fatal("Pin 13 not configured as output")
	}

	runCommand(t, out, "update_fast_pin", 3, 1)
	if !OutputLevel(led) {
		t.Error("Pin 13 not driven high")
	}
	runCommand(t, out, "toggle_fast_pin", 3)
	if OutputLevel(led) {
		t.Error("Pin 13 not toggled low")
	}

	resp := decodeAll(t, runCommand(t, out, "query_fast_pin", 3), 4)
	stateID, _ := globalRegistry.GetCommandByName("fast_pin_state")
	if resp[0] != int32(stateID.ID) || resp[1] != 3 || resp[2] != 13 || resp[3] != 0 {
		t.Errorf("Unexpected fast_pin_state %v", resp)
	}
}

func TestConfigFastPinBadPin(t *testing.T) {
	out := setupFirmware(t)

	_, err := tryCommand(out, "config_fast_pin", 1, 20)
	var rangeErr *pinmap.RangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("Expected RangeError, got %v", err)
	}
	if _, ok := GetFastPin(1); ok {
		t.Error("Failed bind must not configure the oid")
	}
}

func TestUnknownOID(t *testing.T) {
	out := setupFirmware(t)

	for _, name := range []string{"toggle_fast_pin", "query_fast_pin"} {
		if _, err := tryCommand(out, name, 9); !errors.Is(err, ErrUnknownOID) {
			t.Errorf("%s: expected ErrUnknownOID, got %v", name, err)
		}
	}
	if _, err := tryCommand(out, "update_fast_pin", 9, 1); !errors.Is(err, ErrUnknownOID) {
		t.Errorf("update_fast_pin: expected ErrUnknownOID, got %v", err)
	}
}

func TestConfigFastPinID(t *testing.T) {
	out := setupFirmware(t)

	// PB5 is logical pin 13 on the 328P
	pb5 := board.New(board.PINB, 5)
	runCommand(t, out, "config_fast_pin_id", 0, uint32(pb5))
	resp := decodeAll(t, runCommand(t, out, "query_fast_pin", 0), 4)
	if resp[2] != 13 {
		t.Errorf("Expected logical pin 13, got %d", resp[2])
	}

	// PB6 is on port B but has no logical index: it still drives but
	// reports NoPin
	pb6 := board.New(board.PINB, 6)
	runCommand(t, out, "config_fast_pin_id", 1, uint32(pb6))
	runCommand(t, out, "set_fast_pin_mode", 1, 1)
	runCommand(t, out, "update_fast_pin", 1, 1)
	if !OutputLevel(pb6) {
		t.Error("Unmapped identifier was not driven")
	}
	resp = decodeAll(t, runCommand(t, out, "query_fast_pin", 1), 4)
	if resp[2] != pinmap.NoPin {
		t.Errorf("Expected NoPin, got %d", resp[2])
	}
}

func TestConfigFastPinIDBadPort(t *testing.T) {
	out := setupFirmware(t)
	pb5 := board.New(board.PINB, 5)
	runCommand(t, out, "config_fast_pin_id", 0, uint32(pb5))

	for _, id := range []uint32{0xfff0, uint32(board.New(0x5d, 0)), 0x10000 | uint32(pb5)} {
		if _, err := tryCommand(out, "config_fast_pin_id", 0, id); !errors.Is(err, ErrUnknownPort) {
			t.Errorf("id 0x%x: expected ErrUnknownPort, got %v", id, err)
		}
	}
	if _, err := tryCommand(out, "config_fast_pin_id", 1, 0xfff0); !errors.Is(err, ErrUnknownPort) {
		t.Errorf("Expected ErrUnknownPort, got %v", err)
	}
	if _, ok := GetFastPin(1); ok {
		t.Error("Failed bind must not configure the oid")
	}

	// oid 0 keeps its binding and the stack pointer group is untouched
	runCommand(t, out, "set_fast_pin_mode", 0, 1)
	if !IsOutput(pb5) {
		t.Error("oid 0 lost its binding")
	}
	if dataSpace[0x5e] != 0 {
		t.Errorf("SPH slot written: 0x%x", dataSpace[0x5e])
	}
}

func TestConfigFastPinWideIndex(t *testing.T) {
	out := setupFirmware(t)

	_, err := tryCommand(out, "config_fast_pin", 1, 0x10005)
	var rangeErr *pinmap.RangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("Expected RangeError, got %v", err)
	}
	if _, ok := GetFastPin(1); ok {
		t.Error("Failed bind must not configure the oid")
	}
	if _, err := tryCommand(out, "set_pin", 0x10005, 1); !errors.As(err, &rangeErr) {
		t.Errorf("set_pin: expected RangeError, got %v", err)
	}
}

func TestQueryFastPinInput(t *testing.T) {
	out := setupFirmware(t)

	runCommand(t, out, "config_fast_pin", 0, 2)
	runCommand(t, out, "set_fast_pin_mode", 0, 0)
	DriveInput(pinmap.ATmega328P.ResolveUnchecked(2), true)

	resp := decodeAll(t, runCommand(t, out, "query_fast_pin", 0), 4)
	if resp[3] != 1 {
		t.Errorf("Expected input level 1, got %d", resp[3])
	}
}

func TestConfigResetReleasesPins(t *testing.T) {
	out := setupFirmware(t)
	id := pinmap.ATmega328P.ResolveUnchecked(7)

	runCommand(t, out, "config_fast_pin", 0, 7)
	runCommand(t, out, "set_fast_pin_mode", 0, 1)
	runCommand(t, out, "update_fast_pin", 0, 1)
	runCommand(t, out, "config_reset")

	if IsOutput(id) || OutputLevel(id) {
		t.Error("config_reset must leave the pin as a floating input")
	}
	if _, ok := GetFastPin(0); ok {
		t.Error("config_reset must forget oids")
	}
}

func TestSetPinGetPin(t *testing.T) {
	out := setupFirmware(t)
	id := pinmap.ATmega328P.ResolveUnchecked(5)

	runCommand(t, out, "set_pin", 5, 1)
	if !IsOutput(id) || !OutputLevel(id) {
		t.Fatal("set_pin did not drive pin 5 high")
	}

	resp := decodeAll(t, runCommand(t, out, "get_pin", 5), 3)
	if resp[1] != 5 || resp[2] != 1 {
		t.Errorf("Unexpected pin_value %v", resp)
	}

	if _, err := tryCommand(out, "get_pin", 40); err == nil {
		t.Error("Expected error for out-of-range pin")
	}
}

func TestFastGPIODriver(t *testing.T) {
	usePinMap(t, pinmap.ATmega328P)
	d := NewFastGPIODriver()

	if err := d.ConfigureOutput(9); err != nil {
		t.Fatalf("ConfigureOutput failed: %v", err)
	}
	if err := d.SetPin(9, true); err != nil {
		t.Fatalf("SetPin failed: %v", err)
	}
	if v, err := d.GetPin(9); err != nil || !v {
		t.Errorf("GetPin = %v, %v", v, err)
	}
	if err := d.TogglePin(9); err != nil {
		t.Fatalf("TogglePin failed: %v", err)
	}
	if v, _ := d.GetPin(9); v {
		t.Error("Expected low after toggle")
	}

	if err := d.SetPin(99, true); err == nil {
		t.Error("Expected error for out-of-range pin")
	}
}
