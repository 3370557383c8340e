// Runtime pin command table
// Pins are bound to object IDs by the host and then driven without any
// further table lookup.
package core

import (
	"errors"

	"fasterpin/board"
	"fasterpin/protocol"
)

var ErrUnknownOID = errors.New("fast pin oid not configured")

// Configured fast pins by object ID
var fastPins = make(map[uint8]*FastPin)

// InitGPIOCommands registers the fast pin commands. Without a target driver
// the one-shot commands use FastGPIODriver.
func InitGPIOCommands() {
	if gpioDriver == nil {
		SetGPIODriver(NewFastGPIODriver())
	}

	RegisterCommand("config_fast_pin", "oid=%c pin=%c", handleConfigFastPin)
	RegisterCommand("config_fast_pin_id", "oid=%c id=%hu", handleConfigFastPinID)
	RegisterCommand("set_fast_pin_mode", "oid=%c output=%c", handleSetFastPinMode)
	RegisterCommand("update_fast_pin", "oid=%c value=%c", handleUpdateFastPin)
	RegisterCommand("toggle_fast_pin", "oid=%c", handleToggleFastPin)
	RegisterCommand("query_fast_pin", "oid=%c", handleQueryFastPin)
	RegisterResponse("fast_pin_state", "oid=%c pin=%i value=%c")

	RegisterCommand("set_pin", "pin=%c value=%c", handleSetPin)
	RegisterCommand("get_pin", "pin=%c", handleGetPin)
	RegisterResponse("pin_value", "pin=%c value=%c")
}

// GetFastPin returns the pin configured for oid
func GetFastPin(oid uint8) (*FastPin, bool) {
	p, ok := fastPins[oid]
	return p, ok
}

// ResetFastPins returns every configured pin to a floating input and
// forgets all oids
func ResetFastPins() {
	for oid, p := range fastPins {
		p.Input()
		p.Low()
		delete(fastPins, oid)
	}
}

// decodeArgs reads n VLQ arguments
func decodeArgs(data *[]byte, n int) ([4]uint32, error) {
	var args [4]uint32
	for i := 0; i < n; i++ {
		v, err := protocol.DecodeVLQUint(data)
		if err != nil {
			return args, err
		}
		args[i] = v
	}
	return args, nil
}

// lookupOID decodes the leading oid argument and finds its pin
func lookupOID(data *[]byte) (uint8, *FastPin, error) {
	v, err := protocol.DecodeVLQUint(data)
	if err != nil {
		return 0, nil, err
	}
	oid := uint8(v)
	p, ok := fastPins[oid]
	if !ok {
		DebugPrintln("[gpio] unknown oid " + itoa(int(oid)))
		return oid, nil, ErrUnknownOID
	}
	return oid, p, nil
}

// Format: config_fast_pin oid=%c pin=%c
func handleConfigFastPin(data *[]byte) error {
	args, err := decodeArgs(data, 2)
	if err != nil {
		return err
	}

	p := &FastPin{}
	if err := p.SetPinWire(args[1]); err != nil {
		return err
	}
	fastPins[uint8(args[0])] = p
	return nil
}

// Format: config_fast_pin_id oid=%c id=%hu
func handleConfigFastPinID(data *[]byte) error {
	args, err := decodeArgs(data, 2)
	if err != nil {
		return err
	}

	if args[1] > 0xffff {
		return ErrUnknownPort
	}
	p, err := NewFastPinID(board.Pin(args[1]))
	if err != nil {
		DebugPrintln("[gpio] oid " + itoa(int(args[0])) + " rejected " + board.Pin(args[1]).String())
		return err
	}
	if p.Pin() < 0 {
		DebugPrintln("[gpio] oid " + itoa(int(args[0])) + " bound to unmapped " + p.ID().String())
	}
	fastPins[uint8(args[0])] = p
	return nil
}

// Format: set_fast_pin_mode oid=%c output=%c
func handleSetFastPinMode(data *[]byte) error {
	_, p, err := lookupOID(data)
	if err != nil {
		return err
	}
	output, err := protocol.DecodeVLQUint(data)
	if err != nil {
		return err
	}

	if output != 0 {
		p.Output()
	} else {
		p.Input()
	}
	return nil
}

// Format: update_fast_pin oid=%c value=%c
func handleUpdateFastPin(data *[]byte) error {
	_, p, err := lookupOID(data)
	if err != nil {
		return err
	}
	value, err := protocol.DecodeVLQUint(data)
	if err != nil {
		return err
	}

	p.Write(value != 0)
	return nil
}

// Format: toggle_fast_pin oid=%c
func handleToggleFastPin(data *[]byte) error {
	_, p, err := lookupOID(data)
	if err != nil {
		return err
	}
	p.Toggle()
	return nil
}

// Format: query_fast_pin oid=%c
// Response: fast_pin_state oid=%c pin=%i value=%c
func handleQueryFastPin(data *[]byte) error {
	oid, p, err := lookupOID(data)
	if err != nil {
		return err
	}

	level := p.Read()
	return SendResponse("fast_pin_state", func(output protocol.OutputBuffer) {
		protocol.EncodeVLQUint(output, uint32(oid))
		protocol.EncodeVLQInt(output, int32(p.Pin()))
		protocol.EncodeVLQUint(output, boolToUint(level))
	})
}

// Format: set_pin pin=%c value=%c
// Configures the pin as an output and drives it.
func handleSetPin(data *[]byte) error {
	args, err := decodeArgs(data, 2)
	if err != nil {
		return err
	}

	pin := GPIOPin(args[0])
	gpio := MustGPIO()
	// Latch the level before enabling the driver
	if err := gpio.SetPin(pin, args[1] != 0); err != nil {
		return err
	}
	return gpio.ConfigureOutput(pin)
}

// Format: get_pin pin=%c
// Response: pin_value pin=%c value=%c
func handleGetPin(data *[]byte) error {
	args, err := decodeArgs(data, 1)
	if err != nil {
		return err
	}

	level, err := MustGPIO().GetPin(GPIOPin(args[0]))
	if err != nil {
		return err
	}
	return SendResponse("pin_value", func(output protocol.OutputBuffer) {
		protocol.EncodeVLQUint(output, args[0])
		protocol.EncodeVLQUint(output, boolToUint(level))
	})
}

func boolToUint(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
