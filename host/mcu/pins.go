package mcu

import (
	"fmt"

	"fasterpin/protocol"
)

func encodeArgs(args ...uint32) func(output protocol.OutputBuffer) {
	return func(output protocol.OutputBuffer) {
		for _, a := range args {
			protocol.EncodeVLQUint(output, a)
		}
	}
}

func boolArg(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// BindPin binds object id oid to a logical pin. When the dictionary carries
// PIN_COUNT the index is checked against it, since the firmware reports a
// failed bind only on its debug output.
func (m *MCU) BindPin(oid uint8, pin int) error {
	limit := 0x100
	if m.dictionary != nil {
		if _, ok := m.dictionary.Config["PIN_COUNT"]; ok {
			n, err := m.PinCount()
			if err != nil {
				return err
			}
			limit = n
		}
	}
	if pin < 0 || pin >= limit {
		return fmt.Errorf("logical pin %d out of range [0, %d)", pin, limit)
	}
	return m.SendCommand("config_fast_pin", encodeArgs(uint32(oid), uint32(pin)))
}

// BindPinID binds oid to a chip pin identifier
func (m *MCU) BindPinID(oid uint8, id uint16) error {
	return m.SendCommand("config_fast_pin_id", encodeArgs(uint32(oid), uint32(id)))
}

// SetMode makes the pin an output or an input
func (m *MCU) SetMode(oid uint8, output bool) error {
	return m.SendCommand("set_fast_pin_mode", encodeArgs(uint32(oid), boolArg(output)))
}

// Write drives the pin level
func (m *MCU) Write(oid uint8, value bool) error {
	return m.SendCommand("update_fast_pin", encodeArgs(uint32(oid), boolArg(value)))
}

func (m *MCU) Toggle(oid uint8) error {
	return m.SendCommand("toggle_fast_pin", encodeArgs(uint32(oid)))
}

// Query reads back a bound pin
func (m *MCU) Query(oid uint8) (PinState, error) {
	payload, err := m.query("query_fast_pin", encodeArgs(uint32(oid)), "fast_pin_state")
	if err != nil {
		return PinState{}, err
	}

	respOID, err := protocol.DecodeVLQUint(&payload)
	if err != nil {
		return PinState{}, err
	}
	pin, err := protocol.DecodeVLQInt(&payload)
	if err != nil {
		return PinState{}, err
	}
	value, err := protocol.DecodeVLQUint(&payload)
	if err != nil {
		return PinState{}, err
	}
	if uint8(respOID) != oid {
		return PinState{}, fmt.Errorf("fast_pin_state for oid %d, expected %d", respOID, oid)
	}
	return PinState{OID: oid, Pin: int(pin), Value: value != 0}, nil
}

// SetPin drives a logical pin as an output without binding an oid
func (m *MCU) SetPin(pin int, value bool) error {
	return m.SendCommand("set_pin", encodeArgs(uint32(pin), boolArg(value)))
}

// GetPin reads a logical pin without binding an oid
func (m *MCU) GetPin(pin int) (bool, error) {
	payload, err := m.query("get_pin", encodeArgs(uint32(pin)), "pin_value")
	if err != nil {
		return false, err
	}

	if _, err := protocol.DecodeVLQUint(&payload); err != nil {
		return false, err
	}
	value, err := protocol.DecodeVLQUint(&payload)
	if err != nil {
		return false, err
	}
	return value != 0, nil
}

// Reset releases every bound pin on the firmware
func (m *MCU) Reset() error {
	return m.SendCommand("config_reset", nil)
}
