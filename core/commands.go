package core

import (
	"errors"

	"fasterpin/protocol"
)

// InitCoreCommands registers the protocol commands and the pin command table.
//
// Registration order matters: the host bootstraps with a fixed dictionary
// where identify_response is ID 0 and identify is ID 1.
func InitCoreCommands() {
	RegisterResponse("identify_response", "offset=%u data=%*s") // ID 0
	RegisterCommand("identify", "offset=%u count=%c", handleIdentify) // ID 1

	RegisterCommand("config_reset", "", handleConfigReset)

	InitGPIOCommands()

	RegisterConstant("MCU", PinMap().Name())
	RegisterConstant("PIN_COUNT", PinMap().Len())
}

// handleIdentify returns one chunk of the data dictionary
func handleIdentify(data *[]byte) error {
	offset, err := protocol.DecodeVLQUint(data)
	if err != nil {
		return err
	}
	count, err := protocol.DecodeVLQUint(data)
	if err != nil {
		return err
	}

	chunk := GetGlobalDictionary().GetChunk(offset, uint8(count))
	return SendResponse("identify_response", func(output protocol.OutputBuffer) {
		protocol.EncodeVLQUint(output, offset)
		protocol.EncodeVLQBytes(output, chunk)
	})
}

// handleConfigReset releases every configured fast pin
func handleConfigReset(_ *[]byte) error {
	ResetFastPins()
	return nil
}

// Global transport for sending responses (set by main)
var globalTransport *protocol.Transport

// SetGlobalTransport sets the transport used by SendResponse
func SetGlobalTransport(transport *protocol.Transport) {
	globalTransport = transport
}

// SendResponse encodes a registered response on the global transport.
// Without a transport the response is dropped.
func SendResponse(responseName string, args func(output protocol.OutputBuffer)) error {
	cmd, ok := globalRegistry.GetCommandByName(responseName)
	if !ok || cmd.Handler != nil {
		return errors.New("response not registered: " + responseName)
	}
	if globalTransport == nil {
		return nil
	}
	globalTransport.SendCommand(cmd.ID, args)
	return nil
}
