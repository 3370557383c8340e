package mcu

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"fasterpin/host/serial"
	"fasterpin/protocol"
)

var (
	ErrNotConnected = errors.New("not connected to MCU")
	ErrNoDictionary = errors.New("dictionary not loaded")
)

// Bootstrap IDs fixed by the protocol
const (
	identifyResponseID = 0
	identifyID         = 1
)

// MCU is a connection to the fasterpin firmware
type MCU struct {
	transport *protocol.HostTransport

	dictionary     *Dictionary
	dictionaryData []byte

	// Message IDs by name, from the dictionary
	commandIDs  map[string]uint16
	responseIDs map[string]uint16

	log       io.Writer
	timeout   time.Duration
	connected bool
}

// Dictionary is the parsed firmware data dictionary
type Dictionary struct {
	Version       string            `json:"version"`
	BuildVersions string            `json:"build_versions"`
	Config        map[string]string `json:"config"`
	Commands      map[string]int    `json:"commands"`
	Responses     map[string]int    `json:"responses"`
}

// PinState is the decoded fast_pin_state response
type PinState struct {
	OID   uint8
	Pin   int // logical index, -1 when bound to an unmapped identifier
	Value bool
}

// NewMCU creates an MCU instance (not yet connected)
func NewMCU() *MCU {
	return &MCU{
		log:     io.Discard,
		timeout: time.Second,
	}
}

// SetLogOutput sets where progress messages go; discarded by default
func (m *MCU) SetLogOutput(w io.Writer) {
	m.log = w
}

// SetResponseTimeout sets how long to wait for a response
func (m *MCU) SetResponseTimeout(d time.Duration) {
	m.timeout = d
}

// Connect opens the serial device with default settings
func (m *MCU) Connect(device string) error {
	return m.ConnectWithConfig(serial.DefaultConfig(device))
}

// ConnectWithConfig opens a serial port with a custom config
func (m *MCU) ConnectWithConfig(cfg *serial.Config) error {
	port, err := serial.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open serial port: %w", err)
	}

	m.ConnectPort(port)

	// Give the MCU time to come out of reset (USB-serial toggles DTR)
	time.Sleep(100 * time.Millisecond)
	return nil
}

// ConnectPort starts the transport on an already open stream
func (m *MCU) ConnectPort(port io.ReadWriteCloser) {
	m.transport = protocol.NewHostTransport(port)
	m.connected = true
}

// Close closes the connection to the MCU
func (m *MCU) Close() error {
	m.connected = false
	if m.transport != nil {
		return m.transport.Close()
	}
	return nil
}

// RetrieveDictionary reads the dictionary with identify and indexes its
// messages by name
func (m *MCU) RetrieveDictionary() error {
	if !m.connected {
		return ErrNotConnected
	}

	fmt.Fprintln(m.log, "Retrieving dictionary from MCU...")

	var dictBuffer bytes.Buffer
	offset := uint32(0)
	chunkSize := uint8(40)
	maxIterations := 1000 // Safety limit

	for i := 0; i < maxIterations; i++ {
		chunk, err := m.sendIdentify(offset, chunkSize)
		if err != nil {
			return fmt.Errorf("failed to retrieve dictionary chunk at offset %d: %w", offset, err)
		}
		if len(chunk) == 0 {
			break
		}

		dictBuffer.Write(chunk)
		offset += uint32(len(chunk))

		if len(chunk) < int(chunkSize) {
			break
		}
	}

	m.dictionaryData = dictBuffer.Bytes()
	fmt.Fprintf(m.log, "Dictionary retrieved: %d bytes\n", len(m.dictionaryData))

	if err := m.parseDictionary(); err != nil {
		return fmt.Errorf("failed to parse dictionary: %w", err)
	}
	return nil
}

// sendIdentify requests one dictionary chunk
func (m *MCU) sendIdentify(offset uint32, count uint8) ([]byte, error) {
	err := m.transport.SendCommand(identifyID, func(output protocol.OutputBuffer) {
		protocol.EncodeVLQUint(output, offset)
		protocol.EncodeVLQUint(output, uint32(count))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send identify command: %w", err)
	}

	payload, err := m.waitResponse(identifyResponseID)
	if err != nil {
		return nil, err
	}

	respOffset, err := protocol.DecodeVLQUint(&payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode response offset: %w", err)
	}
	if respOffset != offset {
		return nil, fmt.Errorf("offset mismatch: expected %d, got %d", offset, respOffset)
	}

	data, err := protocol.DecodeVLQBytes(&payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode response data: %w", err)
	}
	return data, nil
}

// waitResponse returns the arguments of the next response with the given
// ID, skipping unrelated ones
func (m *MCU) waitResponse(id uint16) ([]byte, error) {
	deadline := time.Now().Add(m.timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, fmt.Errorf("timeout waiting for response %d", id)
		}
		resp, err := m.transport.ReceiveResponse(remaining)
		if err != nil {
			return nil, err
		}

		payload := resp.Payload
		cmdID, err := protocol.DecodeVLQUint(&payload)
		if err != nil {
			return nil, fmt.Errorf("failed to decode response command ID: %w", err)
		}
		if uint16(cmdID) == id {
			return payload, nil
		}
	}
}

func (m *MCU) parseDictionary() error {
	dict := &Dictionary{}
	if err := json.Unmarshal(m.dictionaryData, dict); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	m.dictionary = dict
	m.commandIDs = indexByName(dict.Commands)
	m.responseIDs = indexByName(dict.Responses)
	return nil
}

// indexByName maps "name arg=%c ..." signatures to name -> ID
func indexByName(signatures map[string]int) map[string]uint16 {
	ids := make(map[string]uint16, len(signatures))
	for sig, id := range signatures {
		name := sig
		if i := strings.IndexByte(sig, ' '); i >= 0 {
			name = sig[:i]
		}
		ids[name] = uint16(id)
	}
	return ids
}

// GetDictionary returns the parsed dictionary
func (m *MCU) GetDictionary() *Dictionary {
	return m.dictionary
}

// GetDictionaryRaw returns the raw dictionary data
func (m *MCU) GetDictionaryRaw() []byte {
	return m.dictionaryData
}

// PinCount returns the firmware's PIN_COUNT constant
func (m *MCU) PinCount() (int, error) {
	if m.dictionary == nil {
		return 0, ErrNoDictionary
	}
	var n int
	if _, err := fmt.Sscan(m.dictionary.Config["PIN_COUNT"], &n); err != nil {
		return 0, fmt.Errorf("bad PIN_COUNT %q: %w", m.dictionary.Config["PIN_COUNT"], err)
	}
	return n, nil
}

// PrintDictionary writes a summary of the dictionary to w
func (m *MCU) PrintDictionary(w io.Writer) {
	if m.dictionary == nil {
		fmt.Fprintln(w, "No dictionary loaded")
		return
	}

	fmt.Fprintln(w, "=== MCU Dictionary ===")
	fmt.Fprintf(w, "Version: %s\n", m.dictionary.Version)
	fmt.Fprintf(w, "Build: %s\n", m.dictionary.BuildVersions)

	fmt.Fprintln(w, "Config:")
	for _, k := range sortedKeys(m.dictionary.Config) {
		fmt.Fprintf(w, "  %s = %s\n", k, m.dictionary.Config[k])
	}

	printMessages(w, "Commands", m.dictionary.Commands)
	printMessages(w, "Responses", m.dictionary.Responses)
}

func printMessages(w io.Writer, title string, msgs map[string]int) {
	sigs := make([]string, 0, len(msgs))
	for sig := range msgs {
		sigs = append(sigs, sig)
	}
	sort.Slice(sigs, func(i, j int) bool { return msgs[sigs[i]] < msgs[sigs[j]] })

	fmt.Fprintf(w, "%s (%d):\n", title, len(msgs))
	for _, sig := range sigs {
		fmt.Fprintf(w, "  [%d] %s\n", msgs[sig], sig)
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SendCommand sends a command by name
func (m *MCU) SendCommand(name string, args func(output protocol.OutputBuffer)) error {
	if !m.connected {
		return ErrNotConnected
	}
	if m.dictionary == nil {
		return ErrNoDictionary
	}

	cmdID, ok := m.commandIDs[name]
	if !ok {
		return fmt.Errorf("unknown command: %s", name)
	}
	return m.transport.SendCommand(cmdID, args)
}

// query sends a command and waits for the named response
func (m *MCU) query(cmd string, args func(output protocol.OutputBuffer), resp string) ([]byte, error) {
	if err := m.SendCommand(cmd, args); err != nil {
		return nil, err
	}
	respID, ok := m.responseIDs[resp]
	if !ok {
		return nil, fmt.Errorf("unknown response: %s", resp)
	}
	return m.waitResponse(respID)
}

// IsConnected returns whether the MCU is connected
func (m *MCU) IsConnected() bool {
	return m.connected
}
