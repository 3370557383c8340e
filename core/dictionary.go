package core

import (
	"sync"

	"fasterpin/protocol"
)

// Dictionary is the JSON data dictionary the host reads with identify
type Dictionary struct {
	mu            sync.RWMutex
	constants     map[string]string
	commandReg    *CommandRegistry
	version       string
	buildVersions string
	cached        []byte
}

var globalDictionary = NewDictionary(globalRegistry)

func NewDictionary(cmdReg *CommandRegistry) *Dictionary {
	return &Dictionary{
		constants:     make(map[string]string),
		commandReg:    cmdReg,
		version:       protocol.Version,
		buildVersions: "go-tinygo",
	}
}

// RegisterConstant adds a constant to the global dictionary
func RegisterConstant(name string, value interface{}) {
	globalDictionary.AddConstant(name, value)
}

// AddConstant stores value in its string form. Constants are always
// emitted as JSON strings.
func (d *Dictionary) AddConstant(name string, value interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.constants[name] = valueToString(value)
	d.cached = nil
}

func (d *Dictionary) SetVersion(version string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.version = version
	d.cached = nil
}

func (d *Dictionary) SetBuildVersions(versions string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buildVersions = versions
	d.cached = nil
}

// BuildDictionary renders and caches the dictionary. Call it after all
// commands are registered; commands added later are only picked up by
// another call.
func (d *Dictionary) BuildDictionary() {
	// Fetch the table before taking our own lock
	commands := d.commandReg.Commands()

	d.mu.Lock()
	defer d.mu.Unlock()
	d.cached = d.buildJSONLocked(commands)
	DebugPrintln("[dict] " + itoa(len(commands)) + " messages, " + itoa(len(d.cached)) + " bytes")
}

// Generate returns the cached dictionary, rendering it on first use
func (d *Dictionary) Generate() []byte {
	d.mu.RLock()
	cached := d.cached
	d.mu.RUnlock()
	if cached != nil {
		return cached
	}
	d.BuildDictionary()

	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cached
}

// buildJSONLocked renders the dictionary without encoding/json. Caller holds
// d.mu.
func (d *Dictionary) buildJSONLocked(commands []*Command) []byte {
	result := make([]byte, 0, 1024)

	result = append(result, `{"version":`...)
	result = appendQuoted(result, d.version)
	result = append(result, `,"build_versions":`...)
	result = appendQuoted(result, d.buildVersions)
	result = append(result, `,"config":{`...)

	names := make([]string, 0, len(d.constants))
	for name := range d.constants {
		names = append(names, name)
	}
	sortStrings(names)
	for i, name := range names {
		if i > 0 {
			result = append(result, ',')
		}
		result = appendQuoted(result, name)
		result = append(result, ':')
		result = appendQuoted(result, d.constants[name])
	}

	result = append(result, `},"commands":{`...)
	result = appendMessages(result, commands, true)
	result = append(result, `},"responses":{`...)
	result = appendMessages(result, commands, false)
	result = append(result, "}}"...)
	return result
}

// appendMessages writes "signature":id pairs in ID order, selecting
// commands (with a handler) or responses (without)
func appendMessages(result []byte, commands []*Command, handlers bool) []byte {
	first := true
	for _, cmd := range commands {
		if (cmd.Handler != nil) != handlers {
			continue
		}
		if !first {
			result = append(result, ',')
		}
		result = appendQuoted(result, cmd.Signature())
		result = append(result, ':')
		result = append(result, itoa(int(cmd.ID))...)
		first = false
	}
	return result
}

func appendQuoted(result []byte, s string) []byte {
	result = append(result, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' {
			result = append(result, '\\')
		}
		result = append(result, c)
	}
	return append(result, '"')
}

// sortStrings is an insertion sort; the constant list is a handful of names
func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// GetChunk returns a copy of up to count bytes starting at offset. Past the
// end it returns an empty chunk, which ends the host's identify loop.
func (d *Dictionary) GetChunk(offset uint32, count uint8) []byte {
	data := d.Generate()
	if offset >= uint32(len(data)) {
		return []byte{}
	}

	end := offset + uint32(count)
	if end > uint32(len(data)) {
		end = uint32(len(data))
	}

	chunk := make([]byte, end-offset)
	copy(chunk, data[offset:end])
	return chunk
}

func GetGlobalDictionary() *Dictionary {
	return globalDictionary
}
