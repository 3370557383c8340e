package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"fasterpin/host/serial"
)

// PinConfig names one logical pin
type PinConfig struct {
	Pin     int  `json:"pin"`
	Output  bool `json:"output"`
	Initial bool `json:"initial"` // level latched before an output is enabled
}

// HostConfig is the host tool's JSON configuration
type HostConfig struct {
	Device      string               `json:"device"`
	Baud        int                  `json:"baud"`
	ReadTimeout int                  `json:"read_timeout_ms"`
	Pins        map[string]PinConfig `json:"pins"`
}

// LoadConfig parses a JSON configuration and applies defaults
func LoadConfig(jsonData []byte) (*HostConfig, error) {
	var config HostConfig

	if err := json.Unmarshal(jsonData, &config); err != nil {
		return nil, err
	}

	applyDefaults(&config)

	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadFile reads and parses a configuration file
func LoadFile(path string) (*HostConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	config, err := LoadConfig(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return config, nil
}

// applyDefaults fills in missing values from the serial defaults
func applyDefaults(config *HostConfig) {
	def := serial.DefaultConfig("/dev/ttyUSB0")
	if config.Device == "" {
		config.Device = def.Device
	}
	if config.Baud == 0 {
		config.Baud = def.Baud
	}
	if config.ReadTimeout == 0 {
		config.ReadTimeout = def.ReadTimeout
	}
	if config.Pins == nil {
		config.Pins = make(map[string]PinConfig)
	}
}

func (c *HostConfig) validate() error {
	if c.Baud < 0 {
		return fmt.Errorf("invalid baud rate %d", c.Baud)
	}
	for name, p := range c.Pins {
		if p.Pin < 0 {
			return fmt.Errorf("pin %q: negative logical index %d", name, p.Pin)
		}
	}
	return nil
}

// Serial returns the serial port settings
func (c *HostConfig) Serial() *serial.Config {
	return &serial.Config{
		Device:      c.Device,
		Baud:        c.Baud,
		ReadTimeout: c.ReadTimeout,
	}
}

// Resolve turns a pin name from the config, or a plain decimal index, into
// a logical pin index
func (c *HostConfig) Resolve(name string) (int, error) {
	if p, ok := c.Pins[name]; ok {
		return p.Pin, nil
	}
	n, err := strconv.Atoi(name)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("unknown pin %q", name)
	}
	return n, nil
}

// PinNames returns the configured names in sorted order
func (c *HostConfig) PinNames() []string {
	names := make([]string, 0, len(c.Pins))
	for name := range c.Pins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
