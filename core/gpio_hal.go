package core

import "sync"

// GPIOPin is a logical pin index into the active pin map
type GPIOPin uint32

// GPIODriver is the one-shot pin interface used by set_pin/get_pin.
// Targets may install their own; the default drives pins through FastPin.
type GPIODriver interface {
	ConfigureOutput(pin GPIOPin) error
	ConfigureInput(pin GPIOPin) error

	// SetPin drives an output pin high (true) or low (false)
	SetPin(pin GPIOPin, value bool) error

	// GetPin reads the pin level
	GetPin(pin GPIOPin) (bool, error)

	TogglePin(pin GPIOPin) error
}

// FastGPIODriver resolves the pin on every call by rebinding one scratch
// FastPin. Use a configured fast pin oid when the same pin is hit often.
type FastGPIODriver struct {
	mu      sync.Mutex
	scratch FastPin
}

func NewFastGPIODriver() *FastGPIODriver {
	return &FastGPIODriver{}
}

// with binds the scratch pin and runs fn. A bad index leaves the scratch
// pin as it was and returns the range error.
func (d *FastGPIODriver) with(pin GPIOPin, fn func(p *FastPin)) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.scratch.SetPinWire(uint32(pin)); err != nil {
		return err
	}
	fn(&d.scratch)
	return nil
}

func (d *FastGPIODriver) ConfigureOutput(pin GPIOPin) error {
	return d.with(pin, (*FastPin).Output)
}

func (d *FastGPIODriver) ConfigureInput(pin GPIOPin) error {
	return d.with(pin, (*FastPin).Input)
}

func (d *FastGPIODriver) SetPin(pin GPIOPin, value bool) error {
	return d.with(pin, func(p *FastPin) { p.Write(value) })
}

func (d *FastGPIODriver) GetPin(pin GPIOPin) (bool, error) {
	var level bool
	err := d.with(pin, func(p *FastPin) { level = p.Read() })
	return level, err
}

func (d *FastGPIODriver) TogglePin(pin GPIOPin) error {
	return d.with(pin, (*FastPin).Toggle)
}

// Global singleton used by core code.
var gpioDriver GPIODriver

// SetGPIODriver is called by target-specific code to register its driver.
func SetGPIODriver(d GPIODriver) {
	gpioDriver = d
}

// MustGPIO returns the configured driver or panics if missing.
func MustGPIO() GPIODriver {
	if gpioDriver == nil {
		panic("GPIO driver not configured")
	}
	return gpioDriver
}
