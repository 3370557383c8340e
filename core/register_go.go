//go:build !(tinygo && avr)

package core

import (
	"unsafe"

	"fasterpin/board"
)

// atomicWindow models sbi/cbi: updates to groups inside the I/O window
// complete in one step on the simulated bus.
const atomicWindow = true

// dataSpace simulates the chip's data memory. For each port group the PINx
// byte holds the level driven from outside, DDRx and PORTx hold what the
// firmware wrote.
var dataSpace [board.DataSpaceSize]uint8

var (
	interruptHook   func()
	writeHook       func(group uintptr)
	unguardedWrites int
)

type portRegisters struct {
	pin  uint8
	ddr  uint8
	port uint8
}

func portAt(group uintptr) *portRegisters {
	return (*portRegisters)(unsafe.Pointer(&dataSpace[group]))
}

func (r *portRegisters) group() uintptr {
	return uintptr(unsafe.Pointer(r)) - uintptr(unsafe.Pointer(&dataSpace[0]))
}

// level returns the driven level for outputs and the external level for inputs
func (r *portRegisters) level(mask uint8) bool {
	return ((r.port&r.ddr)|(r.pin&^r.ddr))&mask != 0
}

func (r *portRegisters) orDDR(mask uint8)   { r.update(&r.ddr, mask, 0xff) }
func (r *portRegisters) andDDR(keep uint8)  { r.update(&r.ddr, 0, keep) }
func (r *portRegisters) orPORT(mask uint8)  { r.update(&r.port, mask, 0xff) }
func (r *portRegisters) andPORT(keep uint8) { r.update(&r.port, 0, keep) }

// togglePORT models a store to PINx, which flips PORTx bits in hardware
func (r *portRegisters) togglePORT(mask uint8) {
	r.port ^= mask
	r.notify()
}

// update is a load/modify/store. Outside the I/O window an enabled interrupt
// can run between the load and the store.
func (r *portRegisters) update(reg *uint8, or, and uint8) {
	if board.IsAtomic(r.group()) {
		*reg = (*reg | or) & and
		r.notify()
		return
	}

	v := *reg
	if irqEnabled {
		unguardedWrites++
		if interruptHook != nil {
			irqEnabled = false
			interruptHook()
			irqEnabled = true
		}
	}
	*reg = (v | or) & and
	r.notify()
}

func (r *portRegisters) notify() {
	if writeHook != nil {
		writeHook(r.group())
	}
}

// ResetSimulation clears the simulated data space and hooks and enables
// interrupts
func ResetSimulation() {
	dataSpace = [board.DataSpaceSize]uint8{}
	interruptHook = nil
	writeHook = nil
	unguardedWrites = 0
	irqEnabled = true
}

// DriveInput sets the level an external circuit applies to a pin
func DriveInput(id board.Pin, level bool) {
	r := portAt(id.Reg())
	if level {
		r.pin |= id.Mask()
	} else {
		r.pin &^= id.Mask()
	}
}

// OutputLevel returns the pin's PORTx bit
func OutputLevel(id board.Pin) bool {
	return portAt(id.Reg()).port&id.Mask() != 0
}

// IsOutput returns the pin's DDRx bit
func IsOutput(id board.Pin) bool {
	return portAt(id.Reg()).ddr&id.Mask() != 0
}

// OnInterrupt installs a simulated ISR. It runs, with interrupts disabled,
// inside every read-modify-write that is split while interrupts are enabled.
func OnInterrupt(fn func()) {
	interruptHook = fn
}

// OnPortWrite installs a callback run after every store to a port group
func OnPortWrite(fn func(group uintptr)) {
	writeHook = fn
}

// UnguardedWrites counts split read-modify-writes done with interrupts enabled
func UnguardedWrites() int {
	return unguardedWrites
}
