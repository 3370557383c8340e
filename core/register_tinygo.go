//go:build tinygo && avr

package core

import (
	"runtime/volatile"
	"unsafe"
)

// atomicWindow is false: the group address is only known at run time, so
// the compiler emits ld/or/st rather than sbi/cbi and every update needs a
// critical section.
const atomicWindow = false

// portRegisters overlays one port's PINx, DDRx and PORTx registers
type portRegisters struct {
	pin  volatile.Register8
	ddr  volatile.Register8
	port volatile.Register8
}

func portAt(group uintptr) *portRegisters {
	return (*portRegisters)(unsafe.Pointer(group))
}

func (r *portRegisters) level(mask uint8) bool {
	return r.pin.HasBits(mask)
}

func (r *portRegisters) orDDR(mask uint8) {
	r.ddr.Set(r.ddr.Get() | mask)
}

func (r *portRegisters) andDDR(keep uint8) {
	r.ddr.Set(r.ddr.Get() & keep)
}

func (r *portRegisters) orPORT(mask uint8) {
	r.port.Set(r.port.Get() | mask)
}

func (r *portRegisters) andPORT(keep uint8) {
	r.port.Set(r.port.Get() & keep)
}

// togglePORT writes the mask to PINx; the hardware flips the matching PORTx
// bits in the same store.
func (r *portRegisters) togglePORT(mask uint8) {
	r.pin.Set(mask)
}
