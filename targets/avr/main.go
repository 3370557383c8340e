//go:build tinygo && avr

package main

import (
	"machine"

	"fasterpin/core"
)

const baudRate = 250000

func main() {
	uart := machine.DefaultUART
	uart.Configure(machine.UARTConfig{BaudRate: baudRate})

	// Debug lines share the protocol UART; they stay off unless enabled
	core.SetDebugWriter(func(s string) {
		uart.Write([]byte(s))
		uart.Write([]byte("\r\n"))
	})

	fw := core.NewFirmware(uart)

	buf := make([]byte, 32)
	for {
		// Read returns what the RX interrupt has buffered so far
		n, _ := uart.Read(buf)
		if n > 0 {
			fw.Feed(buf[:n])
		}
	}
}
