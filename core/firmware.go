package core

import (
	"io"

	"fasterpin/protocol"
)

// Firmware wires the command table to a byte stream: input is framed and
// dispatched, responses and ACKs are written back in order.
type Firmware struct {
	input     *protocol.FifoBuffer
	output    *protocol.ScratchOutput
	transport *protocol.Transport
	w         io.Writer
	writeErr  error
}

// NewFirmware registers the command table, builds the dictionary and
// installs the transport used by SendResponse. Responses go to w.
func NewFirmware(w io.Writer) *Firmware {
	InitCoreCommands()
	GetGlobalDictionary().BuildDictionary()

	f := &Firmware{
		input:  protocol.NewFifoBuffer(256),
		output: protocol.NewScratchOutput(),
		w:      w,
	}
	f.transport = protocol.NewTransport(f.output, DispatchCommand)
	f.transport.SetResetCallback(func() {
		f.output.Reset()
		ResetFastPins()
	})
	// The host waits for the ACK before reading responses
	f.transport.SetFlushCallback(f.flush)
	f.transport.SetErrorCallback(ReportError)
	SetGlobalTransport(f.transport)
	return f
}

func (f *Firmware) flush() {
	res := f.output.Result()
	if len(res) == 0 {
		return
	}
	if _, err := f.w.Write(res); err != nil && f.writeErr == nil {
		f.writeErr = err
	}
	f.output.Reset()
}

// Feed queues received bytes and processes every complete block. It
// returns the first write error seen since the last call.
func (f *Firmware) Feed(data []byte) error {
	for len(data) > 0 {
		n := f.input.Write(data)
		data = data[n:]
		if f.poll() == 0 && n == 0 {
			// Full buffer without a complete block: drop the stale bytes
			f.input.Reset()
		}
	}
	err := f.writeErr
	f.writeErr = nil
	return err
}

// poll processes the complete blocks buffered so far and returns the
// number of bytes consumed
func (f *Firmware) poll() int {
	if f.input.Available() == 0 {
		return 0
	}
	in := protocol.NewSliceInputBuffer(f.input.Data())
	before := in.Available()
	f.transport.Receive(in)
	consumed := before - in.Available()
	f.input.Pop(consumed)
	f.flush()
	return consumed
}

// Serve feeds everything read from r until it returns an error
func (f *Firmware) Serve(r io.Reader) error {
	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if werr := f.Feed(buf[:n]); werr != nil {
				return werr
			}
		}
		if err != nil {
			return err
		}
	}
}
