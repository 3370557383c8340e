package protocol

import (
	"errors"
	"sync/atomic"
)

var errHandlerPanic = errors.New("command handler panicked")

// CommandHandler decodes and runs one command. It consumes its arguments
// from data and leaves the rest of the block for the next command.
type CommandHandler func(cmdID uint16, data *[]byte) error

// Transport is the firmware side of the link: it validates incoming blocks,
// dispatches their commands, and acknowledges every block with the sequence
// number it expects next.
type Transport struct {
	reader       frameReader
	nextSequence uint32 // atomic; expected sequence byte from the host
	output       OutputBuffer
	handler      CommandHandler

	resetCallback func()
	flushCallback func()
	errorCallback func(error)
}

// NewTransport returns a synchronized Transport writing to output
func NewTransport(output OutputBuffer, handler CommandHandler) *Transport {
	t := &Transport{
		nextSequence: MessageDest,
		output:       output,
		handler:      handler,
	}
	t.reader.checkDest = true
	t.reader.setSynced(true)
	t.reader.onResync = t.encodeAckNak
	return t
}

// Receive processes every complete block in input and pops what it consumed
func (t *Transport) Receive(input InputBuffer) {
	n := t.reader.read(input.Data(), func(seq uint8, frame []byte) {
		expected := uint8(atomic.LoadUint32(&t.nextSequence))
		if seq == MessageDest && expected != MessageDest {
			// Host restarted its sequence
			expected = MessageDest
			atomic.StoreUint32(&t.nextSequence, MessageDest)
			if t.resetCallback != nil {
				t.resetCallback()
			}
		}

		if seq == expected {
			atomic.StoreUint32(&t.nextSequence, uint32(nextSeq(seq)))
			if err := t.parseFrame(frame); err != nil && t.errorCallback != nil {
				t.errorCallback(err)
			}
		}
		// A stale sequence gets the same reply, which the host reads as a NAK
		t.encodeAckNak()
	})
	input.Pop(n)
}

// parseFrame runs every command in a block. A panicking handler drops the
// link out of sync instead of taking down the firmware.
func (t *Transport) parseFrame(frame []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			t.reader.setSynced(false)
			err = errHandlerPanic
		}
	}()

	for len(frame) > 0 {
		cmdID, err := DecodeVLQUint(&frame)
		if err != nil {
			t.reader.setSynced(false)
			return err
		}
		if t.handler == nil {
			continue
		}
		if err := t.handler(uint16(cmdID), &frame); err != nil {
			return err
		}
	}
	return nil
}

// encodeAckNak writes an empty block carrying the next expected sequence
func (t *Transport) encodeAckNak() {
	writeFrame(t.output, uint8(atomic.LoadUint32(&t.nextSequence)), nil)
	if t.flushCallback != nil {
		t.flushCallback()
	}
}

// SendCommand writes a response block: command id followed by arguments
func (t *Transport) SendCommand(cmdID uint16, args func(output OutputBuffer)) {
	seq := uint8(atomic.LoadUint32(&t.nextSequence))
	writeFrame(t.output, seq, func(output OutputBuffer) {
		EncodeVLQUint(output, uint32(cmdID))
		if args != nil {
			args(output)
		}
	})
}

// Reset returns to the power-on state
func (t *Transport) Reset() {
	t.reader.setSynced(true)
	atomic.StoreUint32(&t.nextSequence, MessageDest)
}

// SetResetCallback registers a function run when the host restarts its sequence
func (t *Transport) SetResetCallback(callback func()) {
	t.resetCallback = callback
}

// SetFlushCallback registers a function run right after each ACK is queued
func (t *Transport) SetFlushCallback(callback func()) {
	t.flushCallback = callback
}

// SetErrorCallback registers a function receiving command handler errors
func (t *Transport) SetErrorCallback(callback func(error)) {
	t.errorCallback = callback
}
