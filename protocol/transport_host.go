package protocol

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

var ErrTransportClosed = errors.New("transport closed")

// Message is one received block
type Message struct {
	Sequence uint8
	Payload  []byte // VLQ command id and arguments; empty for an ACK
}

// ResponseHandler is called from the read loop for every response block
type ResponseHandler func(cmdID uint16, data *[]byte) error

// HostTransport is the host side of the link. It numbers outgoing blocks,
// waits for their ACKs, and queues responses for the caller.
type HostTransport struct {
	port       io.ReadWriteCloser
	currentSeq uint32 // atomic; sequence of the next block to send
	reader     frameReader
	input      *FifoBuffer

	ackChan      chan Message
	responseChan chan Message
	handler      ResponseHandler

	writeMu   sync.Mutex
	stopChan  chan struct{}
	doneChan  chan struct{}
	closeOnce sync.Once
}

// NewHostTransport starts a background reader on port
func NewHostTransport(port io.ReadWriteCloser) *HostTransport {
	t := &HostTransport{
		port:         port,
		currentSeq:   MessageDest,
		input:        NewFifoBuffer(512),
		ackChan:      make(chan Message, 1),
		responseChan: make(chan Message, 16),
		stopChan:     make(chan struct{}),
		doneChan:     make(chan struct{}),
	}
	t.reader.setSynced(true)

	go t.readLoop()
	return t
}

// SendCommand sends one command and waits up to two seconds for its ACK
func (t *HostTransport) SendCommand(cmdID uint16, args func(output OutputBuffer)) error {
	return t.SendCommandWithTimeout(cmdID, args, 2*time.Second)
}

// SendCommandWithTimeout sends one command and waits for its ACK
func (t *HostTransport) SendCommandWithTimeout(cmdID uint16, args func(output OutputBuffer), timeout time.Duration) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	seq := uint8(atomic.LoadUint32(&t.currentSeq))
	msg := NewScratchOutput()
	writeFrame(msg, seq, func(output OutputBuffer) {
		EncodeVLQUint(output, uint32(cmdID))
		if args != nil {
			args(output)
		}
	})
	if n := len(msg.Result()); n > MessageLengthMax {
		return fmt.Errorf("message too long: %d bytes (max %d)", n, MessageLengthMax)
	}

	// Drop any ACK left over from a resync
	select {
	case <-t.ackChan:
	default:
	}

	if _, err := t.port.Write(msg.Result()); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	select {
	case ack := <-t.ackChan:
		want := nextSeq(seq)
		if ack.Sequence != want {
			return fmt.Errorf("NAK: mcu expects sequence 0x%02x, sent 0x%02x", ack.Sequence, seq)
		}
		atomic.StoreUint32(&t.currentSeq, uint32(want))
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("ACK timeout after %v", timeout)
	case <-t.stopChan:
		return ErrTransportClosed
	}
}

// ReceiveResponse returns the oldest queued response
func (t *HostTransport) ReceiveResponse(timeout time.Duration) (Message, error) {
	select {
	case resp := <-t.responseChan:
		return resp, nil
	case <-time.After(timeout):
		return Message{}, fmt.Errorf("response timeout after %v", timeout)
	case <-t.stopChan:
		return Message{}, ErrTransportClosed
	}
}

// SetResponseHandler registers a callback run for every response. Set it
// before the first command is sent.
func (t *HostTransport) SetResponseHandler(handler ResponseHandler) {
	t.handler = handler
}

func (t *HostTransport) readLoop() {
	defer close(t.doneChan)

	buf := make([]byte, 256)
	for {
		select {
		case <-t.stopChan:
			return
		default:
		}

		n, err := t.port.Read(buf)
		if n > 0 {
			t.input.Write(buf[:n])
			t.input.Pop(t.reader.read(t.input.Data(), t.dispatch))
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
				return
			}
			time.Sleep(10 * time.Millisecond)
		}
	}
}

func (t *HostTransport) dispatch(seq uint8, payload []byte) {
	msg := Message{Sequence: seq, Payload: append([]byte(nil), payload...)}

	if len(msg.Payload) == 0 {
		select {
		case t.ackChan <- msg:
		default:
		}
		return
	}

	if t.handler != nil {
		data := msg.Payload
		if cmdID, err := DecodeVLQUint(&data); err == nil {
			_ = t.handler(uint16(cmdID), &data)
		}
	}

	// Keep the newest responses when nobody is reading
	for {
		select {
		case t.responseChan <- msg:
			return
		default:
		}
		select {
		case <-t.responseChan:
		default:
		}
	}
}

// Close stops the reader and closes the port
func (t *HostTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.stopChan)
		err = t.port.Close()
		<-t.doneChan
	})
	return err
}

// Reset restarts the sequence and drops queued messages
func (t *HostTransport) Reset() {
	atomic.StoreUint32(&t.currentSeq, MessageDest)
	t.reader.setSynced(true)
	for len(t.ackChan) > 0 {
		<-t.ackChan
	}
	for len(t.responseChan) > 0 {
		<-t.responseChan
	}
}

// CurrentSequence returns the sequence byte of the next block
func (t *HostTransport) CurrentSequence() uint8 {
	return uint8(atomic.LoadUint32(&t.currentSeq))
}
