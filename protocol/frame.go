package protocol

import (
	"bytes"
	"sync/atomic"
)

// frameReader splits a byte stream into blocks with a valid length, CRC and
// sync byte. After a bad block it drops bytes up to the next sync byte.
type frameReader struct {
	synced    uint32 // atomic bool
	checkDest bool   // require MessageDest in the sequence byte
	onResync  func()
}

// read calls fn for each complete block in data and returns the number of
// bytes consumed. A trailing partial block is left unconsumed.
func (r *frameReader) read(data []byte, fn func(seq uint8, payload []byte)) int {
	total := len(data)
	for len(data) > 0 {
		if !r.isSynced() {
			i := bytes.IndexByte(data, MessageValueSync)
			if i < 0 {
				data = nil
				break
			}
			data = data[i+1:]
			r.setSynced(true)
			if r.onResync != nil {
				r.onResync()
			}
			continue
		}

		if data[0] == MessageValueSync {
			data = data[1:]
			continue
		}
		if len(data) < MessageLengthMin {
			break
		}

		n := int(data[MessagePositionLen])
		if n < MessageLengthMin || n > MessageLengthMax {
			r.setSynced(false)
			continue
		}
		seq := data[MessagePositionSeq]
		if r.checkDest && seq&^MessageSeqMask != MessageDest {
			r.setSynced(false)
			continue
		}
		if len(data) < n {
			break
		}
		if data[n-MessageTrailerSync] != MessageValueSync {
			r.setSynced(false)
			continue
		}
		crc := uint16(data[n-MessageTrailerCRC])<<8 | uint16(data[n-MessageTrailerCRC+1])
		if crc != CRC16(data[:n-MessageTrailerSize]) {
			r.setSynced(false)
			continue
		}

		payload := data[MessageHeaderSize : n-MessageTrailerSize]
		data = data[n:]
		fn(seq, payload)
	}
	return total - len(data)
}

func (r *frameReader) isSynced() bool {
	return atomic.LoadUint32(&r.synced) != 0
}

func (r *frameReader) setSynced(v bool) {
	var n uint32
	if v {
		n = 1
	}
	atomic.StoreUint32(&r.synced, n)
}

// writeFrame appends one block with the given sequence byte to output
func writeFrame(output OutputBuffer, seq uint8, payload func(OutputBuffer)) {
	start := output.CurPosition()
	output.Output([]byte{0, seq})
	if payload != nil {
		payload(output)
	}

	n := len(output.DataSince(start)) + MessageTrailerSize
	output.Update(start+MessagePositionLen, uint8(n))

	crc := CRC16(output.DataSince(start))
	output.Output([]byte{uint8(crc >> 8), uint8(crc), MessageValueSync})
}
