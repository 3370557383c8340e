package protocol

import "testing"

func TestCRC16(t *testing.T) {
	if crc := CRC16(nil); crc != 0xFFFF {
		t.Errorf("CRC16 of empty input = 0x%04X, expected 0xFFFF", crc)
	}

	a := CRC16([]byte{0x01, 0x02, 0x03})
	b := CRC16([]byte{0x01, 0x02, 0x04})
	if a == b {
		t.Errorf("CRC16 collision: both inputs produced %04X", a)
	}
	if a != CRC16([]byte{0x01, 0x02, 0x03}) {
		t.Error("CRC16 not consistent")
	}
}

func TestWriteFrameLayout(t *testing.T) {
	out := NewScratchOutput()
	writeFrame(out, MessageDest|3, func(o OutputBuffer) {
		o.Output([]byte{0xAA, 0xBB})
	})

	b := out.Result()
	if len(b) != 7 {
		t.Fatalf("Expected 7-byte block, got %d: %v", len(b), b)
	}
	if b[MessagePositionLen] != 7 || b[MessagePositionSeq] != MessageDest|3 {
		t.Errorf("Bad header: %v", b[:2])
	}
	if b[6] != MessageValueSync {
		t.Errorf("Missing sync byte: %v", b)
	}
	crc := CRC16(b[:4])
	if b[4] != uint8(crc>>8) || b[5] != uint8(crc) {
		t.Errorf("Bad CRC bytes: %v", b)
	}
}

func TestFrameReaderResync(t *testing.T) {
	good := NewScratchOutput()
	writeFrame(good, MessageDest, func(o OutputBuffer) { o.Output([]byte{0x42}) })

	// Garbage, a corrupted copy of the block, then the good block
	stream := []byte{0x01, 0x02}
	bad := append([]byte(nil), good.Result()...)
	bad[2] ^= 0xFF
	stream = append(stream, bad...)
	stream = append(stream, good.Result()...)

	var r frameReader
	r.setSynced(true)
	resyncs := 0
	r.onResync = func() { resyncs++ }

	var payloads [][]byte
	n := r.read(stream, func(seq uint8, payload []byte) {
		payloads = append(payloads, append([]byte(nil), payload...))
	})

	if n != len(stream) {
		t.Errorf("Consumed %d of %d bytes", n, len(stream))
	}
	if len(payloads) != 1 || len(payloads[0]) != 1 || payloads[0][0] != 0x42 {
		t.Errorf("Expected one payload [0x42], got %v", payloads)
	}
	if resyncs == 0 {
		t.Error("Expected at least one resync")
	}
}

func TestFrameReaderPartial(t *testing.T) {
	out := NewScratchOutput()
	writeFrame(out, MessageDest, func(o OutputBuffer) { o.Output([]byte{1, 2, 3}) })
	block := out.Result()

	var r frameReader
	r.setSynced(true)
	calls := 0
	n := r.read(block[:len(block)-1], func(uint8, []byte) { calls++ })
	if n != 0 || calls != 0 {
		t.Errorf("Partial block: consumed %d, calls %d", n, calls)
	}
	n = r.read(block, func(uint8, []byte) { calls++ })
	if n != len(block) || calls != 1 {
		t.Errorf("Full block: consumed %d, calls %d", n, calls)
	}
}
