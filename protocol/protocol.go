// Package protocol implements the framed command protocol spoken between the
// host tool and the pin firmware. Blocks follow Klipper's layout: length,
// sequence, VLQ payload, CRC16 and a sync byte.
package protocol

// Version is the protocol/firmware version reported in the dictionary
const Version = "fasterpin-0.1.0"

const (
	// MessageMax is the size of a firmware output scratch buffer
	MessageMax = 256

	MessageHeaderSize  = 2
	MessageTrailerSize = 3
	MessageLengthMin   = MessageHeaderSize + MessageTrailerSize
	MessageLengthMax   = 64

	MessagePositionLen = 0
	MessagePositionSeq = 1
	MessageTrailerCRC  = 3
	MessageTrailerSync = 1
	MessageValueSync   = 0x7E

	// MessageDest marks the high nibble of every sequence byte
	MessageDest    = 0x10
	MessageSeqMask = 0x0F
)

// CRC16 is the CCITT checksum over the header and payload of a block
func CRC16(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		b ^= uint8(crc & 0xFF)
		b ^= b << 4
		w := uint16(b)
		crc = (w<<8 | crc>>8) ^ (w >> 4) ^ (w << 3)
	}
	return crc
}

// nextSeq advances a sequence byte, wrapping within the low nibble
func nextSeq(seq uint8) uint8 {
	return ((seq + 1) & MessageSeqMask) | MessageDest
}
