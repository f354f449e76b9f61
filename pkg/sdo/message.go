package sdo

import (
	"encoding/binary"

	"github.com/lely-core/canopen-go/internal/crc"
)

// SDOMessage wraps a single received SDO CAN frame addressed to the server
// and exposes decoders for the command byte and payload fields.
type SDOMessage struct {
	raw [8]byte
}

func (rx *SDOMessage) GetIndex() uint16 {
	return binary.LittleEndian.Uint16(rx.raw[1:3])
}

func (rx *SDOMessage) GetSubindex() uint8 {
	return rx.raw[3]
}

func (rx *SDOMessage) GetToggle() uint8 {
	return rx.raw[0] & 0x10
}

func (rx *SDOMessage) GetBlockSize() uint8 {
	return rx.raw[4]
}

func (rx *SDOMessage) IsCRCEnabled() bool {
	return (rx.raw[0] & 0x04) != 0
}

func (rx *SDOMessage) GetCRCClient() crc.CRC16 {
	return crc.CRC16(binary.LittleEndian.Uint16(rx.raw[1:3]))
}

// IsSizeIndicatedBlock reports the size flag of a block download initiate request.
func (rx *SDOMessage) IsSizeIndicatedBlock() bool {
	return (rx.raw[0] & 0x02) != 0
}

func (rx *SDOMessage) SizeIndicated() uint32 {
	return binary.LittleEndian.Uint32(rx.raw[4:])
}

// Seqno returns the block transfer sub-block sequence number.
func (rx *SDOMessage) Seqno() uint8 {
	return rx.raw[0] & 0x7F
}

// SegmentRemaining is false on the last segment of a block sub-block.
func (rx *SDOMessage) SegmentRemaining() bool {
	return (rx.raw[0] & 0x80) == 0
}

func (rx *SDOMessage) IsExpedited() bool {
	return (rx.raw[0] & 0x02) != 0
}

func (rx *SDOMessage) IsSizeIndicated() bool {
	return (rx.raw[0] & 0x01) != 0
}
