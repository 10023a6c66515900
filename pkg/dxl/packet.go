package dxl

import (
	"encoding/binary"
	"fmt"
)

// Protocol 2.0 instructions.
const (
	instPing      byte = 0x01
	instRead      byte = 0x02
	instWrite     byte = 0x03
	instStatus    byte = 0x55
	instSyncRead  byte = 0x82
	instSyncWrite byte = 0x83
)

// BroadcastID addresses every servo on the bus.
const BroadcastID uint8 = 0xFE

// header4 is the Protocol 2.0 packet preamble.
var header4 = []byte{0xFF, 0xFF, 0xFD, 0x00}

// crc16 computes the Protocol 2.0 checksum (poly 0x8005, init 0,
// MSB first) over a full packet up to but not including the CRC bytes.
func crc16(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x8005
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// buildPacket frames one instruction packet: header, ID, length,
// instruction, parameters, CRC. Length counts instruction + params +
// the two CRC bytes.
func buildPacket(id uint8, inst byte, params []byte) []byte {
	n := len(params) + 3
	pkt := make([]byte, 0, len(header4)+3+n)
	pkt = append(pkt, header4...)
	pkt = append(pkt, id, byte(n), byte(n>>8), inst)
	pkt = append(pkt, params...)
	crc := crc16(pkt)
	return append(pkt, byte(crc), byte(crc>>8))
}

// statusPacket is one parsed status response.
type statusPacket struct {
	id     uint8
	errVal byte
	params []byte
}

// parseStatus validates and decodes a status packet. raw must contain
// exactly one packet starting at the header.
func parseStatus(raw []byte) (statusPacket, error) {
	var s statusPacket
	if len(raw) < 11 {
		return s, fmt.Errorf("status packet too short: %d bytes", len(raw))
	}
	for i, b := range header4 {
		if raw[i] != b {
			return s, fmt.Errorf("bad status header % X", raw[:4])
		}
	}
	n := int(binary.LittleEndian.Uint16(raw[5:7]))
	if len(raw) != 7+n {
		return s, fmt.Errorf("status length field %d does not match %d bytes", n, len(raw))
	}
	if raw[7] != instStatus {
		return s, fmt.Errorf("unexpected instruction 0x%02X in status packet", raw[7])
	}
	crc := binary.LittleEndian.Uint16(raw[len(raw)-2:])
	if got := crc16(raw[:len(raw)-2]); got != crc {
		return s, fmt.Errorf("status CRC mismatch: got %04X want %04X", got, crc)
	}
	s.id = raw[4]
	s.errVal = raw[8]
	s.params = raw[9 : len(raw)-2]
	if s.errVal != 0 {
		return s, fmt.Errorf("servo %d reports error 0x%02X", s.id, s.errVal)
	}
	return s, nil
}

// pingPacket builds a ping to one servo.
func pingPacket(id uint8) []byte {
	return buildPacket(id, instPing, nil)
}

// readPacket builds a register read of size bytes at addr.
func readPacket(id uint8, addr uint16, size uint16) []byte {
	return buildPacket(id, instRead, []byte{
		byte(addr), byte(addr >> 8), byte(size), byte(size >> 8),
	})
}

// writePacket builds a register write of data at addr.
func writePacket(id uint8, addr uint16, data []byte) []byte {
	params := make([]byte, 0, 2+len(data))
	params = append(params, byte(addr), byte(addr>>8))
	params = append(params, data...)
	return buildPacket(id, instWrite, params)
}

// syncReadPacket builds one broadcast read of a fixed-size register on
// several servos. Each listed servo answers with its own status packet,
// in list order.
func syncReadPacket(addr uint16, size uint16, ids []uint8) []byte {
	params := make([]byte, 0, 4+len(ids))
	params = append(params, byte(addr), byte(addr>>8), byte(size), byte(size>>8))
	params = append(params, ids...)
	return buildPacket(BroadcastID, instSyncRead, params)
}

// syncWritePacket builds one broadcast write of a fixed-size value per
// servo. ids and rows must be the same length; every row must be size
// bytes.
func syncWritePacket(addr uint16, size uint16, ids []uint8, rows [][]byte) []byte {
	params := make([]byte, 0, 4+len(ids)*(1+int(size)))
	params = append(params, byte(addr), byte(addr>>8), byte(size), byte(size>>8))
	for i, id := range ids {
		params = append(params, id)
		params = append(params, rows[i]...)
	}
	return buildPacket(BroadcastID, instSyncWrite, params)
}

func u32bytes(v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return b[:]
}
