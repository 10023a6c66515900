package dxl

import (
	"bytes"
	"math"
	"testing"
)

// Byte sequences from the Protocol 2.0 reference: ping ID 1, write 512
// to goal position of ID 1, read present position of ID 1.

func TestPingPacket(t *testing.T) {
	want := []byte{0xFF, 0xFF, 0xFD, 0x00, 0x01, 0x03, 0x00, 0x01, 0x19, 0x4E}
	if got := pingPacket(1); !bytes.Equal(got, want) {
		t.Errorf("ping packet\n got % X\nwant % X", got, want)
	}
}

func TestWritePacket(t *testing.T) {
	want := []byte{
		0xFF, 0xFF, 0xFD, 0x00, 0x01, 0x09, 0x00, 0x03,
		0x74, 0x00, 0x00, 0x02, 0x00, 0x00, 0xCA, 0x89,
	}
	if got := writePacket(1, AddrGoalPosition, u32bytes(512)); !bytes.Equal(got, want) {
		t.Errorf("write packet\n got % X\nwant % X", got, want)
	}
}

func TestReadPacket(t *testing.T) {
	want := []byte{
		0xFF, 0xFF, 0xFD, 0x00, 0x01, 0x07, 0x00, 0x02,
		0x84, 0x00, 0x04, 0x00, 0x1D, 0x15,
	}
	if got := readPacket(1, AddrPresentPosition, 4); !bytes.Equal(got, want) {
		t.Errorf("read packet\n got % X\nwant % X", got, want)
	}
}

func TestParseStatusRoundTrip(t *testing.T) {
	// Build a status packet by hand: ID 1, no error, 4 data bytes.
	raw := []byte{0xFF, 0xFF, 0xFD, 0x00, 0x01, 0x08, 0x00, 0x55, 0x00, 0xA6, 0x00, 0x00, 0x00}
	crc := crc16(raw)
	raw = append(raw, byte(crc), byte(crc>>8))

	s, err := parseStatus(raw)
	if err != nil {
		t.Fatalf("parseStatus: %v", err)
	}
	if s.id != 1 {
		t.Errorf("id = %d, want 1", s.id)
	}
	if len(s.params) != 4 || s.params[0] != 0xA6 {
		t.Errorf("params = % X, want A6 00 00 00", s.params)
	}
}

func TestParseStatusRejectsCorruption(t *testing.T) {
	raw := []byte{0xFF, 0xFF, 0xFD, 0x00, 0x01, 0x08, 0x00, 0x55, 0x00, 0xA6, 0x00, 0x00, 0x00}
	crc := crc16(raw)
	raw = append(raw, byte(crc), byte(crc>>8))
	raw[9] ^= 0xFF // flip a data byte after the CRC was computed

	if _, err := parseStatus(raw); err == nil {
		t.Error("corrupted packet parsed without error")
	}
}

func TestParseStatusReportsServoError(t *testing.T) {
	raw := []byte{0xFF, 0xFF, 0xFD, 0x00, 0x02, 0x04, 0x00, 0x55, 0x04}
	crc := crc16(raw)
	raw = append(raw, byte(crc), byte(crc>>8))

	if _, err := parseStatus(raw); err == nil {
		t.Error("hardware-error status parsed without error")
	}
}

func TestSyncReadPacket(t *testing.T) {
	// Present position of IDs 1 and 2 in one broadcast.
	want := []byte{
		0xFF, 0xFF, 0xFD, 0x00, 0xFE, 0x09, 0x00, 0x82,
		0x84, 0x00, 0x04, 0x00, 0x01, 0x02, 0xCE, 0xFA,
	}
	if got := syncReadPacket(AddrPresentPosition, 4, []uint8{1, 2}); !bytes.Equal(got, want) {
		t.Errorf("sync read packet\n got % X\nwant % X", got, want)
	}
}

func TestSyncWritePacketLayout(t *testing.T) {
	pkt := syncWritePacket(AddrGoalPosition, 4, []uint8{1, 2}, [][]byte{u32bytes(2048), u32bytes(1024)})

	if pkt[4] != BroadcastID {
		t.Errorf("sync write addressed to %d, want broadcast", pkt[4])
	}
	if pkt[7] != instSyncWrite {
		t.Errorf("instruction = 0x%02X, want 0x%02X", pkt[7], instSyncWrite)
	}
	// Params: addr(2) size(2) then id + 4 data bytes per servo.
	params := pkt[8 : len(pkt)-2]
	if len(params) != 4+2*5 {
		t.Fatalf("param length = %d, want %d", len(params), 4+2*5)
	}
	if params[4] != 1 || params[9] != 2 {
		t.Errorf("servo ids = %d, %d; want 1, 2", params[4], params[9])
	}
}

func TestTickConversionsRoundTrip(t *testing.T) {
	for _, radians := range []float64{0, 1.0, -1.0, math.Pi / 2, -math.Pi + 0.01} {
		ticks := RadiansToTicks(radians)
		back := TicksToRadians(ticks)
		if math.Abs(back-radians) > 2*math.Pi/TicksPerRevolution {
			t.Errorf("round trip %f -> %d -> %f drifted past one tick", radians, ticks, back)
		}
	}
	if RadiansToTicks(0) != CenterTick {
		t.Errorf("zero radians = tick %d, want %d", RadiansToTicks(0), CenterTick)
	}
}
