package canbase

import (
	"encoding/binary"
	"testing"
)

func TestEncodeVelocity(t *testing.T) {
	frame := encodeVelocity(DefaultVelocityID, 0.25, -1.5)

	if frame.ID != DefaultVelocityID {
		t.Errorf("frame ID = %#x, want %#x", frame.ID, DefaultVelocityID)
	}
	if frame.Length != 8 {
		t.Errorf("frame length = %d, want 8", frame.Length)
	}
	x := int32(binary.LittleEndian.Uint32(frame.Data[0:4]))
	yaw := int32(binary.LittleEndian.Uint32(frame.Data[4:8]))
	if x != 250 {
		t.Errorf("x = %d mm/s, want 250", x)
	}
	if yaw != -1500 {
		t.Errorf("yaw = %d mrad/s, want -1500", yaw)
	}
}

func TestEncodeVelocityZero(t *testing.T) {
	frame := encodeVelocity(DefaultVelocityID, 0, 0)
	for i, b := range frame.Data[:8] {
		if b != 0 {
			t.Errorf("zero setpoint has nonzero byte %d at %d", b, i)
		}
	}
}
