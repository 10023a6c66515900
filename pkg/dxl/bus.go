package dxl

import (
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"go.bug.st/serial"

	"github.com/stephenadhi/go-locobot/internal/log"
)

// responseTimeout bounds one status-packet read. Servos answer within
// their return-delay register (microseconds); anything slower means the
// bus is wedged and the caller should hear about it.
const responseTimeout = 50 * time.Millisecond

// Bus is one Dynamixel chain on a serial port. All servos of a locobot
// (arm, gripper, pan, tilt) share a single bus, so every transaction
// holds the bus lock for its full request/response round trip.
type Bus struct {
	mu   sync.Mutex
	port serial.Port
	name string
}

// Open opens the serial device and verifies it accepts the mode. The
// standard locobot U2D2 runs at 1 Mbaud.
func Open(device string, baud int) (*Bus, error) {
	port, err := serial.Open(device, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open dynamixel bus %s: %w", device, err)
	}
	if err := port.SetReadTimeout(responseTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", device, err)
	}
	log.Info("Dynamixel bus open", "device", device, "baud", baud)
	return &Bus{port: port, name: device}, nil
}

// Close releases the serial device.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.port.Close()
}

// transact writes one instruction packet and, when a reply is expected,
// reads exactly one status packet back. Caller holds the lock.
func (b *Bus) transact(pkt []byte, wantReply bool) (statusPacket, error) {
	var s statusPacket
	if _, err := b.port.Write(pkt); err != nil {
		return s, fmt.Errorf("bus %s write: %w", b.name, err)
	}
	if !wantReply {
		return s, nil
	}
	return b.readStatus()
}

func (b *Bus) readFull(buf []byte) error {
	for off := 0; off < len(buf); {
		n, err := b.port.Read(buf[off:])
		if err != nil {
			return fmt.Errorf("bus %s read: %w", b.name, err)
		}
		if n == 0 {
			return fmt.Errorf("bus %s: no response within %v", b.name, responseTimeout)
		}
		off += n
	}
	return nil
}

// Ping verifies servo id is present and answering.
func (b *Bus) Ping(id uint8) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := b.transact(pingPacket(id), true)
	return err
}

// WriteU8 writes one byte register.
func (b *Bus) WriteU8(id uint8, addr uint16, v uint8) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := b.transact(writePacket(id, addr, []byte{v}), true)
	return err
}

// WriteU16 writes a two-byte register.
func (b *Bus) WriteU16(id uint8, addr uint16, v uint16) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := b.transact(writePacket(id, addr, []byte{byte(v), byte(v >> 8)}), true)
	return err
}

// WriteU32 writes a four-byte register.
func (b *Bus) WriteU32(id uint8, addr uint16, v uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := b.transact(writePacket(id, addr, u32bytes(v)), true)
	return err
}

// ReadU32 reads a four-byte register.
func (b *Bus) ReadU32(id uint8, addr uint16) (uint32, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, err := b.transact(readPacket(id, addr, 4), true)
	if err != nil {
		return 0, err
	}
	if len(s.params) != 4 {
		return 0, fmt.Errorf("servo %d returned %d bytes, want 4", id, len(s.params))
	}
	return binary.LittleEndian.Uint32(s.params), nil
}

// SyncReadU32 reads the same four-byte register from several servos
// with one broadcast request. Results come back in ids order.
func (b *Bus) SyncReadU32(addr uint16, ids []uint8) ([]uint32, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := b.port.Write(syncReadPacket(addr, 4, ids)); err != nil {
		return nil, fmt.Errorf("bus %s write: %w", b.name, err)
	}
	out := make([]uint32, len(ids))
	for i, id := range ids {
		s, err := b.readStatus()
		if err != nil {
			return nil, fmt.Errorf("sync read servo %d: %w", id, err)
		}
		if s.id != id {
			return nil, fmt.Errorf("sync read: servo %d answered in servo %d's slot", s.id, id)
		}
		if len(s.params) != 4 {
			return nil, fmt.Errorf("servo %d returned %d bytes, want 4", id, len(s.params))
		}
		out[i] = binary.LittleEndian.Uint32(s.params)
	}
	return out, nil
}

// readStatus reads exactly one status packet. Caller holds the lock.
func (b *Bus) readStatus() (statusPacket, error) {
	buf := make([]byte, 7)
	if err := b.readFull(buf); err != nil {
		return statusPacket{}, err
	}
	n := int(binary.LittleEndian.Uint16(buf[5:7]))
	rest := make([]byte, n)
	if err := b.readFull(rest); err != nil {
		return statusPacket{}, err
	}
	return parseStatus(append(buf, rest...))
}

// SyncWriteU32 writes the same four-byte register on several servos in
// one broadcast packet, so a multi-joint goal lands atomically. ids and
// values must pair up.
func (b *Bus) SyncWriteU32(addr uint16, ids []uint8, values []uint32) error {
	if len(ids) != len(values) {
		return fmt.Errorf("sync write: %d ids but %d values", len(ids), len(values))
	}
	rows := make([][]byte, len(values))
	for i, v := range values {
		rows[i] = u32bytes(v)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	// Broadcast packets get no status reply.
	_, err := b.transact(syncWritePacket(addr, 4, ids, rows), false)
	return err
}
