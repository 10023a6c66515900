// Package canbase drives the locobot's mobile base over SocketCAN. The
// base firmware consumes fixed 8-byte velocity frames and stops on its
// own watchdog when they stop arriving, which is why the teleop loop
// streams a setpoint every tick.
package canbase

import (
	"context"
	"encoding/binary"
	"fmt"
	"net"
	"time"

	"go.einride.tech/can"
	"go.einride.tech/can/pkg/socketcan"

	"github.com/stephenadhi/go-locobot/internal/log"
)

// Default CAN IDs for the base firmware.
const (
	DefaultVelocityID uint32 = 0x111
	DefaultResetID    uint32 = 0x112
)

// resetOdomOpcode is the payload of an odometry reset frame.
const resetOdomOpcode byte = 0x01

// writeTimeout bounds one frame transmission. A full TX queue means the
// interface is down; the loop treats that as a per-tick error, not a
// stall.
const writeTimeout = 20 * time.Millisecond

// Base streams velocity setpoints to the mobile base.
type Base struct {
	conn       net.Conn
	tx         *socketcan.Transmitter
	velocityID uint32
	resetID    uint32
}

// Dial connects to the SocketCAN interface, e.g. "can0".
func Dial(ctx context.Context, iface string) (*Base, error) {
	conn, err := socketcan.DialContext(ctx, "can", iface)
	if err != nil {
		return nil, fmt.Errorf("socketcan dial %s: %w", iface, err)
	}
	log.Info("CAN base connected", "interface", iface)
	return &Base{
		conn:       conn,
		tx:         socketcan.NewTransmitter(conn),
		velocityID: DefaultVelocityID,
		resetID:    DefaultResetID,
	}, nil
}

// Close shuts the CAN connection down.
func (b *Base) Close() error {
	return b.conn.Close()
}

// SetVelocity transmits one setpoint: x forward in m/s, yaw
// counterclockwise in rad/s.
func (b *Base) SetVelocity(x, yaw float64) error {
	return b.transmit(encodeVelocity(b.velocityID, x, yaw))
}

// ResetOdom asks the base firmware to zero its odometry estimate.
func (b *Base) ResetOdom() error {
	return b.transmit(can.Frame{
		ID:     b.resetID,
		Length: 1,
		Data:   can.Data{resetOdomOpcode},
	})
}

func (b *Base) transmit(frame can.Frame) error {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	return b.tx.TransmitFrame(ctx, frame)
}

// encodeVelocity packs a setpoint into the firmware's wire format:
// int32 little-endian mm/s, then int32 little-endian mrad/s.
func encodeVelocity(id uint32, x, yaw float64) can.Frame {
	frame := can.Frame{ID: id, Length: 8}
	binary.LittleEndian.PutUint32(frame.Data[0:4], uint32(int32(x*1000)))
	binary.LittleEndian.PutUint32(frame.Data[4:8], uint32(int32(yaw*1000)))
	return frame
}
