package joy

import "sync"

// Buffer is a single-slot mailbox between command producers and the
// control loop. Publishing replaces the slot wholesale (last write wins);
// reading copies it without clearing, so an active command keeps applying
// every tick until the producer publishes a neutral frame.
type Buffer struct {
	mu  sync.Mutex
	cmd Command
}

// NewBuffer returns an empty buffer. The zero slot is a neutral frame, so
// a loop started before any producer connects commands nothing.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Publish stores cmd as the current frame, replacing whatever was there.
func (b *Buffer) Publish(cmd Command) {
	b.mu.Lock()
	b.cmd = cmd
	b.mu.Unlock()
}

// Snapshot returns a copy of the current frame.
func (b *Buffer) Snapshot() Command {
	b.mu.Lock()
	cmd := b.cmd
	b.mu.Unlock()
	return cmd
}
