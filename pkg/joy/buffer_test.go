package joy

import (
	"sync"
	"testing"
)

func TestBuffer_LastWriteWins(t *testing.T) {
	buf := NewBuffer()

	buf.Publish(Command{Waist: WaistCCW})
	buf.Publish(Command{Pan: PanCW, BaseX: 0.2})

	got := buf.Snapshot()
	if got.Waist != CmdNone {
		t.Errorf("Waist = %v, want CmdNone (older frame must be replaced wholesale)", got.Waist)
	}
	if got.Pan != PanCW || got.BaseX != 0.2 {
		t.Errorf("Snapshot = %+v, want the latest frame", got)
	}
}

func TestBuffer_SnapshotDoesNotClear(t *testing.T) {
	buf := NewBuffer()
	buf.Publish(Command{Gripper: GripperGrasp})

	// A held button keeps applying until the producer sends a neutral frame
	for i := 0; i < 3; i++ {
		if got := buf.Snapshot(); got.Gripper != GripperGrasp {
			t.Fatalf("Snapshot %d: Gripper = %v, want GripperGrasp", i, got.Gripper)
		}
	}

	buf.Publish(Command{})
	if got := buf.Snapshot(); !got.IsZero() {
		t.Errorf("Snapshot after neutral publish = %+v, want neutral", got)
	}
}

func TestBuffer_EmptyIsNeutral(t *testing.T) {
	buf := NewBuffer()
	if got := buf.Snapshot(); !got.IsZero() {
		t.Errorf("Fresh buffer snapshot = %+v, want neutral", got)
	}
}

func TestBuffer_ConcurrentAccess(t *testing.T) {
	buf := NewBuffer()
	var wg sync.WaitGroup

	// Producers and the loop hammer the buffer from both sides; run with
	// -race to catch locking mistakes.
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				buf.Publish(Command{Speed: SpeedInc, BaseX: float64(n)})
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				cmd := buf.Snapshot()
				if cmd.Speed != CmdNone && cmd.Speed != SpeedInc {
					t.Errorf("Snapshot returned torn frame: %+v", cmd)
					return
				}
			}
		}()
	}
	wg.Wait()
}
