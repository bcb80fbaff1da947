package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinnerStopNotCancelled(t *testing.T) {
	s := newSpinner("working...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if s.Cancelled() {
		t.Error("explicit Stop should not count as cancellation")
	}
}

func TestSpinnerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, "working...")
	s.Start()
	cancel()
	s.Stop()

	if !s.Cancelled() {
		t.Error("parent cancellation should be reported")
	}
}

func TestSpinnerContextTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	s := newSpinnerWithContext(ctx, "working...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.Stop()

	if !s.Cancelled() {
		t.Error("deadline expiry should be reported as cancellation")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner("working...")
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopBeforeStart(t *testing.T) {
	s := newSpinner("never started")
	s.Stop() // must not block waiting for a loop that never ran
}

func TestSpinnerStopWithSuccess(t *testing.T) {
	s := newSpinner("working...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.StopWithSuccess("Done")
}

func TestSpinnerStopWithError(t *testing.T) {
	s := newSpinner("working...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.StopWithError("Failed")
}
