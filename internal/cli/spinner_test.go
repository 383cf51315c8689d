package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func TestSpinnerBasic(t *testing.T) {
	s := newSpinner("Testing...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	// Spinner should be stopped, not cancelled
	// (Cancelled returns true only if Stop was called due to context cancellation)
	_ = s.Cancelled() // Verify method is callable; value not asserted as Stop() doesn't set cancelled
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, "Testing with context...")
	s.Start()

	// Cancel the context
	cancel()

	// Give goroutine time to notice cancellation
	time.Sleep(100 * time.Millisecond)

	// Spinner should be cancelled
	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
}

func TestSpinnerWithTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinnerWithContext(ctx, "Testing with timeout...")
	s.Start()

	// Wait for timeout
	time.Sleep(100 * time.Millisecond)

	// Spinner should be cancelled due to timeout
	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner("Testing idempotent stop...")
	s.Start()

	// Stop multiple times should not panic
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithSuccess(t *testing.T) {
	s := newSpinner("Testing success...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.StopWithSuccess("Done!")
}

func TestSpinnerStopWithError(t *testing.T) {
	s := newSpinner("Testing error...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.StopWithError("Failed!")
}

func TestNewSpinnerWithContextNilParent(t *testing.T) {
	s := newSpinnerWithContext(context.Background(), "Test")
	s.Start()
	s.Stop()
}

func TestSpinnerSetMessage(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner("short")
	s.out = &buf
	s.SetMessage("a considerably longer message")
	if s.Message() != "a considerably longer message" {
		t.Errorf("Message() = %q", s.Message())
	}
	s.SetMessage("tiny")
	if s.width != len("a considerably longer message") {
		t.Errorf("width = %d, should keep the widest message", s.width)
	}
	s.Start()
	s.Stop()
	if !strings.Contains(buf.String(), strings.Repeat(" ", s.width+4)) {
		t.Error("clearLine should blank the widest message")
	}
}

func TestLayoutProgress(t *testing.T) {
	s := newSpinner("")
	s.out = io.Discard
	report := layoutProgress(s, "Simulating")

	report(1, 300)
	if got := s.Message(); got != "Simulating 1/300 (0%)" {
		t.Errorf("Message() = %q", got)
	}
	report(2, 300) // same percent, no update
	if got := s.Message(); got != "Simulating 1/300 (0%)" {
		t.Errorf("Message() = %q, want unchanged", got)
	}
	report(300, 300)
	if got := s.Message(); got != "Simulating 300/300 (100%)" {
		t.Errorf("Message() = %q", got)
	}
	report(0, 0)
}
