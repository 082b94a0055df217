package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a bytes.Buffer against the spinner's render goroutine.
type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (w *syncBuffer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.b.Write(p)
}

func (w *syncBuffer) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.b.String()
}

func testSpinner(ctx context.Context, message string) (*spinner, *syncBuffer) {
	out := &syncBuffer{}
	s := startSpinner(ctx, message)
	s.mu.Lock()
	s.out = out
	s.mu.Unlock()
	return s, out
}

func TestSpinnerRendersAndClears(t *testing.T) {
	s, out := testSpinner(context.Background(), "Resolving...")
	time.Sleep(3 * spinnerInterval)
	s.Stop()

	got := out.String()
	if !bytes.Contains([]byte(got), []byte("Resolving...")) {
		t.Errorf("output %q does not contain the message", got)
	}
	if got[len(got)-1] != '\r' {
		t.Errorf("output does not end with a line clear")
	}
}

func TestSpinnerContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s, _ := testSpinner(ctx, "Resolving...")

	cancel()
	s.Stop()

	if !s.Cancelled() {
		t.Error("Cancelled() = false after context cancellation")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s, _ := testSpinner(context.Background(), "Resolving...")
	s.Stop()
	s.Stop()
}

func TestSpinnerFail(t *testing.T) {
	s, _ := testSpinner(context.Background(), "Resolving...")
	s.Fail("Layout failed")

	if !s.Cancelled() {
		t.Error("Fail should leave the spinner stopped")
	}
}
