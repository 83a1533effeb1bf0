package clock

import (
	"testing"
	"time"
)

func TestNewTicker_DeliversGeneration(t *testing.T) {
	tk := NewTicker(7, 5*time.Millisecond)
	defer tk.Stop()

	select {
	case got := <-tk.C():
		if got.Gen != 7 {
			t.Errorf("Gen = %d, want 7", got.Gen)
		}
		if got.At.IsZero() {
			t.Error("At should be set")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for tick")
	}
}

func TestTicker_StopClosesChannel(t *testing.T) {
	tk := NewTicker(1, time.Hour)
	tk.Stop()

	select {
	case _, ok := <-tk.C():
		if ok {
			t.Error("expected closed channel after Stop")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after Stop")
	}
}

func TestTicker_StopIsIdempotent(t *testing.T) {
	tk := NewTicker(1, time.Millisecond)
	tk.Stop()
	tk.Stop()
	// Drain until closed; a pending tick may still be delivered once.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-tk.C():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed")
		}
	}
}

func TestSystemNow(t *testing.T) {
	before := time.Now()
	got := System{}.Now()
	if got.Before(before) {
		t.Errorf("System.Now() = %v, before %v", got, before)
	}
}
