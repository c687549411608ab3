package monitor

import (
	"fmt"
	"testing"
	"time"

	"github.com/programmatix/game-tracker/internal/ws"
)

func TestReloadHealthFailureTracking(t *testing.T) {
	var h reloadHealth

	if got := h.snapshot().Status; got != ws.StatusHealthy {
		t.Fatalf("new health status = %q, want healthy", got)
	}

	h.recordFailure(fmt.Errorf("unexpected EOF"), time.Now())
	if got := h.snapshot().Status; got != ws.StatusDegraded {
		t.Errorf("status after one failure = %q, want degraded", got)
	}

	h.recordFailure(fmt.Errorf("still broken"), time.Now())
	h.recordFailure(fmt.Errorf("still broken"), time.Now())
	snap := h.snapshot()
	if snap.Status != ws.StatusFailed {
		t.Errorf("status at threshold = %q, want failed", snap.Status)
	}
	if snap.LastError != "still broken" {
		t.Errorf("LastError = %q, want %q", snap.LastError, "still broken")
	}
	if snap.Failures != failureThreshold {
		t.Errorf("Failures = %d, want %d", snap.Failures, failureThreshold)
	}
}

func TestReloadHealthRecovery(t *testing.T) {
	var h reloadHealth
	for i := 0; i < 5; i++ {
		h.recordFailure(fmt.Errorf("fail %d", i), time.Now())
	}

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	h.recordSuccess(at)
	snap := h.snapshot()
	if snap.Status != ws.StatusHealthy {
		t.Errorf("status after success = %q, want healthy", snap.Status)
	}
	if snap.Failures != 0 || snap.LastError != "" {
		t.Errorf("failures not reset: %+v", snap)
	}
	if !snap.LastReload.Equal(at) {
		t.Errorf("LastReload = %v, want %v", snap.LastReload, at)
	}
}
