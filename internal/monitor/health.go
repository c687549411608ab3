package monitor

import (
	"sync"
	"time"

	"github.com/programmatix/game-tracker/internal/ws"
)

// failureThreshold is the number of consecutive failed reloads after which
// the watcher reports failed rather than degraded.
const failureThreshold = 3

// reloadHealth tracks consecutive reload failures. It is written by the
// watch loop and read by HTTP handlers.
type reloadHealth struct {
	mu          sync.Mutex
	failures    int
	lastErr     string
	lastFail    time.Time
	lastSuccess time.Time
}

func (h *reloadHealth) recordSuccess(at time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failures = 0
	h.lastErr = ""
	h.lastSuccess = at
}

func (h *reloadHealth) recordFailure(err error, at time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failures++
	h.lastErr = err.Error()
	h.lastFail = at
}

// statusLocked computes health status. Caller must hold h.mu.
func (h *reloadHealth) statusLocked() ws.HealthStatus {
	switch {
	case h.failures >= failureThreshold:
		return ws.StatusFailed
	case h.failures > 0:
		return ws.StatusDegraded
	default:
		return ws.StatusHealthy
	}
}

func (h *reloadHealth) snapshot() ws.HealthPayload {
	h.mu.Lock()
	defer h.mu.Unlock()
	return ws.HealthPayload{
		Status:     h.statusLocked(),
		Failures:   h.failures,
		LastError:  h.lastErr,
		LastReload: h.lastSuccess,
	}
}
