package ws

import (
	"time"

	"github.com/programmatix/game-tracker/internal/achievements"
)

type MessageType string

const (
	MsgSnapshot             MessageType = "snapshot"
	MsgAchievementsUnlocked MessageType = "achievements_unlocked"
	MsgError                MessageType = "error"
)

type WSMessage struct {
	Type    MessageType `json:"type"`
	Seq     uint64      `json:"seq"`
	Payload interface{} `json:"payload"`
}

// SnapshotPayload is the full ladder for the watched play log.
// NewSinceSnapshot lists achievements completed since the last periodic
// snapshot of completed ids.
type SnapshotPayload struct {
	Username         string                     `json:"username"`
	ComputedAt       time.Time                  `json:"computedAt"`
	Available        []achievements.Achievement `json:"available"`
	Completed        []achievements.Achievement `json:"completed"`
	NewSinceSnapshot []achievements.Achievement `json:"newSinceSnapshot"`
}

// AchievementsResponse is the body of GET /api/achievements.
type AchievementsResponse struct {
	Available        []achievements.Achievement `json:"available"`
	Completed        []achievements.Achievement `json:"completed"`
	NewSinceSnapshot []achievements.Achievement `json:"newSinceSnapshot"`
}

type AchievementsUnlockedPayload struct {
	Achievements []achievements.Achievement `json:"achievements"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

// GameInfo describes one supported game.
type GameInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type HealthStatus string

const (
	StatusHealthy  HealthStatus = "healthy"
	StatusDegraded HealthStatus = "degraded"
	StatusFailed   HealthStatus = "failed"
)

// HealthPayload reports how reloads of the watched play log are going.
type HealthPayload struct {
	Status     HealthStatus `json:"status"`
	Failures   int          `json:"failures"`
	LastError  string       `json:"lastError,omitempty"`
	LastReload time.Time    `json:"lastReload"`
}
