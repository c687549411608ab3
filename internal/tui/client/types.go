// Package client provides WebSocket and HTTP clients for the ladder server.
package client

import (
	"encoding/json"

	"github.com/programmatix/game-tracker/internal/ws"
)

// WSMessage is the envelope of every WebSocket message, with the payload
// left raw until the type is known.
type WSMessage struct {
	Type    ws.MessageType  `json:"type"`
	Seq     uint64          `json:"seq"`
	Payload json.RawMessage `json:"payload"`
}
