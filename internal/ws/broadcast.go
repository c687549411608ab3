package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/programmatix/game-tracker/internal/achievements"
)

// ErrTooManyConnections is returned by AddClient when the connection limit
// is reached.
var ErrTooManyConnections = errors.New("too many websocket connections")

const writeTimeout = 10 * time.Second

type client struct {
	conn *websocket.Conn
	b    *Broadcaster
	send chan []byte
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			c.b.RemoveClient(c)
			return
		}
	}
}

// SnapshotFunc returns the current snapshot, or false when nothing has
// been computed yet.
type SnapshotFunc func() (SnapshotPayload, bool)

type Broadcaster struct {
	mu             sync.RWMutex
	clients        map[*client]bool
	snapshot       SnapshotFunc
	maxConns       int
	seq            atomic.Uint64
	snapshotTicker *time.Ticker
	done           chan struct{}
	stopOnce       sync.Once
	logger         zerolog.Logger
}

// NewBroadcaster pushes a snapshot to every client each snapshotInterval.
// maxConns of 0 means unlimited.
func NewBroadcaster(snapshot SnapshotFunc, snapshotInterval time.Duration, maxConns int, logger zerolog.Logger) *Broadcaster {
	b := &Broadcaster{
		clients:        make(map[*client]bool),
		snapshot:       snapshot,
		maxConns:       maxConns,
		snapshotTicker: time.NewTicker(snapshotInterval),
		done:           make(chan struct{}),
		logger:         logger,
	}
	go b.snapshotLoop()
	return b
}

// AddClient registers conn and queues the current snapshot for it.
func (b *Broadcaster) AddClient(conn *websocket.Conn) (*client, error) {
	c := &client{conn: conn, b: b, send: make(chan []byte, 64)}
	if snap, ok := b.snapshot(); ok {
		if data, err := b.encode(MsgSnapshot, snap); err == nil {
			c.send <- data
		}
	}

	b.mu.Lock()
	if b.maxConns > 0 && len(b.clients) >= b.maxConns {
		b.mu.Unlock()
		return nil, ErrTooManyConnections
	}
	b.clients[c] = true
	b.mu.Unlock()

	go c.writePump()
	return c, nil
}

func (b *Broadcaster) RemoveClient(c *client) {
	b.mu.Lock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		close(c.send)
	}
	b.mu.Unlock()
}

// BroadcastSnapshot pushes the current snapshot to every client.
func (b *Broadcaster) BroadcastSnapshot() {
	if snap, ok := b.snapshot(); ok {
		b.broadcast(MsgSnapshot, snap)
	}
}

// BroadcastUnlocked announces newly completed achievements.
func (b *Broadcaster) BroadcastUnlocked(list []achievements.Achievement) {
	if len(list) == 0 {
		return
	}
	b.broadcast(MsgAchievementsUnlocked, AchievementsUnlockedPayload{Achievements: list})
}

func (b *Broadcaster) snapshotLoop() {
	for {
		select {
		case <-b.done:
			return
		case <-b.snapshotTicker.C:
			b.BroadcastSnapshot()
		}
	}
}

func (b *Broadcaster) encode(t MessageType, payload interface{}) ([]byte, error) {
	return json.Marshal(WSMessage{Type: t, Seq: b.seq.Add(1), Payload: payload})
}

func (b *Broadcaster) broadcast(t MessageType, payload interface{}) {
	data, err := b.encode(t, payload)
	if err != nil {
		b.logger.Error().Err(err).Str("type", string(t)).Msg("broadcast marshal error")
		return
	}

	var slow []*client
	b.mu.RLock()
	for c := range b.clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	b.mu.RUnlock()

	for _, c := range slow {
		b.logger.Warn().Msg("ws client too slow, disconnecting")
		b.RemoveClient(c)
	}
}

func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// Stop halts the snapshot loop and disconnects every client.
func (b *Broadcaster) Stop() {
	b.stopOnce.Do(func() {
		b.snapshotTicker.Stop()
		close(b.done)

		b.mu.Lock()
		for c := range b.clients {
			delete(b.clients, c)
			close(c.send)
		}
		b.mu.Unlock()
	})
}
