package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/programmatix/game-tracker/internal/achievements"
)

func noSnapshot() (SnapshotPayload, bool) { return SnapshotPayload{}, false }

// dialTestWS returns the server side of a fresh WebSocket connection. The
// caller closes the returned server.
func dialTestWS(t *testing.T) (*httptest.Server, *websocket.Conn) {
	t.Helper()

	connCh := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		connCh <- c
	}))

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	clientConn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("dial: %v", err)
	}
	_ = clientConn.Close()

	select {
	case serverConn := <-connCh:
		return srv, serverConn
	case <-time.After(2 * time.Second):
		srv.Close()
		t.Fatal("timed out waiting for server-side WebSocket connection")
		return nil, nil
	}
}

func TestAddClient_MaxConnections(t *testing.T) {
	const maxConns = 2
	b := NewBroadcaster(noSnapshot, time.Hour, maxConns, zerolog.Nop())
	defer b.Stop()

	// Fill up to the limit.
	var clients []*client
	var servers []*httptest.Server
	for i := 0; i < maxConns; i++ {
		srv, conn := dialTestWS(t)
		servers = append(servers, srv)

		c, err := b.AddClient(conn)
		if err != nil {
			t.Fatalf("AddClient[%d]: unexpected error: %v", i, err)
		}
		clients = append(clients, c)
	}

	if got := b.ClientCount(); got != maxConns {
		t.Fatalf("expected %d clients, got %d", maxConns, got)
	}

	// Next connection should be rejected.
	srv, conn := dialTestWS(t)
	servers = append(servers, srv)

	_, err := b.AddClient(conn)
	if !errors.Is(err, ErrTooManyConnections) {
		t.Fatalf("expected ErrTooManyConnections, got %v", err)
	}

	if got := b.ClientCount(); got != maxConns {
		t.Fatalf("expected %d clients after rejection, got %d", maxConns, got)
	}

	// Remove one client, then adding should succeed again.
	b.RemoveClient(clients[0])

	srv2, conn2 := dialTestWS(t)
	servers = append(servers, srv2)

	_, err = b.AddClient(conn2)
	if err != nil {
		t.Fatalf("AddClient after removal: unexpected error: %v", err)
	}

	if got := b.ClientCount(); got != maxConns {
		t.Fatalf("expected %d clients after re-add, got %d", maxConns, got)
	}

	// Cleanup.
	for _, srv := range servers {
		srv.Close()
	}
}

func TestAddClient_ZeroMaxConnections_Unlimited(t *testing.T) {
	b := NewBroadcaster(noSnapshot, time.Hour, 0, zerolog.Nop())
	defer b.Stop()

	// Should be able to add many connections without rejection.
	var servers []*httptest.Server
	for i := 0; i < 10; i++ {
		srv, conn := dialTestWS(t)
		servers = append(servers, srv)

		_, err := b.AddClient(conn)
		if err != nil {
			t.Fatalf("AddClient[%d]: unexpected error with maxConns=0: %v", i, err)
		}
	}

	if got := b.ClientCount(); got != 10 {
		t.Fatalf("expected 10 clients, got %d", got)
	}

	for _, srv := range servers {
		srv.Close()
	}
}

func TestMaxConnections_OnlyAdmittedClientsGetLadder(t *testing.T) {
	snap := SnapshotPayload{
		Username: "me",
		Completed: []achievements.Achievement{
			{ID: "finalgirl-plays-total-1", GameName: "Final Girl", Status: achievements.StatusCompleted},
		},
		NewSinceSnapshot: []achievements.Achievement{
			{ID: "finalgirl-plays-total-1", GameName: "Final Girl", Status: achievements.StatusCompleted},
		},
	}
	b := NewBroadcaster(func() (SnapshotPayload, bool) { return snap, true }, time.Hour, 1, zerolog.Nop())
	defer b.Stop()

	admitted := connectClient(t, b)
	typ, _, payload := readMessage(t, admitted)
	if typ != MsgSnapshot {
		t.Fatalf("first message = %q, want snapshot", typ)
	}
	var got SnapshotPayload
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if len(got.NewSinceSnapshot) != 1 || got.NewSinceSnapshot[0].ID != "finalgirl-plays-total-1" {
		t.Errorf("newSinceSnapshot = %+v", got.NewSinceSnapshot)
	}

	rejected := connectClient(t, b)
	rejected.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := rejected.ReadMessage(); err == nil {
		t.Error("client over the limit should be closed without a snapshot")
	}

	b.BroadcastUnlocked([]achievements.Achievement{{ID: "finalgirl-wins-total-1", Status: achievements.StatusCompleted}})
	typ, _, payload = readMessage(t, admitted)
	if typ != MsgAchievementsUnlocked {
		t.Fatalf("second message = %q, want achievements_unlocked", typ)
	}
	var unlocked AchievementsUnlockedPayload
	if err := json.Unmarshal(payload, &unlocked); err != nil {
		t.Fatalf("decode unlocked: %v", err)
	}
	if len(unlocked.Achievements) != 1 || unlocked.Achievements[0].ID != "finalgirl-wins-total-1" {
		t.Errorf("unlocked = %+v", unlocked.Achievements)
	}
	if got := b.ClientCount(); got != 1 {
		t.Errorf("clients = %d, want 1", got)
	}
}
