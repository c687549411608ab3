package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/programmatix/game-tracker/internal/achievements"
	"github.com/programmatix/game-tracker/internal/pins"
	"github.com/programmatix/game-tracker/internal/ws"
)

func TestGetAchievements(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/achievements", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(ws.AchievementsResponse{
			Available:        []achievements.Achievement{{ID: "a"}},
			Completed:        []achievements.Achievement{},
			NewSinceSnapshot: []achievements.Achievement{{ID: "b"}},
		})
	}))
	t.Cleanup(srv.Close)

	got, err := NewHTTPClient(srv.URL, "secret").GetAchievements(context.Background())
	require.NoError(t, err)
	require.Len(t, got.Available, 1)
	require.Len(t, got.NewSinceSnapshot, 1)
	assert.Equal(t, "b", got.NewSinceSnapshot[0].ID)
}

func TestLocalPinsNeverCallServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	c := NewHTTPClient(srv.URL, "")
	c.UseLocalPins(pins.NewLocalStore(dir, zerolog.Nop()), "me")
	ctx := context.Background()

	ids, err := c.TogglePin(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, ids)

	ids, err = c.TogglePin(ctx, "y")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, ids)

	got, err := c.Pins(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, got)

	ids, err = c.TogglePin(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, []string{"y"}, ids)

	assert.Equal(t, []string{"y"}, pins.NewLocalStore(dir, zerolog.Nop()).Pinned("me"), "pins persist on disk")
}

func TestRemotePinsUnauthenticated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ws.ErrorPayload{Error: "unauthenticated"})
	}))
	t.Cleanup(srv.Close)

	_, err := NewHTTPClient(srv.URL, "wrong").TogglePin(context.Background(), "x")
	assert.ErrorIs(t, err, pins.ErrUnauthenticated)
}
