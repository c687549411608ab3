package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/programmatix/game-tracker/internal/achievements"
	"github.com/programmatix/game-tracker/internal/games"
	"github.com/programmatix/game-tracker/internal/pins"
	"github.com/programmatix/game-tracker/internal/ws"
)

// HTTPClient makes REST calls to the ladder server. Pins go to the server
// unless UseLocalPins switches them to this device.
type HTTPClient struct {
	baseURL string
	token   string
	client  *http.Client
	pins    *pins.RemoteStore

	local     *pins.LocalStore
	localUser string
}

// NewHTTPClient creates a client targeting baseURL (e.g. "http://127.0.0.1:8080").
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
		pins:    pins.NewRemoteStore(baseURL, token),
	}
}

// UseLocalPins keeps pins in store under username instead of on the server.
func (c *HTTPClient) UseLocalPins(store *pins.LocalStore, username string) {
	c.local = store
	c.localUser = username
}

func (c *HTTPClient) GetGames(ctx context.Context) ([]ws.GameInfo, error) {
	var out []ws.GameInfo
	return out, c.get(ctx, "/api/games", &out)
}

// GetAchievements fetches the ladder partition and the achievements new
// since the last snapshot.
func (c *HTTPClient) GetAchievements(ctx context.Context) (ws.AchievementsResponse, error) {
	var out ws.AchievementsResponse
	return out, c.get(ctx, "/api/achievements", &out)
}

func (c *HTTPClient) GetNext(ctx context.Context, limit int) ([]achievements.Achievement, error) {
	var out []achievements.Achievement
	return out, c.get(ctx, "/api/achievements/next?limit="+strconv.Itoa(limit), &out)
}

func (c *HTTPClient) GetEntries(ctx context.Context, gameID string) ([]games.Entry, error) {
	var out []games.Entry
	return out, c.get(ctx, "/api/entries?game="+url.QueryEscape(gameID), &out)
}

func (c *HTTPClient) GetHealth(ctx context.Context) (ws.HealthPayload, error) {
	var out ws.HealthPayload
	return out, c.get(ctx, "/api/health", &out)
}

// Pins fetches the pinned ids.
func (c *HTTPClient) Pins(ctx context.Context) ([]string, error) {
	if c.local != nil {
		return c.local.Pinned(c.localUser), nil
	}
	return c.pins.Get(ctx)
}

// TogglePin pins id when it is not pinned and unpins it otherwise,
// returning the new pin list.
func (c *HTTPClient) TogglePin(ctx context.Context, id string) ([]string, error) {
	if c.local != nil {
		return c.local.Toggle(c.localUser, id), nil
	}
	ids, err := c.pins.Get(ctx)
	if err != nil {
		return nil, err
	}
	if i := slices.Index(ids, id); i >= 0 {
		ids = slices.Delete(ids, i, i+1)
	} else {
		ids = append(ids, id)
	}
	if err := c.pins.Set(ctx, ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	c.setAuth(req)
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("GET %s: %d %s", path, resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *HTTPClient) setAuth(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
