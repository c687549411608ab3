package pins

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var (
	// ErrUnauthenticated is returned when the server rejects the token.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrTooManyPins is returned for pin lists longer than MaxPins.
	ErrTooManyPins = errors.New("too many pins")
)

// RemoteStore calls the server's pin RPC endpoints on behalf of one
// authenticated user.
type RemoteStore struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewRemoteStore creates a client targeting baseURL (e.g. "http://127.0.0.1:8080").
func NewRemoteStore(baseURL, token string) *RemoteStore {
	return &RemoteStore{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Get fetches the pinned ids.
func (c *RemoteStore) Get(ctx context.Context) ([]string, error) {
	var out IDs
	if err := c.call(ctx, "/api/pins/get", IDs{}, &out); err != nil {
		return nil, err
	}
	if out.IDs == nil {
		return []string{}, nil
	}
	return out.IDs, nil
}

// Set replaces the pinned ids.
func (c *RemoteStore) Set(ctx context.Context, ids []string) error {
	if len(ids) > MaxPins {
		return fmt.Errorf("%w: %d > %d", ErrTooManyPins, len(ids), MaxPins)
	}
	if ids == nil {
		ids = []string{}
	}
	return c.call(ctx, "/api/pins/set", IDs{IDs: ids}, nil)
}

func (c *RemoteStore) call(ctx context.Context, path string, body IDs, out *IDs) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("POST %s: %w", path, ErrUnauthenticated)
	case resp.StatusCode == http.StatusRequestEntityTooLarge:
		return fmt.Errorf("POST %s: %w", path, ErrTooManyPins)
	case resp.StatusCode >= 300:
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("POST %s: %d %s", path, resp.StatusCode, string(respBody))
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
