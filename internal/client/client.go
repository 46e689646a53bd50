// Package client is a Go client for the realtime race channel. It
// backs the racebot CLI and the integration tests.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"nhooyr.io/websocket"

	"github.com/keydash/keydash/internal/wire"
)

// Client is one websocket connection to the race server.
type Client struct {
	conn *websocket.Conn
}

// Dial connects to the race channel of the server at baseURL (http://,
// https://, ws:// or wss://).
func Dial(ctx context.Context, baseURL string) (*Client, error) {
	url := strings.TrimRight(baseURL, "/") + "/ws"
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}
	return &Client{conn: conn}, nil
}

// Close closes the connection cleanly.
func (c *Client) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "")
}

// Emit sends one event. It does not wait for any acknowledgement;
// progress and result submission are fire-and-forget by design.
func (c *Client) Emit(ctx context.Context, event string, data any) error {
	msg, err := wire.Encode(event, data)
	if err != nil {
		return err
	}
	if err := c.conn.Write(ctx, websocket.MessageText, msg); err != nil {
		return fmt.Errorf("sending %s: %w", event, err)
	}
	return nil
}

// Next blocks until the server delivers the next event.
func (c *Client) Next(ctx context.Context) (wire.Event, error) {
	_, msg, err := c.conn.Read(ctx)
	if err != nil {
		return wire.Event{}, fmt.Errorf("reading event: %w", err)
	}
	var ev wire.Event
	if err := json.Unmarshal(msg, &ev); err != nil {
		return wire.Event{}, fmt.Errorf("decoding event: %w", err)
	}
	return ev, nil
}

// WaitFor reads events until one with the wanted name arrives,
// discarding everything else. An error event aborts the wait.
func (c *Client) WaitFor(ctx context.Context, want string) (wire.Event, error) {
	for {
		ev, err := c.Next(ctx)
		if err != nil {
			return wire.Event{}, err
		}
		if ev.Event == want {
			return ev, nil
		}
		if ev.Event == wire.EventError || ev.Event == wire.EventJoinError {
			var p wire.ErrorPayload
			_ = json.Unmarshal(ev.Data, &p)
			return ev, fmt.Errorf("server rejected request: %s", p.Reason)
		}
	}
}
