package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/relayvision/visionlog/internal/model"
)

// ErrSignedOut is returned when an operation needs a session and there is none.
var ErrSignedOut = errors.New("not signed in")

// Filter narrows a realtime subscription. Empty fields match everything.
type Filter struct {
	Table string
	Event model.EventType
}

// Subscribe streams change events to fn until ctx ends or the connection
// drops. It returns nil when ctx ends; the connection is always closed
// before it returns.
func (c *Client) Subscribe(ctx context.Context, filter Filter, fn func(model.ChangeEvent)) error {
	token := c.session.Token()
	if token == "" {
		return ErrSignedOut
	}

	u, err := c.realtimeURL(filter)
	if err != nil {
		return err
	}

	conn, resp, err := websocket.Dial(ctx, u, &websocket.DialOptions{
		HTTPHeader: http.Header{
			"Authorization": []string{"Bearer " + token},
			"User-Agent":    []string{userAgent},
		},
	})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return &APIError{Code: "unauthorized", Message: "session expired", StatusCode: resp.StatusCode}
		}
		return fmt.Errorf("failed to connect to realtime: %w", err)
	}
	defer conn.CloseNow()

	for {
		var ev model.ChangeEvent
		err := wsjson.Read(ctx, conn, &ev)
		if err != nil {
			if ctx.Err() != nil {
				conn.Close(websocket.StatusNormalClosure, "")
				return nil
			}
			return fmt.Errorf("realtime connection lost: %w", err)
		}
		fn(ev)
	}
}

func (c *Client) realtimeURL(filter Filter) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid server url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/api/realtime"

	q := url.Values{}
	if filter.Table != "" {
		q.Set("table", filter.Table)
	}
	if filter.Event != "" {
		q.Set("event", strings.ToLower(string(filter.Event)))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
