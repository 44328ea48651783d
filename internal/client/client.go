// Package client talks to the Vision Log server over HTTP and websockets.
// It implements board.Backend.
package client

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"

	"github.com/relayvision/visionlog/internal/board"
	"github.com/relayvision/visionlog/internal/model"
)

const userAgent = "visionlog-cli/0.1"

// Client is a typed API client bound to one session.
type Client struct {
	http    *resty.Client
	baseURL string
	session *Session
}

var _ board.Backend = (*Client)(nil)

// New builds a client for the server at baseURL. Every request carries the
// session's bearer token when there is one.
func New(baseURL string, session *Session, timeout time.Duration) *Client {
	h := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(jsoniter.Marshal).
		SetJSONUnmarshaler(jsoniter.Unmarshal)

	h.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if token := session.Token(); token != "" {
			req.SetAuthToken(token)
		}
		slog.Debug("http request", "method", req.Method, "url", req.URL)
		return nil
	})

	h.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		slog.Debug("http response", "status", resp.StatusCode(), "url", resp.Request.URL, "duration", resp.Time())
		return nil
	})

	return &Client{http: h, baseURL: baseURL, session: session}
}

// Session returns the session the client authenticates with.
func (c *Client) Session() *Session {
	return c.session
}

func (c *Client) r(ctx context.Context) *resty.Request {
	return c.http.R().SetContext(ctx)
}

// Snapshot fetches everything the board shows.
func (c *Client) Snapshot(ctx context.Context) (*model.Snapshot, error) {
	var snap model.Snapshot
	resp, err := c.r(ctx).SetResult(&snap).Get("/api/snapshot")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *Client) CreateThought(ctx context.Context, in model.ThoughtInput) (*model.Thought, error) {
	var thought model.Thought
	resp, err := c.r(ctx).SetBody(in).SetResult(&thought).Post("/api/thoughts")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &thought, nil
}

func (c *Client) UpdateThought(ctx context.Context, id string, patch model.ThoughtPatch) error {
	resp, err := c.r(ctx).SetPathParam("id", id).SetBody(patch).Patch("/api/thoughts/{id}")
	return check(resp, err)
}

func (c *Client) DeleteThought(ctx context.Context, id string) error {
	resp, err := c.r(ctx).SetPathParam("id", id).Delete("/api/thoughts/{id}")
	return check(resp, err)
}

func (c *Client) CreateMission(ctx context.Context, in model.MissionInput) (*model.Mission, error) {
	var mission model.Mission
	resp, err := c.r(ctx).SetBody(in).SetResult(&mission).Post("/api/missions")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &mission, nil
}

func (c *Client) ToggleMission(ctx context.Context, id string, action board.Action) error {
	resp, err := c.r(ctx).
		SetPathParam("id", id).
		SetBody(map[string]string{"action": string(action)}).
		Post("/api/missions/{id}/toggle")
	return check(resp, err)
}

func (c *Client) CheerMission(ctx context.Context, id, note string) error {
	resp, err := c.r(ctx).
		SetPathParam("id", id).
		SetBody(map[string]string{"note": note}).
		Post("/api/missions/{id}/cheer")
	return check(resp, err)
}

func (c *Client) DeleteMission(ctx context.Context, id string) error {
	resp, err := c.r(ctx).SetPathParam("id", id).Delete("/api/missions/{id}")
	return check(resp, err)
}

func (c *Client) RolloverMissions(ctx context.Context) error {
	resp, err := c.r(ctx).Post("/api/missions/rollover")
	return check(resp, err)
}

// RecentTasks returns task texts from past boards for quick re-adding.
func (c *Client) RecentTasks(ctx context.Context) ([]string, error) {
	var out struct {
		Tasks []string `json:"tasks"`
	}
	resp, err := c.r(ctx).SetResult(&out).Get("/api/missions/recent")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return out.Tasks, nil
}

func (c *Client) CreateGoal(ctx context.Context, title, color string, private bool) (*model.Goal, error) {
	var goal model.Goal
	resp, err := c.r(ctx).
		SetBody(map[string]any{"title": title, "color": color, "is_private": private}).
		SetResult(&goal).
		Post("/api/goals")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &goal, nil
}

func (c *Client) SetGoalPrivate(ctx context.Context, id string, private bool) error {
	resp, err := c.r(ctx).
		SetPathParam("id", id).
		SetBody(map[string]bool{"is_private": private}).
		Patch("/api/goals/{id}")
	return check(resp, err)
}

func (c *Client) DeleteGoal(ctx context.Context, id string) error {
	resp, err := c.r(ctx).SetPathParam("id", id).Delete("/api/goals/{id}")
	return check(resp, err)
}

func (c *Client) CreateVision(ctx context.Context, in model.VisionInput) (*model.Vision, error) {
	var vision model.Vision
	resp, err := c.r(ctx).SetBody(in).SetResult(&vision).Post("/api/visions")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &vision, nil
}

func (c *Client) UpdateVision(ctx context.Context, id string, in model.VisionInput) error {
	resp, err := c.r(ctx).SetPathParam("id", id).SetBody(in).Put("/api/visions/{id}")
	return check(resp, err)
}

func (c *Client) UpdateVisionCurrent(ctx context.Context, id string, current float64) error {
	resp, err := c.r(ctx).
		SetPathParam("id", id).
		SetBody(map[string]float64{"metric_current": current}).
		Patch("/api/visions/{id}/current")
	return check(resp, err)
}

func (c *Client) DeleteVision(ctx context.Context, id string) error {
	resp, err := c.r(ctx).SetPathParam("id", id).Delete("/api/visions/{id}")
	return check(resp, err)
}
