package api

import (
	"context"
	"net/http"
	"time"
)

type createKickCounterRequest struct {
	StartedAt time.Time `json:"startedAt"`
	Period    int       `json:"period,omitempty"`
}

// CreateKickCounter starts a new kick session with the given period in
// hours. startedAt is the client's wall clock at the moment of creation.
func (c *Client) CreateKickCounter(ctx context.Context, startedAt time.Time, period int) (*KickCounter, error) {
	var out KickCounter
	err := c.do(ctx, http.MethodPost, "/kick-counters", createKickCounterRequest{StartedAt: startedAt, Period: period}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListMyKickCounters(ctx context.Context) ([]KickCounter, error) {
	var out []KickCounter
	if err := c.do(ctx, http.MethodGet, "/kick-counters/my", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CompleteKickCounter finishes the session and returns the server's
// authoritative representation.
func (c *Client) CompleteKickCounter(ctx context.Context, id string) (*KickCounter, error) {
	var out KickCounter
	if err := c.do(ctx, http.MethodPut, "/kick-counters/"+id+"/complete", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteKickCounter(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/kick-counters/"+id, nil, nil)
}

type createKickLogRequest struct {
	CounterID  string    `json:"counterId"`
	HappenedAt time.Time `json:"happenedAt"`
}

func (c *Client) CreateKickLog(ctx context.Context, counterID string, happenedAt time.Time) (*KickLog, error) {
	var out KickLog
	err := c.do(ctx, http.MethodPost, "/kick-logs", createKickLogRequest{CounterID: counterID, HappenedAt: happenedAt}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListKickLogs(ctx context.Context, counterID string) ([]KickLog, error) {
	var out []KickLog
	if err := c.do(ctx, http.MethodGet, "/kick-logs/counter/"+counterID, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteKickLog(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/kick-logs/"+id, nil, nil)
}
