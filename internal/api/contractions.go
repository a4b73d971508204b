package api

import (
	"context"
	"net/http"
	"time"
)

type createContractionCounterRequest struct {
	Status string `json:"status"`
}

// CreateContractionCounter opens a new contraction session. New sessions
// are always created active.
func (c *Client) CreateContractionCounter(ctx context.Context) (*ContractionCounter, error) {
	var out ContractionCounter
	err := c.do(ctx, http.MethodPost, "/contraction-counters", createContractionCounterRequest{Status: ContractionActive}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListMyContractionCounters(ctx context.Context) ([]ContractionCounter, error) {
	var out []ContractionCounter
	if err := c.do(ctx, http.MethodGet, "/contraction-counters/my", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CloseContractionCounter closes the session and returns the server's
// authoritative representation.
func (c *Client) CloseContractionCounter(ctx context.Context, id string) (*ContractionCounter, error) {
	var out ContractionCounter
	if err := c.do(ctx, http.MethodPatch, "/contraction-counters/"+id+"/close", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteContractionCounter(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/contraction-counters/"+id, nil, nil)
}

type createContractionLogRequest struct {
	CounterID string    `json:"counterId"`
	StartedAt time.Time `json:"startedAt"`
	EndedAt   time.Time `json:"endedAt"`
	Duration  int       `json:"duration"`
}

// CreateContractionLog records one completed contraction. Duration is
// whole seconds, floor((endedAt-startedAt)/1s), and is persisted
// server-side alongside the two instants.
func (c *Client) CreateContractionLog(ctx context.Context, counterID string, startedAt, endedAt time.Time, duration int) (*ContractionLog, error) {
	var out ContractionLog
	err := c.do(ctx, http.MethodPost, "/contraction-logs", createContractionLogRequest{
		CounterID: counterID,
		StartedAt: startedAt,
		EndedAt:   endedAt,
		Duration:  duration,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListContractionLogs(ctx context.Context, counterID string) ([]ContractionLog, error) {
	var out []ContractionLog
	if err := c.do(ctx, http.MethodGet, "/contraction-logs/counter/"+counterID, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteContractionLog(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/contraction-logs/"+id, nil, nil)
}
