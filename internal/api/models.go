package api

import "time"

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// KickCounter is a fixed-period kick counting session. Period is in whole
// hours (1-24) and never changes after creation.
type KickCounter struct {
	ID         string     `json:"id"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt"`
	KickCount  int        `json:"kickCount"`
	Period     int        `json:"period"`
	IsActive   bool       `json:"isActive"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	KickLogs   []KickLog  `json:"kickLogs,omitempty"`
}

type KickLog struct {
	ID         string    `json:"id"`
	CounterID  string    `json:"counterId"`
	HappenedAt time.Time `json:"happenedAt"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

const (
	ContractionActive = "active"
	ContractionClosed = "closed"
)

// ContractionCounter is an open-ended contraction session.
type ContractionCounter struct {
	ID              string           `json:"id"`
	UserID          string           `json:"userId"`
	Status          string           `json:"status"` // active or closed
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
	ContractionLogs []ContractionLog `json:"contractionLogs,omitempty"`
}

func (c ContractionCounter) Active() bool {
	return c.Status == ContractionActive
}

type ContractionLog struct {
	ID        string    `json:"id"`
	CounterID string    `json:"counterId"`
	StartedAt time.Time `json:"startedAt"`
	EndedAt   time.Time `json:"endedAt"`
	Duration  int       `json:"duration"` // seconds
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
