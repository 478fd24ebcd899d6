package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// IndexJob tracks one asynchronous run of the search-index worker after a
// guide is published.
type IndexJob struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	GuideSlug    string     `json:"guide_slug"`
	Status       string     `json:"status"` // "queued" | "processing" | "completed" | "failed"
	ErrorMessage *string    `json:"error_message"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at"`
}

// IndexQueueItem is the payload pushed onto the Redis index queue.
type IndexQueueItem struct {
	JobID    uuid.UUID       `json:"job_id"`
	UserID   uuid.UUID       `json:"user_id"`
	Slug     string          `json:"slug"`
	Document json.RawMessage `json:"document"`
}

// WebSocket message types

type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type UploadProgressEvent struct {
	Percent int `json:"percent"`
}

type IndexCompletedEvent struct {
	JobID     uuid.UUID `json:"job_id"`
	GuideSlug string    `json:"guide_slug"`
}

type IndexFailedEvent struct {
	JobID        uuid.UUID `json:"job_id"`
	GuideSlug    string    `json:"guide_slug"`
	ErrorMessage string    `json:"error_message"`
}

// API Error response

type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
