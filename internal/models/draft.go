package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Draft is one persisted authoring session. State holds the serialized
// guide session (metadata, sections, element registry) as stored in the
// drafts JSONB column; it is re-saved after every editor operation.
type Draft struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Title     string          `json:"title"`
	Slug      string          `json:"slug"`
	State     json.RawMessage `json:"state"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type CreateDraftRequest struct {
	Title string `json:"title"`
}

type ImportGuideRequest struct {
	Slug string `json:"slug"`
}

type SetFieldRequest struct {
	Field string          `json:"field"`
	Value json.RawMessage `json:"value"`
}

type MoveSectionRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type AttachElementRequest struct {
	SectionIndex int `json:"section_index"`
}

type PublishRequest struct {
	Mode string `json:"mode"` // "create" | "update"
}

type ValidateVideoRequest struct {
	URL string `json:"url"`
}

type VideoMetadata struct {
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`
	ChannelName  string `json:"channel_name"`
	ThumbnailURL string `json:"thumbnail_url"`
	Duration     int    `json:"duration_seconds"`
}
