package entity

import (
	"time"

	"github.com/google/uuid"
)

type Thumbnail struct {
	ID uuid.UUID `json:"id"`

	Bucket       string `json:"bucket"`
	SourceKey    string `json:"source_key"`
	ThumbnailKey string `json:"thumbnail_key"`

	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
