package entity

import (
	"time"

	"github.com/google/uuid"
)

// CompletionEvent is announced after a thumbnail has been written.
type CompletionEvent struct {
	EventID           uuid.UUID `json:"event_id"`
	Bucket            string    `json:"bucket"`
	Key               string    `json:"key"`
	Thumbnail         string    `json:"thumbnail"`
	ContentType       string    `json:"content_type"`
	SourceContentType string    `json:"source_content_type,omitempty"`
	Size              int       `json:"size"`
	Width             int       `json:"width"`
	Height            int       `json:"height"`
	CreatedAt         time.Time `json:"created_at"`
}
