package infrastructure

import (
	"context"

	"github.com/andreyxaxa/thumbnail-worker/internal/entity"
)

type (
	Queue interface {
		Poll(ctx context.Context, maxMessages, waitSeconds, visibilityTimeout int32) ([]entity.QueueMessage, error)
		Acknowledge(ctx context.Context, receiptHandle string) error
	}

	// Transformer errors wrapping errs.ErrMalformedImage are permanent.
	Transformer interface {
		Transform(ctx context.Context, data []byte, maxWidth int) (entity.TransformResult, error)
	}

	Notifier interface {
		Publish(ctx context.Context, event entity.CompletionEvent) error
		Close() error
	}
)
