package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/andreyxaxa/thumbnail-worker/internal/entity"
	"github.com/andreyxaxa/thumbnail-worker/pkg/kafka/producer"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EventProducer publishes completion events keyed by thumbnail key, so every
// event for one thumbnail lands on the same partition.
type EventProducer struct {
	writer messageWriter
}

func NewEventProducer(p *producer.Producer) *EventProducer {
	return &EventProducer{writer: p.Writer}
}

func (ep *EventProducer) Publish(ctx context.Context, event entity.CompletionEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("EventProducer - Publish - json.Marshal: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.Thumbnail),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.EventID.String())},
			{Key: "content_type", Value: []byte(event.ContentType)},
		},
	}

	err = ep.writer.WriteMessages(ctx, msg)
	if err != nil {
		return fmt.Errorf("EventProducer - Publish - ep.writer.WriteMessages: %w", err)
	}

	return nil
}

func (ep *EventProducer) Close() error {
	err := ep.writer.Close()
	if err != nil {
		return fmt.Errorf("EventProducer - Close: %w", err)
	}

	return nil
}
