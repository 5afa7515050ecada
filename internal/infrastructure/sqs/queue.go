package sqs

import (
	"context"
	"fmt"
	"strconv"

	"github.com/andreyxaxa/thumbnail-worker/internal/entity"
	"github.com/andreyxaxa/thumbnail-worker/pkg/sqsclient"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// SQS limits for a single ReceiveMessage call.
const (
	maxBatchSize   = 10
	maxWaitSeconds = 20
)

type api interface {
	ReceiveMessage(ctx context.Context, in *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, in *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

type Queue struct {
	api      api
	queueURL string
}

func NewQueue(c *sqsclient.SQSClient) *Queue {
	return &Queue{
		api:      c.Client,
		queueURL: c.QueueURL,
	}
}

// Poll long-polls for up to maxMessages messages and hides them for visibilityTimeout seconds.
func (q *Queue) Poll(ctx context.Context, maxMessages, waitSeconds, visibilityTimeout int32) ([]entity.QueueMessage, error) {
	out, err := q.api.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(q.queueURL),
		MaxNumberOfMessages: clamp(maxMessages, 1, maxBatchSize),
		WaitTimeSeconds:     clamp(waitSeconds, 0, maxWaitSeconds),
		VisibilityTimeout:   visibilityTimeout,
		MessageSystemAttributeNames: []types.MessageSystemAttributeName{
			types.MessageSystemAttributeNameApproximateReceiveCount,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("Queue - Poll - q.api.ReceiveMessage: %w", err)
	}

	msgs := make([]entity.QueueMessage, 0, len(out.Messages))
	for _, m := range out.Messages {
		msgs = append(msgs, toQueueMessage(m))
	}

	return msgs, nil
}

func (q *Queue) Acknowledge(ctx context.Context, receiptHandle string) error {
	_, err := q.api.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(q.queueURL),
		ReceiptHandle: aws.String(receiptHandle),
	})
	if err != nil {
		return fmt.Errorf("Queue - Acknowledge - q.api.DeleteMessage: %w", err)
	}

	return nil
}

func toQueueMessage(m types.Message) entity.QueueMessage {
	msg := entity.QueueMessage{
		ID:            aws.ToString(m.MessageId),
		Body:          []byte(aws.ToString(m.Body)),
		ReceiptHandle: aws.ToString(m.ReceiptHandle),
	}

	if v, ok := m.Attributes[string(types.MessageSystemAttributeNameApproximateReceiveCount)]; ok {
		msg.ReceiveCount, _ = strconv.Atoi(v)
	}

	return msg
}

func clamp(v, lo, hi int32) int32 {
	return max(lo, min(v, hi))
}
