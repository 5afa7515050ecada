package sqsclient

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

const (
	_defaultConnAttempts = 10
	_defaultConnTimeout  = time.Second
)

type SQSClient struct {
	connAttempts int
	connTimeout  time.Duration

	QueueURL string
	Client   *sqs.Client
}

func New(ctx context.Context, cfg aws.Config, queueURL string, opts ...Option) (*SQSClient, error) {
	c := &SQSClient{
		connAttempts: _defaultConnAttempts,
		connTimeout:  _defaultConnTimeout,
		QueueURL:     queueURL,
		Client:       sqs.NewFromConfig(cfg),
	}

	for _, opt := range opts {
		opt(c)
	}

	var err error
	for c.connAttempts > 0 {
		err = c.ping(ctx)
		if err == nil {
			break
		}

		log.Printf("SQS is trying to connect, attempts left: %d", c.connAttempts)

		time.Sleep(c.connTimeout)

		c.connAttempts--
	}

	if err != nil {
		return nil, fmt.Errorf("SQSClient - New - connAttempts == 0: %w", err)
	}

	return c, nil
}

func (c *SQSClient) ping(ctx context.Context) error {
	_, err := c.Client.GetQueueAttributes(ctx, &sqs.GetQueueAttributesInput{
		QueueUrl:       aws.String(c.QueueURL),
		AttributeNames: []types.QueueAttributeName{types.QueueAttributeNameQueueArn},
	})
	if err != nil {
		return fmt.Errorf("SQSClient - c.Client.GetQueueAttributes: %w", err)
	}

	return nil
}
