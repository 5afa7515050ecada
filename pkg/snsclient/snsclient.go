package snsclient

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

const (
	_defaultConnAttempts = 5
	_defaultConnTimeout  = time.Second
)

type SNSClient struct {
	connAttempts int
	connTimeout  time.Duration

	TopicARN string
	Client   *sns.Client
}

func New(ctx context.Context, cfg aws.Config, topicARN string, opts ...Option) (*SNSClient, error) {
	c := &SNSClient{
		connAttempts: _defaultConnAttempts,
		connTimeout:  _defaultConnTimeout,
		TopicARN:     topicARN,
		Client:       sns.NewFromConfig(cfg),
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

		log.Printf("SNS is trying to connect, attempts left: %d", c.connAttempts)

		time.Sleep(c.connTimeout)

		c.connAttempts--
	}

	if err != nil {
		return nil, fmt.Errorf("SNSClient - New - connAttempts == 0: %w", err)
	}

	return c, nil
}

func (c *SNSClient) ping(ctx context.Context) error {
	_, err := c.Client.GetTopicAttributes(ctx, &sns.GetTopicAttributesInput{
		TopicArn: aws.String(c.TopicARN),
	})
	if err != nil {
		return fmt.Errorf("SNSClient - c.Client.GetTopicAttributes: %w", err)
	}

	return nil
}
