package sns

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/andreyxaxa/thumbnail-worker/internal/entity"
	"github.com/andreyxaxa/thumbnail-worker/pkg/snsclient"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

const subject = "Image processed"

type publisher interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Notifier struct {
	api      publisher
	topicARN string
}

func NewNotifier(c *snsclient.SNSClient) *Notifier {
	return &Notifier{
		api:      c.Client,
		topicARN: c.TopicARN,
	}
}

func (n *Notifier) Publish(ctx context.Context, event entity.CompletionEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("SNSNotifier - Publish - json.Marshal: %w", err)
	}

	_, err = n.api.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("SNSNotifier - Publish - n.api.Publish: %w", err)
	}

	return nil
}

func (n *Notifier) Close() error {
	return nil
}
