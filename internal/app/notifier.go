package app

import (
	"context"
	"fmt"

	"github.com/andreyxaxa/thumbnail-worker/config"
	"github.com/andreyxaxa/thumbnail-worker/internal/infrastructure"
	infrakafka "github.com/andreyxaxa/thumbnail-worker/internal/infrastructure/kafka"
	infrasns "github.com/andreyxaxa/thumbnail-worker/internal/infrastructure/sns"
	"github.com/andreyxaxa/thumbnail-worker/pkg/kafka/producer"
	"github.com/andreyxaxa/thumbnail-worker/pkg/snsclient"
	"github.com/andreyxaxa/thumbnail-worker/pkg/types/errs"
	"github.com/aws/aws-sdk-go-v2/aws"
)

// newNotifier returns a nil Notifier when completion events are disabled.
func newNotifier(ctx context.Context, cfg *config.Config, awsCfg aws.Config) (infrastructure.Notifier, error) {
	switch backend := cfg.NotifyBackend(); backend {
	case "":
		return nil, nil
	case config.NotifyBackendSNS:
		c, err := snsclient.New(ctx, awsCfg, cfg.Notify.SNSTopicARN)
		if err != nil {
			return nil, fmt.Errorf("snsclient.New: %w", err)
		}

		return infrasns.NewNotifier(c), nil
	case config.NotifyBackendKafka:
		p, err := producer.New(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return nil, fmt.Errorf("producer.New: %w", err)
		}

		return infrakafka.NewEventProducer(p), nil
	default:
		return nil, fmt.Errorf("%w: %q", errs.ErrUnknownBackend, backend)
	}
}
