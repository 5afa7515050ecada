// Package awscfg loads the shared aws.Config used by the S3, SQS and SNS clients.
package awscfg

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

const (
	_defaultRegion      = "eu-central-1"
	_defaultMaxAttempts = 10
)

type settings struct {
	fallbackRegion string
	endpoint       string
	accessKey      string
	secretKey      string
	maxAttempts    int
}

type Option func(*settings)

// FallbackRegion is used only when neither AWS_REGION nor the shared config
// profile name a region.
func FallbackRegion(region string) Option {
	return func(s *settings) {
		if region != "" {
			s.fallbackRegion = region
		}
	}
}

// Endpoint overrides the service endpoint for every client (LocalStack, MinIO).
func Endpoint(endpoint string) Option {
	return func(s *settings) {
		s.endpoint = endpoint
	}
}

// StaticCredentials is applied only when both keys are set; otherwise the default chain is used.
func StaticCredentials(accessKey, secretKey string) Option {
	return func(s *settings) {
		s.accessKey = accessKey
		s.secretKey = secretKey
	}
}

func MaxAttempts(attempts int) Option {
	return func(s *settings) {
		if attempts > 0 {
			s.maxAttempts = attempts
		}
	}
}

func Load(ctx context.Context, opts ...Option) (aws.Config, error) {
	s := &settings{
		fallbackRegion: _defaultRegion,
		maxAttempts:    _defaultMaxAttempts,
	}

	for _, opt := range opts {
		opt(s)
	}

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRetryMode(aws.RetryModeStandard),
		config.WithRetryMaxAttempts(s.maxAttempts),
	}

	if s.endpoint != "" {
		loadOpts = append(loadOpts, config.WithBaseEndpoint(s.endpoint))
	}

	if s.accessKey != "" && s.secretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.accessKey, s.secretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("awscfg - Load - config.LoadDefaultConfig: %w", err)
	}

	if cfg.Region == "" {
		cfg.Region = s.fallbackRegion
	}

	return cfg, nil
}
