package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	NotifyBackendSNS   = "sns"
	NotifyBackendKafka = "kafka"

	_defaultUploadsPrefix = "uploads/"
	_defaultThumbPrefix   = "thumbnails/"
)

type (
	Config struct {
		Queue     Queue
		Storage   Storage
		Thumbnail Thumbnail
		AWS       AWS
		Notify    Notify
		Kafka     Kafka
		PG        PG
		HTTP      HTTP
		Log       Log
	}

	Queue struct {
		URL              string        `env:"QUEUE_URL,required,notEmpty"`
		WaitTimeSeconds  int32         `env:"WAIT_TIME_SECONDS" envDefault:"20"`
		MaxMessages      int32         `env:"MAX_MESSAGES" envDefault:"1"`
		VisibilityBuffer int32         `env:"VISIBILITY_BUFFER" envDefault:"30"` // seconds on top of the long poll
		AckTimeout       time.Duration `env:"ACK_TIMEOUT" envDefault:"5s"`
		PollErrorBackoff time.Duration `env:"POLL_ERROR_BACKOFF" envDefault:"1s"`
		ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"60s"`
	}

	Storage struct {
		Bucket        string `env:"BUCKET,required,notEmpty"`
		UploadsPrefix string `env:"UPLOADS_PREFIX"`
		UsePathStyle  bool   `env:"S3_USE_PATH_STYLE" envDefault:"false"`
	}

	Thumbnail struct {
		Prefix           string        `env:"THUMB_PREFIX"`
		MaxWidth         int           `env:"THUMB_MAX_WIDTH" envDefault:"512"`
		RetryCodecErrors bool          `env:"THUMB_RETRY_CODEC_ERRORS" envDefault:"false"`
		CPUTimeout       time.Duration `env:"THUMB_CPU_TIMEOUT" envDefault:"20s"`
	}

	AWS struct {
		// AWS_REGION and the shared config profile are resolved by the SDK
		DefaultRegion string `env:"AWS_DEFAULT_REGION"`
		Endpoint      string `env:"AWS_ENDPOINT"`
		AccessKey     string `env:"AWS_ACCESS_KEY_ID"`
		SecretKey     string `env:"AWS_SECRET_ACCESS_KEY"`
		MaxAttempts   int    `env:"AWS_MAX_ATTEMPTS" envDefault:"10"`
	}

	Notify struct {
		Backend     string `env:"NOTIFY_BACKEND"`
		SNSTopicARN string `env:"SNS_TOPIC_ARN"`
	}

	Kafka struct {
		Brokers []string `env:"KAFKA_BROKERS"`
		Topic   string   `env:"KAFKA_TOPIC"`
	}

	PG struct {
		PoolMax     int    `env:"PG_POOL_MAX" envDefault:"2"`
		URL         string `env:"PG_URL"`
		AutoMigrate bool   `env:"PG_AUTO_MIGRATE" envDefault:"true"`
	}

	HTTP struct {
		Enabled bool   `env:"HTTP_ENABLED" envDefault:"true"`
		Port    string `env:"HTTP_PORT" envDefault:"8080"`
	}

	Log struct {
		Level string `env:"LOG_LEVEL" envDefault:"info"`
	}
)

func New() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	// an empty prefix is meaningful, so defaults apply only to unset variables
	cfg.Storage.UploadsPrefix = lookupOr("UPLOADS_PREFIX", _defaultUploadsPrefix)
	cfg.Thumbnail.Prefix = lookupOr("THUMB_PREFIX", _defaultThumbPrefix)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	return cfg, nil
}

func lookupOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}

	return def
}

// NotifyBackend resolves the completion notification backend. An empty
// string means notifications are disabled.
func (c *Config) NotifyBackend() string {
	backend := strings.ToLower(strings.TrimSpace(c.Notify.Backend))
	if backend == "" && c.Notify.SNSTopicARN != "" {
		return NotifyBackendSNS
	}

	return backend
}

func (c *Config) validate() error {
	var errs []error

	if c.Queue.WaitTimeSeconds < 0 || c.Queue.WaitTimeSeconds > 20 {
		errs = append(errs, fmt.Errorf("WAIT_TIME_SECONDS must be in [0, 20], got %d", c.Queue.WaitTimeSeconds))
	}

	if c.Queue.MaxMessages < 1 || c.Queue.MaxMessages > 10 {
		errs = append(errs, fmt.Errorf("MAX_MESSAGES must be in [1, 10], got %d", c.Queue.MaxMessages))
	}

	if c.Queue.VisibilityBuffer < 0 {
		errs = append(errs, fmt.Errorf("VISIBILITY_BUFFER must not be negative, got %d", c.Queue.VisibilityBuffer))
	}

	if c.Queue.WaitTimeSeconds+c.Queue.VisibilityBuffer <= 0 {
		errs = append(errs, errors.New("WAIT_TIME_SECONDS + VISIBILITY_BUFFER must be positive"))
	}

	if c.Thumbnail.MaxWidth < 1 {
		errs = append(errs, fmt.Errorf("THUMB_MAX_WIDTH must be positive, got %d", c.Thumbnail.MaxWidth))
	}

	// thumbnails written under the uploads prefix would be processed again
	if c.Storage.UploadsPrefix != "" && c.Storage.UploadsPrefix == c.Thumbnail.Prefix {
		errs = append(errs, fmt.Errorf("UPLOADS_PREFIX and THUMB_PREFIX must differ, both are %q", c.Storage.UploadsPrefix))
	}

	switch c.NotifyBackend() {
	case "":
	case NotifyBackendSNS:
		if c.Notify.SNSTopicARN == "" {
			errs = append(errs, errors.New("SNS_TOPIC_ARN is required for the sns backend"))
		}
	case NotifyBackendKafka:
		if len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "" {
			errs = append(errs, errors.New("KAFKA_BROKERS and KAFKA_TOPIC are required for the kafka backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown NOTIFY_BACKEND %q", c.Notify.Backend))
	}

	return errors.Join(errs...)
}
