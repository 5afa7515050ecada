package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()

	t.Setenv("QUEUE_URL", "https://sqs.eu-central-1.amazonaws.com/123/image-processing-queue")
	t.Setenv("BUCKET", "image-upload-bucket")
}

func TestNew_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "uploads/", cfg.Storage.UploadsPrefix)
	assert.Equal(t, "thumbnails/", cfg.Thumbnail.Prefix)
	assert.Equal(t, 512, cfg.Thumbnail.MaxWidth)
	assert.False(t, cfg.Thumbnail.RetryCodecErrors)
	assert.Equal(t, int32(20), cfg.Queue.WaitTimeSeconds)
	assert.Equal(t, int32(1), cfg.Queue.MaxMessages)
	assert.Equal(t, int32(30), cfg.Queue.VisibilityBuffer)
	assert.Equal(t, 5*time.Second, cfg.Queue.AckTimeout)
	assert.Equal(t, time.Second, cfg.Queue.PollErrorBackoff)
	assert.Equal(t, 10, cfg.AWS.MaxAttempts)
	assert.Equal(t, "", cfg.NotifyBackend())
	assert.True(t, cfg.HTTP.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestNew_MissingRequired(t *testing.T) {
	t.Setenv("QUEUE_URL", "")
	t.Setenv("BUCKET", "")

	_, err := New()
	assert.Error(t, err)
}

func TestNew_EmptyUploadsPrefixDisablesGuard(t *testing.T) {
	setRequired(t)
	t.Setenv("UPLOADS_PREFIX", "")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Storage.UploadsPrefix)
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"wait above sqs limit", map[string]string{"WAIT_TIME_SECONDS": "21"}},
		{"no messages per poll", map[string]string{"MAX_MESSAGES": "0"}},
		{"batch above sqs limit", map[string]string{"MAX_MESSAGES": "11"}},
		{"negative buffer", map[string]string{"VISIBILITY_BUFFER": "-1"}},
		{"zero visibility", map[string]string{"WAIT_TIME_SECONDS": "0", "VISIBILITY_BUFFER": "0"}},
		{"zero width", map[string]string{"THUMB_MAX_WIDTH": "0"}},
		{"same prefixes", map[string]string{"UPLOADS_PREFIX": "img/", "THUMB_PREFIX": "img/"}},
		{"unknown backend", map[string]string{"NOTIFY_BACKEND": "pigeon"}},
		{"sns without topic", map[string]string{"NOTIFY_BACKEND": "sns"}},
		{"kafka without brokers", map[string]string{"NOTIFY_BACKEND": "kafka", "KAFKA_TOPIC": "thumbnails"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := New()
			assert.Error(t, err)
		})
	}
}

func TestConfig_NotifyBackend(t *testing.T) {
	t.Run("sns implied by topic", func(t *testing.T) {
		setRequired(t)
		t.Setenv("SNS_TOPIC_ARN", "arn:aws:sns:eu-central-1:123:thumbs")

		cfg, err := New()
		require.NoError(t, err)
		assert.Equal(t, NotifyBackendSNS, cfg.NotifyBackend())
	})

	t.Run("kafka", func(t *testing.T) {
		setRequired(t)
		t.Setenv("NOTIFY_BACKEND", "Kafka")
		t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
		t.Setenv("KAFKA_TOPIC", "thumbnails")

		cfg, err := New()
		require.NoError(t, err)
		assert.Equal(t, NotifyBackendKafka, cfg.NotifyBackend())
		assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	})
}
