package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutcome_Acknowledge(t *testing.T) {
	tests := []struct {
		outcome Outcome
		ack     bool
		name    string
	}{
		{Ack, true, "ack"},
		{SkipAck, true, "skip_ack"},
		{Retry, false, "retry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ack, tt.outcome.Acknowledge())
			assert.Equal(t, tt.name, tt.outcome.String())
		})
	}
}

func TestOutcome_ZeroValueIsRetry(t *testing.T) {
	var o Outcome

	assert.Equal(t, Retry, o)
	assert.False(t, o.Acknowledge())
}
