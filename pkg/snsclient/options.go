package snsclient

import "time"

type Option func(*SNSClient)

func ConnAttempts(attempts int) Option {
	return func(c *SNSClient) {
		c.connAttempts = attempts
	}
}

func ConnTimeout(timeout time.Duration) Option {
	return func(c *SNSClient) {
		c.connTimeout = timeout
	}
}
