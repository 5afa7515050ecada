package sqs

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andreyxaxa/thumbnail-worker/internal/entity"
	"github.com/andreyxaxa/thumbnail-worker/internal/infrastructure"
	"github.com/andreyxaxa/thumbnail-worker/internal/metrics"
	"github.com/andreyxaxa/thumbnail-worker/internal/usecase"
	"github.com/andreyxaxa/thumbnail-worker/pkg/logger"
)

type Config struct {
	MaxMessages      int32
	WaitSeconds      int32
	VisibilityBuffer int32
	AckTimeout       time.Duration
	PollErrorBackoff time.Duration
}

// SQSController runs the poll / process / acknowledge loop. Messages are
// deleted only for Ack and SkipAck; everything else reappears after the
// visibility timeout.
type SQSController struct {
	queue     infrastructure.Queue
	processor usecase.MessageProcessor
	logger    logger.Interface
	cfg       Config

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	started  atomic.Bool
	stopping atomic.Bool
	pollable atomic.Bool
}

func New(q infrastructure.Queue, p usecase.MessageProcessor, l logger.Interface, cfg Config) *SQSController {
	return &SQSController{
		queue:     q,
		processor: p,
		logger:    l,
		cfg:       cfg,
	}
}

func (c *SQSController) Start(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return fmt.Errorf("SQSController - Start - controller already started")
	}

	c.ctx, c.cancel = context.WithCancel(ctx)
	c.pollable.Store(true)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		for {
			select {
			case <-c.ctx.Done():
				return
			default:
				c.pollOnce(c.ctx)
			}
		}
	}()

	return nil
}

// visibility is how long a received message stays hidden. Every message of a
// batch must finish before the batch becomes visible again.
func (c *SQSController) visibility() int32 {
	return c.cfg.WaitSeconds + c.cfg.VisibilityBuffer
}

func (c *SQSController) pollOnce(ctx context.Context) {
	msgs, err := c.queue.Poll(ctx, c.cfg.MaxMessages, c.cfg.WaitSeconds, c.visibility())
	received := time.Now()
	if err != nil {
		// aborted by shutdown
		if ctx.Err() != nil {
			return
		}

		c.pollable.Store(false)
		metrics.PollsTotal.WithLabelValues(metrics.ResultError).Inc()
		c.logger.Error(err, "SQSController - pollOnce - c.queue.Poll")

		c.pause(ctx, c.cfg.PollErrorBackoff)

		return
	}

	c.pollable.Store(true)

	if len(msgs) == 0 {
		metrics.PollsTotal.WithLabelValues(metrics.ResultEmpty).Inc()
		return
	}

	metrics.PollsTotal.WithLabelValues(metrics.ResultOK).Inc()

	deadline := received.Add(time.Duration(c.visibility()) * time.Second)

	// the fetched batch is finished even if shutdown starts meanwhile
	for _, msg := range msgs {
		c.handle(ctx, msg, deadline)
	}
}

func (c *SQSController) handle(ctx context.Context, msg entity.QueueMessage, deadline time.Time) {
	outcome := c.process(ctx, msg, deadline)
	if !outcome.Acknowledge() {
		c.logger.Info("Message left for redelivery: id=%s receive_count=%d", msg.ID, msg.ReceiveCount)
		return
	}

	ackCtx, ackCancel := context.WithTimeout(context.WithoutCancel(ctx), c.cfg.AckTimeout)
	defer ackCancel()

	err := c.queue.Acknowledge(ackCtx, msg.ReceiptHandle)
	if err != nil {
		metrics.AcksTotal.WithLabelValues(metrics.ResultError).Inc()
		c.logger.Error(err, "Failed to delete message (will retry later)")

		return
	}

	metrics.AcksTotal.WithLabelValues(metrics.ResultOK).Inc()
	c.logger.Info("Message deleted")
}

// process runs detached from shutdown, bounded by the batch deadline.
func (c *SQSController) process(ctx context.Context, msg entity.QueueMessage, deadline time.Time) (outcome entity.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			metrics.PanicsTotal.Inc()
			c.logger.Error(fmt.Errorf("panic %v", r), "SQSController - process - panic")

			outcome = entity.Retry
		}
	}()

	processCtx, cancel := context.WithDeadline(context.WithoutCancel(ctx), deadline)
	defer cancel()

	return c.processor.Process(processCtx, msg)
}

func (c *SQSController) pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Ready reports whether the loop is running and its last poll succeeded.
func (c *SQSController) Ready() bool {
	return c.started.Load() && !c.stopping.Load() && c.pollable.Load()
}

// Shutdown stops polling and waits, bounded by ctx, for the in-flight batch.
func (c *SQSController) Shutdown(ctx context.Context) error {
	if !c.started.Load() {
		return nil
	}

	c.stopping.Store(true)

	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})

	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("SQSController - Shutdown - in-flight messages not finished: %w", ctx.Err())
	}
}
