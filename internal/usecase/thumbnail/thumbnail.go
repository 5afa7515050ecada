package thumbnail

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/andreyxaxa/thumbnail-worker/internal/entity"
	"github.com/andreyxaxa/thumbnail-worker/internal/infrastructure"
	"github.com/andreyxaxa/thumbnail-worker/internal/metrics"
	"github.com/andreyxaxa/thumbnail-worker/internal/repo"
	"github.com/andreyxaxa/thumbnail-worker/internal/usecase"
	"github.com/andreyxaxa/thumbnail-worker/pkg/logger"
	"github.com/andreyxaxa/thumbnail-worker/pkg/types/errs"
	"github.com/google/uuid"
)

// metric reasons
const (
	reasonInvalidBody     = "invalid_body"
	reasonMissingKey      = "missing_key"
	reasonOutsidePrefix   = "outside_prefix"
	reasonAlreadyExists   = "already_exists"
	reasonCheckFailed     = "check_failed"
	reasonSourceMissing   = "source_missing"
	reasonFetchFailed     = "fetch_failed"
	reasonMalformedImage  = "malformed_image"
	reasonTransformFailed = "transform_failed"
	reasonPutFailed       = "put_failed"
	reasonProcessed       = "processed"
)

type Config struct {
	DefaultBucket string
	// SourcePrefix is stripped from source keys and, when non-empty, guards
	// which keys are processed at all.
	SourcePrefix     string
	ThumbPrefix      string
	MaxWidth         int
	CPUTimeout       time.Duration
	RetryCodecErrors bool
}

type UseCase struct {
	objects     repo.ObjectRepo
	gate        *Gate
	transformer infrastructure.Transformer
	notifier    infrastructure.Notifier
	ledger      usecase.LedgerUseCase

	logger logger.Interface
	cfg    Config
}

// New builds the message processor. notifier and ledger are optional: pass nil
// to disable completion events or the ledger.
func New(
	objects repo.ObjectRepo,
	t infrastructure.Transformer,
	n infrastructure.Notifier,
	ledger usecase.LedgerUseCase,
	l logger.Interface,
	cfg Config,
) *UseCase {
	return &UseCase{
		objects:     objects,
		gate:        NewGate(objects),
		transformer: t,
		notifier:    n,
		ledger:      ledger,
		logger:      l,
		cfg:         cfg,
	}
}

// Process runs one message through decode, guard, idempotency check, fetch,
// transform, write and announce. It never returns an error: every fault is
// folded into the Outcome.
func (uc *UseCase) Process(ctx context.Context, msg entity.QueueMessage) entity.Outcome {
	start := time.Now()

	outcome, reason := uc.process(ctx, msg)

	metrics.MessagesTotal.WithLabelValues(outcome.String(), reason).Inc()
	metrics.ProcessingDuration.WithLabelValues(outcome.String()).Observe(time.Since(start).Seconds())

	return outcome
}

func (uc *UseCase) process(ctx context.Context, msg entity.QueueMessage) (entity.Outcome, string) {
	uc.logger.Debug("Processing message id=%s receive_count=%d", msg.ID, msg.ReceiveCount)

	req, err := decodeRequest(msg.Body, uc.cfg.DefaultBucket)
	if err != nil {
		switch {
		case errors.Is(err, errMissingKey):
			uc.logger.Warn("Message missing 'key': %s", msg.Body)

			return entity.SkipAck, reasonMissingKey
		default:
			uc.logger.Warn("Message body is not JSON; skipping: %s", msg.Body)

			return entity.SkipAck, reasonInvalidBody
		}
	}

	if uc.cfg.SourcePrefix != "" && !strings.HasPrefix(req.Key, uc.cfg.SourcePrefix) {
		uc.logger.Info("Key not in uploads prefix, skipping: %s", req.Key)

		return entity.SkipAck, reasonOutsidePrefix
	}

	source := entity.ArtifactRef{Bucket: req.Bucket, Key: req.Key}
	thumb := entity.ArtifactRef{Bucket: req.Bucket, Key: DeriveKey(req.Key, uc.cfg.SourcePrefix, uc.cfg.ThumbPrefix)}

	done, err := uc.gate.Done(ctx, thumb)
	if err != nil {
		uc.logger.Error(err, "ThumbnailUseCase - process - uc.gate.Done")

		return entity.Retry, reasonCheckFailed
	}

	if done {
		uc.logger.Info("Thumbnail already exists, skipping: %s", thumb)

		return entity.SkipAck, reasonAlreadyExists
	}

	uc.logger.Info("Downloading %s", source)

	data, err := uc.objects.Get(ctx, source.Bucket, source.Key)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			uc.logger.Warn("Original not found, skipping: %s", source)

			return entity.SkipAck, reasonSourceMissing
		}

		uc.logger.Error(err, "ThumbnailUseCase - process - uc.objects.Get")

		return entity.Retry, reasonFetchFailed
	}

	result, err := uc.transform(ctx, data)
	if err != nil {
		if errors.Is(err, errs.ErrMalformedImage) && !uc.cfg.RetryCodecErrors {
			uc.logger.Warn("Original is not a decodable image, skipping: %s, error=%v", source, err)

			return entity.SkipAck, reasonMalformedImage
		}

		uc.logger.Error(err, "ThumbnailUseCase - process - uc.transform")

		return entity.Retry, reasonTransformFailed
	}

	uc.logger.Info("Uploading thumbnail to %s", thumb)

	err = uc.objects.Put(ctx, thumb.Bucket, thumb.Key, result.Data, result.ContentType)
	if err != nil {
		uc.logger.Error(err, "ThumbnailUseCase - process - uc.objects.Put")

		return entity.Retry, reasonPutFailed
	}

	metrics.ThumbnailBytes.Observe(float64(len(result.Data)))

	uc.announce(ctx, source, thumb, result)
	uc.record(ctx, source, thumb, result)

	uc.logger.Info("Done: %s -> %s (%s -> %s, %dx%d)", source.Key, thumb.Key, result.SourceContentType, result.ContentType, result.Width, result.Height)

	return entity.Ack, reasonProcessed
}

func (uc *UseCase) transform(ctx context.Context, data []byte) (entity.TransformResult, error) {
	if uc.cfg.CPUTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.cfg.CPUTimeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		metrics.TransformDuration.Observe(time.Since(start).Seconds())
	}()

	return uc.transformer.Transform(ctx, data, uc.cfg.MaxWidth)
}

// announce makes exactly one publish attempt; a failure does not change the outcome.
func (uc *UseCase) announce(ctx context.Context, source, thumb entity.ArtifactRef, result entity.TransformResult) {
	if uc.notifier == nil {
		return
	}

	event := entity.CompletionEvent{
		EventID:           uuid.New(),
		Bucket:            source.Bucket,
		Key:               source.Key,
		Thumbnail:         thumb.Key,
		ContentType:       result.ContentType,
		SourceContentType: result.SourceContentType,
		Size:              len(result.Data),
		Width:             result.Width,
		Height:            result.Height,
		CreatedAt:         time.Now().UTC(),
	}

	err := uc.notifier.Publish(ctx, event)
	if err != nil {
		uc.logger.Error(err, "ThumbnailUseCase - announce - uc.notifier.Publish (non-fatal)")
		metrics.NotificationsTotal.WithLabelValues(metrics.ResultError).Inc()

		return
	}

	metrics.NotificationsTotal.WithLabelValues(metrics.ResultOK).Inc()
}

func (uc *UseCase) record(ctx context.Context, source, thumb entity.ArtifactRef, result entity.TransformResult) {
	if uc.ledger == nil {
		return
	}

	err := uc.ledger.Record(ctx, source, thumb, result)
	if err != nil {
		uc.logger.Error(err, "ThumbnailUseCase - record - uc.ledger.Record (non-fatal)")
		metrics.LedgerWritesTotal.WithLabelValues(metrics.ResultError).Inc()

		return
	}

	metrics.LedgerWritesTotal.WithLabelValues(metrics.ResultOK).Inc()
}
