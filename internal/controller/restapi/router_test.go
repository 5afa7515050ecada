package restapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andreyxaxa/thumbnail-worker/internal/entity"
	"github.com/andreyxaxa/thumbnail-worker/pkg/logger"
	"github.com/andreyxaxa/thumbnail-worker/pkg/types/errs"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type probe bool

func (p probe) Ready() bool { return bool(p) }

type fakeLedger struct {
	thumb *entity.Thumbnail
	err   error
}

func (l *fakeLedger) Record(context.Context, entity.ArtifactRef, entity.ArtifactRef, entity.TransformResult) error {
	return nil
}

func (l *fakeLedger) Lookup(_ context.Context, bucket, sourceKey string) (*entity.Thumbnail, error) {
	if l.err != nil {
		return nil, l.err
	}
	if l.thumb == nil || l.thumb.Bucket != bucket || l.thumb.SourceKey != sourceKey {
		return nil, errs.ErrRecordNotFound
	}

	return l.thumb, nil
}

func newApp(p Probe, ledger *fakeLedger) *fiber.App {
	app := fiber.New()
	if ledger == nil {
		NewRouter(app, p, nil, logger.New("disabled"))
	} else {
		NewRouter(app, p, ledger, logger.New("disabled"))
	}

	return app
}

func do(t *testing.T, app *fiber.App, target string) *http.Response {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, err)

	return resp
}

func TestRouter_Probes(t *testing.T) {
	assert.Equal(t, http.StatusOK, do(t, newApp(probe(false), nil), "/healthz").StatusCode)
	assert.Equal(t, http.StatusOK, do(t, newApp(probe(true), nil), "/readyz").StatusCode)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, newApp(probe(false), nil), "/readyz").StatusCode)
}

func TestRouter_Metrics(t *testing.T) {
	resp := do(t, newApp(probe(true), nil), "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestRouter_LedgerDisabled(t *testing.T) {
	resp := do(t, newApp(probe(true), nil), "/v1/thumbnails?bucket=b&key=k")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_GetThumbnail(t *testing.T) {
	thumb := &entity.Thumbnail{
		ID:           uuid.New(),
		Bucket:       "b",
		SourceKey:    "uploads/a b.png",
		ThumbnailKey: "thumbnails/a b.png",
		ContentType:  entity.ContentTypePNG,
		Size:         42,
		Width:        300,
		Height:       600,
		UpdatedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	tests := []struct {
		name   string
		ledger *fakeLedger
		target string
		status int
	}{
		{"found", &fakeLedger{thumb: thumb}, "/v1/thumbnails?bucket=b&key=uploads%2Fa%20b.png", http.StatusOK},
		{"not found", &fakeLedger{thumb: thumb}, "/v1/thumbnails?bucket=b&key=uploads%2Fother.png", http.StatusNotFound},
		{"missing key", &fakeLedger{thumb: thumb}, "/v1/thumbnails?bucket=b", http.StatusBadRequest},
		{"storage fault", &fakeLedger{err: errors.New("pool closed")}, "/v1/thumbnails?bucket=b&key=k", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, newApp(probe(true), tt.ledger), tt.target)
			require.Equal(t, tt.status, resp.StatusCode)

			if tt.status != http.StatusOK {
				return
			}

			var got map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
			assert.Equal(t, "thumbnails/a b.png", got["thumbnail_key"])
			assert.Equal(t, "2026-01-02T03:04:05Z", got["updated_at"])
			assert.EqualValues(t, 300, got["width"])
		})
	}
}
