package processor

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/andreyxaxa/thumbnail-worker/internal/entity"
	"github.com/andreyxaxa/thumbnail-worker/pkg/types/errs"
	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func encodeFixture(t *testing.T, w, h int, format imaging.Format) []byte {
	t.Helper()

	var buf bytes.Buffer
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 80, B: 40, A: 255})
	require.NoError(t, imaging.Encode(&buf, img, format))

	return buf.Bytes()
}

func decodeResult(t *testing.T, res entity.TransformResult) (image.Config, string) {
	t.Helper()

	cfg, format, err := image.DecodeConfig(bytes.NewReader(res.Data))
	require.NoError(t, err)

	return cfg, format
}

func TestImageProcessor_Transform(t *testing.T) {
	webpFixture := func(t *testing.T) []byte {
		var buf bytes.Buffer
		require.NoError(t, webp.Encode(&buf, imaging.New(800, 400, color.White), &webp.Options{Quality: 90}))
		return buf.Bytes()
	}

	bmpFixture := func(t *testing.T) []byte {
		var buf bytes.Buffer
		require.NoError(t, bmp.Encode(&buf, imaging.New(64, 32, color.Black)))
		return buf.Bytes()
	}

	tests := []struct {
		name        string
		data        func(t *testing.T) []byte
		maxWidth    int
		contentType string
		format      string
		width       int
		height      int
	}{
		{
			name:        "narrow png keeps size and format",
			data:        func(t *testing.T) []byte { return encodeFixture(t, 300, 600, imaging.PNG) },
			maxWidth:    512,
			contentType: entity.ContentTypePNG,
			format:      "png",
			width:       300,
			height:      600,
		},
		{
			name:        "png at exactly max width is not scaled",
			data:        func(t *testing.T) []byte { return encodeFixture(t, 512, 100, imaging.PNG) },
			maxWidth:    512,
			contentType: entity.ContentTypePNG,
			format:      "png",
			width:       512,
			height:      100,
		},
		{
			name:        "wide jpeg scaled preserving aspect",
			data:        func(t *testing.T) []byte { return encodeFixture(t, 1024, 768, imaging.JPEG) },
			maxWidth:    512,
			contentType: entity.ContentTypeJPEG,
			format:      "jpeg",
			width:       512,
			height:      384,
		},
		{
			name:        "height is rounded",
			data:        func(t *testing.T) []byte { return encodeFixture(t, 1000, 333, imaging.PNG) },
			maxWidth:    512,
			contentType: entity.ContentTypePNG,
			format:      "png",
			width:       512,
			height:      170,
		},
		{
			name:        "height never drops below one",
			data:        func(t *testing.T) []byte { return encodeFixture(t, 2000, 1, imaging.PNG) },
			maxWidth:    512,
			contentType: entity.ContentTypePNG,
			format:      "png",
			width:       512,
			height:      1,
		},
		{
			name:        "gif becomes jpeg",
			data:        func(t *testing.T) []byte { return encodeFixture(t, 40, 20, imaging.GIF) },
			maxWidth:    512,
			contentType: entity.ContentTypeJPEG,
			format:      "jpeg",
			width:       40,
			height:      20,
		},
		{
			name:        "bmp becomes jpeg",
			data:        bmpFixture,
			maxWidth:    16,
			contentType: entity.ContentTypeJPEG,
			format:      "jpeg",
			width:       16,
			height:      8,
		},
		{
			name:        "webp stays webp",
			data:        webpFixture,
			maxWidth:    512,
			contentType: entity.ContentTypeWEBP,
			format:      "webp",
			width:       512,
			height:      256,
		},
	}

	p := New()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := p.Transform(context.Background(), tt.data(t), tt.maxWidth)
			require.NoError(t, err)

			assert.Equal(t, tt.contentType, res.ContentType)
			assert.Equal(t, tt.width, res.Width)
			assert.Equal(t, tt.height, res.Height)

			cfg, format := decodeResult(t, res)
			assert.Equal(t, tt.format, format)
			assert.Equal(t, tt.width, cfg.Width)
			assert.Equal(t, tt.height, cfg.Height)
		})
	}
}

func TestImageProcessor_Transform_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		p    *ImageProcessor
	}{
		{"garbage", []byte("definitely not an image"), New()},
		{"empty", nil, New()},
		{"truncated png", encodeFixture(t, 100, 100, imaging.PNG)[:60], New()},
		{"too many pixels", encodeFixture(t, 20, 20, imaging.PNG), New(MaxPixels(100))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.p.Transform(context.Background(), tt.data, 512)
			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrMalformedImage)
		})
	}
}

func TestImageProcessor_Transform_ContextExpired(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Transform(ctx, encodeFixture(t, 10, 10, imaging.PNG), 512)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, errs.ErrMalformedImage)
}

func TestImageProcessor_Transform_InvalidMaxWidth(t *testing.T) {
	_, err := New().Transform(context.Background(), encodeFixture(t, 10, 10, imaging.PNG), 0)
	require.Error(t, err)
	assert.NotErrorIs(t, err, errs.ErrMalformedImage)
}

func TestNormalize(t *testing.T) {
	t.Run("rgb models pass through", func(t *testing.T) {
		for _, img := range []image.Image{
			image.NewRGBA(image.Rect(0, 0, 2, 2)),
			image.NewNRGBA(image.Rect(0, 0, 2, 2)),
			image.NewNRGBA64(image.Rect(0, 0, 2, 2)),
			image.NewYCbCr(image.Rect(0, 0, 2, 2), image.YCbCrSubsampleRatio420),
		} {
			assert.Same(t, img, normalize(img))
		}
	})

	t.Run("gray becomes opaque rgb", func(t *testing.T) {
		gray := image.NewGray(image.Rect(0, 0, 2, 2))
		gray.SetGray(1, 1, color.Gray{Y: 128})

		out, ok := normalize(gray).(*image.NRGBA)
		require.True(t, ok)
		assert.Equal(t, color.NRGBA{R: 128, G: 128, B: 128, A: 255}, out.NRGBAAt(1, 1))
		assert.True(t, out.Opaque())
	})

	t.Run("paletted transparency is dropped", func(t *testing.T) {
		pal := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{
			color.NRGBA{A: 0},
			color.NRGBA{R: 255, A: 255},
		})
		pal.SetColorIndex(0, 0, 0)
		pal.SetColorIndex(1, 0, 1)

		out, ok := normalize(pal).(*image.NRGBA)
		require.True(t, ok)
		assert.True(t, out.Opaque())
		assert.Equal(t, color.NRGBA{R: 255, A: 255}, out.NRGBAAt(1, 0))
	})
}

func TestFlatten(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{A: 0})

	out := flatten(img)

	r, g, b, a := out.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), a)
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff}, []uint32{r, g, b})
}

func TestImageProcessor_Transform_SourceContentType(t *testing.T) {
	res, err := New().Transform(context.Background(), encodeFixture(t, 40, 20, imaging.GIF), 512)
	require.NoError(t, err)

	assert.Equal(t, "image/gif", res.SourceContentType)
	assert.Equal(t, entity.ContentTypeJPEG, res.ContentType)
}

func TestImageProcessor_Transform_ReportsDetectedType(t *testing.T) {
	_, err := New().Transform(context.Background(), []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n"), 512)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrMalformedImage)
	assert.Contains(t, err.Error(), "application/pdf")
}
