package processor

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/andreyxaxa/thumbnail-worker/internal/entity"
	"github.com/andreyxaxa/thumbnail-worker/pkg/types/errs"
	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"

	// decoders
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	formatJPEG = "jpeg"
	formatPNG  = "png"
	formatWEBP = "webp"

	jpegQuality = 85
	webpQuality = 80

	// same ceiling as Pillow's decompression bomb error
	_defaultMaxPixels = 2 * 89478485
)

type ImageProcessor struct {
	maxPixels int
}

func New(opts ...Option) *ImageProcessor {
	p := &ImageProcessor{
		maxPixels: _defaultMaxPixels,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Transform decodes data, bounds its width by maxWidth and re-encodes it.
// JPEG, PNG and WEBP keep their format; everything else becomes JPEG.
func (p *ImageProcessor) Transform(ctx context.Context, data []byte, maxWidth int) (entity.TransformResult, error) {
	if maxWidth <= 0 {
		return entity.TransformResult{}, fmt.Errorf("ImageProcessor - Transform: invalid max width %d", maxWidth)
	}

	if err := ctx.Err(); err != nil {
		return entity.TransformResult{}, fmt.Errorf("ImageProcessor - Transform - before decode: %w", err)
	}

	source := mimetype.Detect(data).String()

	img, format, err := p.decode(data, source)
	if err != nil {
		return entity.TransformResult{}, fmt.Errorf("ImageProcessor - Transform - p.decode: %w", err)
	}

	img = normalize(img)
	img = scale(img, maxWidth)

	if err := ctx.Err(); err != nil {
		return entity.TransformResult{}, fmt.Errorf("ImageProcessor - Transform - before encode: %w", err)
	}

	out := outputFormat(format)

	b, err := encodeImage(img, out)
	if err != nil {
		return entity.TransformResult{}, fmt.Errorf("ImageProcessor - Transform - encodeImage: %w", err)
	}

	return entity.TransformResult{
		Data:              b,
		ContentType:       contentType(out),
		Width:             img.Bounds().Dx(),
		Height:            img.Bounds().Dy(),
		SourceContentType: source,
	}, nil
}

func (p *ImageProcessor) decode(data []byte, source string) (image.Image, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("image.DecodeConfig (detected %s): %w: %w", source, errs.ErrMalformedImage, err)
	}

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", fmt.Errorf("empty image %dx%d: %w", cfg.Width, cfg.Height, errs.ErrMalformedImage)
	}

	if cfg.Width*cfg.Height > p.maxPixels {
		return nil, "", fmt.Errorf("image %dx%d exceeds %d pixels: %w", cfg.Width, cfg.Height, p.maxPixels, errs.ErrMalformedImage)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("imaging.Decode: %w: %w", errs.ErrMalformedImage, err)
	}

	if format == "" {
		format = formatJPEG
	}

	return img, format, nil
}

// normalize keeps RGB(A) images as they are and converts every other color
// model (gray, paletted, CMYK) to opaque 8-bit RGB.
func normalize(img image.Image) image.Image {
	switch img.(type) {
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64, *image.YCbCr:
		return img
	}

	rgb := imaging.Clone(img)
	for i := 3; i < len(rgb.Pix); i += 4 {
		rgb.Pix[i] = 0xff
	}

	return rgb
}

func scale(img image.Image, maxWidth int) image.Image {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w <= maxWidth {
		return img
	}

	newHeight := int(math.Round(float64(h) * float64(maxWidth) / float64(w)))
	if newHeight < 1 {
		newHeight = 1
	}

	return imaging.Resize(img, maxWidth, newHeight, imaging.Lanczos)
}

func outputFormat(format string) string {
	switch format {
	case formatJPEG, formatPNG, formatWEBP:
		return format
	default:
		return formatJPEG
	}
}

func contentType(format string) string {
	switch format {
	case formatJPEG:
		return entity.ContentTypeJPEG
	case formatPNG:
		return entity.ContentTypePNG
	case formatWEBP:
		return entity.ContentTypeWEBP
	default:
		return entity.ContentTypeOctetStream
	}
}

func encodeImage(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch format {
	case formatPNG:
		err = imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
	case formatWEBP:
		err = webp.Encode(&buf, img, &webp.Options{Quality: webpQuality})
	default:
		err = imaging.Encode(&buf, flatten(img), imaging.JPEG, imaging.JPEGQuality(jpegQuality))
	}

	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}

	return buf.Bytes(), nil
}

// flatten composites translucent images onto white; JPEG has no alpha channel.
func flatten(img image.Image) image.Image {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return img
	}

	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)

	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}
