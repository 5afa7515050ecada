package processor

type Option func(*ImageProcessor)

// MaxPixels rejects images whose width*height exceeds pixels before they are decoded.
func MaxPixels(pixels int) Option {
	return func(p *ImageProcessor) {
		if pixels > 0 {
			p.maxPixels = pixels
		}
	}
}
