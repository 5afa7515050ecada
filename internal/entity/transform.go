package entity

const (
	ContentTypeJPEG        = "image/jpeg"
	ContentTypePNG         = "image/png"
	ContentTypeWEBP        = "image/webp"
	ContentTypeOctetStream = "application/octet-stream"
)

type TransformResult struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int

	// SourceContentType is sniffed from the original bytes.
	SourceContentType string
}
