package response

type Thumbnail struct {
	ID           string `json:"id"`
	Bucket       string `json:"bucket"`
	SourceKey    string `json:"source_key"`
	ThumbnailKey string `json:"thumbnail_key"`
	ContentType  string `json:"content_type"`
	Size         int64  `json:"size"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	UpdatedAt    string `json:"updated_at"`
}
