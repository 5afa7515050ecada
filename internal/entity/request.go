package entity

// ProcessingRequest is the decoded queue message body.
type ProcessingRequest struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

// ArtifactRef addresses an object in storage.
type ArtifactRef struct {
	Bucket string
	Key    string
}

func (r ArtifactRef) String() string {
	return "s3://" + r.Bucket + "/" + r.Key
}
