package thumbnail

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/andreyxaxa/thumbnail-worker/internal/entity"
)

var (
	errInvalidBody = errors.New("message body is not a JSON object")
	errMissingKey  = errors.New("message missing 'key'")
)

// decodeRequest parses the message body, fills in the default bucket and
// normalizes the form-encoded key.
func decodeRequest(body []byte, defaultBucket string) (entity.ProcessingRequest, error) {
	var req entity.ProcessingRequest

	if err := json.Unmarshal(body, &req); err != nil {
		return req, fmt.Errorf("%w: %w", errInvalidBody, err)
	}

	if req.Key == "" {
		return req, errMissingKey
	}

	req.Key = unquotePlus(req.Key)

	if req.Bucket == "" {
		req.Bucket = defaultBucket
	}

	return req, nil
}

// unquotePlus turns '+' into a space and decodes %XX escapes. Malformed
// escapes such as "50%off" stay literal; invalid UTF-8 becomes U+FFFD.
func unquotePlus(s string) string {
	s = strings.ReplaceAll(s, "+", " ")
	if !strings.Contains(s, "%") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			hi, okHi := unhex(s[i+1])
			lo, okLo := unhex(s[i+2])
			if okHi && okLo {
				b.WriteByte(hi<<4 | lo)
				i += 2

				continue
			}
		}

		b.WriteByte(s[i])
	}

	return strings.ToValidUTF8(b.String(), "\uFFFD")
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}

	return 0, false
}
