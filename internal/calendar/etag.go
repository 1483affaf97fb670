package calendar

import (
	"bytes"
	"crypto/sha1"
	"encoding/base64"
	"io"
)

// ETag is the entity tag of an exported feed.
func ETag(data []byte) (string, error) {
	h := sha1.New()
	if _, err := io.Copy(h, bytes.NewReader(data)); err != nil {
		return "", err
	}
	csum := h.Sum(nil)
	return `"` + base64.StdEncoding.EncodeToString(csum) + `"`, nil
}
