package canvix

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrInvalidDataURL is returned when a data URL cannot be parsed.
var ErrInvalidDataURL = errors.New("canvix: malformed data URL")

const (
	dataURLScheme = "data:"
	base64Marker  = ";base64"
)

// Blob holds raw image bytes together with their MIME type.
type Blob struct {
	Data []byte
	MIME string
}

// Len returns the blob size in bytes.
func (b *Blob) Len() int { return len(b.Data) }

// EncodeDataURL wraps the blob into a base64 encoded data URL of the form
// "data:<mime>;base64,<payload>".
func EncodeDataURL(b *Blob) string {
	return dataURLScheme + b.MIME + base64Marker + "," + base64.StdEncoding.EncodeToString(b.Data)
}

// DecodeDataURL parses a base64 encoded data URL back into a binary blob.
// When the media type part is missing the MIME type is sniffed from the
// decoded payload instead.
func DecodeDataURL(s string) (*Blob, error) {
	if !strings.HasPrefix(s, dataURLScheme) {
		return nil, ErrInvalidDataURL
	}

	meta, payload, found := strings.Cut(s[len(dataURLScheme):], ",")
	if !found || !strings.HasSuffix(meta, base64Marker) {
		return nil, ErrInvalidDataURL
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}

	mime := strings.TrimSuffix(meta, base64Marker)
	if mime == "" {
		mime = http.DetectContentType(data)
	}
	return &Blob{Data: data, MIME: mime}, nil
}

// isDataURL reports whether the source locator is an inline data URL.
func isDataURL(src string) bool {
	return strings.HasPrefix(src, dataURLScheme)
}
