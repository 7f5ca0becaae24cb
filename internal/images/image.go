// Package images provides the image half of the pipeline: the bounded retry
// policy around image generation, data-URI encoding, and recompression of
// oversized results.
package images

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Image is one generated image as returned by the provider.
type Image struct {
	Data []byte
	MIME string
}

// DataURI encodes the image as a data: URI suitable for embedding in markdown.
func (img *Image) DataURI() string {
	return "data:" + img.MIME + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

// Ext returns the file extension for the image's MIME subtype.
// Everything that is not png or webp is treated as jpg.
func (img *Image) Ext() string {
	switch strings.ToLower(strings.TrimPrefix(img.MIME, "image/")) {
	case "png":
		return "png"
	case "webp":
		return "webp"
	default:
		return "jpg"
	}
}

// ParseDataURI decodes a data:image/...;base64,... URI back into an Image.
func ParseDataURI(uri string) (*Image, error) {
	if !strings.HasPrefix(uri, "data:") {
		return nil, fmt.Errorf("not a data URI")
	}
	rest := strings.TrimPrefix(uri, "data:")

	sep := strings.Index(rest, ";base64,")
	if sep < 0 {
		return nil, fmt.Errorf("data URI is not base64 encoded")
	}
	mime := rest[:sep]
	payload := rest[sep+len(";base64,"):]

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode data URI payload: %w", err)
	}
	return &Image{Data: data, MIME: mime}, nil
}
