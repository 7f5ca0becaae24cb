// Package export provides formatters that turn stored articles into
// publishable outputs.
package export

import (
	"encoding/base64"
	"regexp"
	"strings"

	"github.com/jonathan/article-agent/internal/images"
)

// imageRefPattern matches a markdown image reference whose target is an
// embedded data URI. Groups: alt text, full data URI, MIME subtype, payload.
var imageRefPattern = regexp.MustCompile(`!\[([^\]]*)\]\((data:image/([A-Za-z0-9.+-]+);base64,([A-Za-z0-9+/=]*))\)`)

// ImageRef is one embedded data-URI image reference found in a markdown body.
type ImageRef struct {
	Alt   string
	Image images.Image

	// Spans into the scanned body: the whole reference and just its URI.
	start, end       int
	uriStart, uriEnd int
}

// ExtractImages collects every embedded data-URI image reference in order of
// appearance. References whose payload fails to decode are skipped and left
// untouched by the formatters.
func ExtractImages(body string) []ImageRef {
	matches := imageRefPattern.FindAllStringSubmatchIndex(body, -1)
	if len(matches) == 0 {
		return nil
	}

	var refs []ImageRef
	for _, m := range matches {
		data, err := base64.StdEncoding.DecodeString(body[m[8]:m[9]])
		if err != nil {
			continue
		}
		refs = append(refs, ImageRef{
			Alt: body[m[2]:m[3]],
			Image: images.Image{
				Data: data,
				MIME: "image/" + strings.ToLower(body[m[6]:m[7]]),
			},
			start:    m[0],
			end:      m[1],
			uriStart: m[4],
			uriEnd:   m[5],
		})
	}
	return refs
}
