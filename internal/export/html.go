// Package export provides formatters that turn stored articles into
// publishable outputs.
package export

import (
	"bytes"
	"fmt"
	"html"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"

	"github.com/jonathan/article-agent/internal/placeholder"
)

// CleanHTML renders the clean body to HTML with every embedded image replaced
// by a labeled placeholder block, so the result can be pasted into editors
// that reject megabyte-sized data URIs. Illustration numbering excludes the
// featured slot.
func CleanHTML(f Fields) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(f.CleanBody), &buf); err != nil {
		return "", &ExportError{Message: "failed to render markdown", Cause: err}
	}

	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		return "", &ExportError{Message: "failed to parse rendered HTML", Cause: err}
	}

	n := 0
	doc.Find(`img[src^="data:image/"]`).Each(func(_ int, sel *goquery.Selection) {
		alt, _ := sel.Attr("alt")
		if alt == placeholder.FeaturedAlt {
			sel.ReplaceWithHtml(`<div class="image-placeholder featured">[Featured Image]</div>`)
			return
		}
		n++
		sel.ReplaceWithHtml(fmt.Sprintf(`<div class="image-placeholder">[Image %d: %s]</div>`, n, html.EscapeString(alt)))
	})

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", &ExportError{Message: "failed to serialize HTML", Cause: err}
	}
	return out, nil
}
