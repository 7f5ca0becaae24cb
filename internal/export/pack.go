// Package export provides formatters that turn stored articles into
// publishable outputs.
package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
)

// Package bundles an article into a zip archive: the markdown (with every
// embedded image moved out into an images/ folder and re-referenced by
// relative path) plus the image files themselves. It returns the archive
// bytes and its suggested file name, "<slug>.zip".
func Package(f Fields) ([]byte, string, error) {
	refs := ExtractImages(f.CleanBody)

	markdown := f.CleanBody
	if len(refs) > 0 {
		var b strings.Builder
		last := 0
		for i, ref := range refs {
			b.WriteString(markdown[last:ref.uriStart])
			b.WriteString(imageFileName(i+1, ref.Image.Ext()))
			last = ref.uriEnd
		}
		b.WriteString(markdown[last:])
		markdown = b.String()
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create(f.Slug + ".md")
	if err != nil {
		return nil, "", &ExportError{Message: "failed to create markdown entry", Cause: err}
	}
	if _, err := w.Write([]byte(markdown)); err != nil {
		return nil, "", &ExportError{Message: "failed to write markdown entry", Cause: err}
	}

	for i, ref := range refs {
		w, err := zw.Create(imageFileName(i+1, ref.Image.Ext()))
		if err != nil {
			return nil, "", &ExportError{Message: "failed to create image entry", Cause: err}
		}
		if _, err := w.Write(ref.Image.Data); err != nil {
			return nil, "", &ExportError{Message: "failed to write image entry", Cause: err}
		}
	}

	if err := zw.Close(); err != nil {
		return nil, "", &ExportError{Message: "failed to finalize archive", Cause: err}
	}
	return buf.Bytes(), f.Slug + ".zip", nil
}

func imageFileName(n int, ext string) string {
	return fmt.Sprintf("images/image-%d.%s", n, ext)
}
