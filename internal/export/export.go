// Package export provides formatters that turn stored articles into
// publishable outputs.
package export

import (
	"fmt"

	"github.com/jonathan/article-agent/internal/db"
)

// Format selectors accepted by Export.
const (
	FormatHTML = "html"
	FormatZip  = "zip"
	FormatWXR  = "wxr"
)

// Formats lists the supported format selectors.
func Formats() []string {
	return []string{FormatHTML, FormatZip, FormatWXR}
}

// Options carries site identity and image tuning shared by all formats.
// The zero value uses the package defaults.
type Options struct {
	SiteTitle string
	SiteURL   string
	Author    string
	MaxWidth  int
	Quality   int
}

// Result is a rendered export ready to serve over HTTP or write to disk.
type Result struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Export renders one stored article in the requested format.
func Export(article db.Article, format string, opts Options) (*Result, error) {
	fields := ExtractFields(article.Content, article.Keyword)

	switch format {
	case FormatHTML:
		page, err := CleanHTML(fields)
		if err != nil {
			return nil, err
		}
		return &Result{
			Data:        []byte(page),
			Filename:    fields.Slug + ".html",
			ContentType: "text/html; charset=utf-8",
		}, nil
	case FormatZip:
		data, name, err := Package(fields)
		if err != nil {
			return nil, err
		}
		return &Result{
			Data:        data,
			Filename:    name,
			ContentType: "application/zip",
		}, nil
	case FormatWXR:
		data, err := WXR(fields, WXROptions{
			SiteTitle: opts.SiteTitle,
			SiteURL:   opts.SiteURL,
			Author:    opts.Author,
			Language:  article.Language,
			MaxWidth:  opts.MaxWidth,
			Quality:   opts.Quality,
		})
		if err != nil {
			return nil, err
		}
		return &Result{
			Data:        data,
			Filename:    fields.Slug + ".xml",
			ContentType: "application/xml; charset=utf-8",
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
