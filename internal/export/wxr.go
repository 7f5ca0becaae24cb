// Package export provides formatters that turn stored articles into
// publishable outputs.
package export

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"math/rand"
	"strings"
	"text/template"
	"time"

	"github.com/yuin/goldmark"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/jonathan/article-agent/internal/images"
	"github.com/jonathan/article-agent/internal/placeholder"
)

// RecompressThreshold is the decoded size above which an embedded image is
// recompressed before being written into the WXR document. Imports choke on
// multi-megabyte attachment payloads.
const RecompressThreshold = 300 * 1024

// WXROptions tunes WXR generation. The zero value is production behavior;
// tests pin BasePostID and Now for determinism.
type WXROptions struct {
	SiteTitle  string
	SiteURL    string
	Author     string
	Language   string
	MaxWidth   int              // recompression width cap, 0 uses images.DefaultMaxWidth
	Quality    int              // recompression JPEG quality, 0 uses images.DefaultQuality
	BasePostID int              // 0 picks a random base in [1000, 9999]
	Now        func() time.Time // nil uses time.Now
}

type wxrAttachment struct {
	ID    int
	Title string
	Name  string
	URL   string
	File  string
}

type wxrData struct {
	SiteTitle   string
	SiteURL     string
	Author      string
	Language    string
	Title       string
	Description string
	Slug        string
	Content     string
	PostID      int
	ThumbnailID int
	PubDate     string
	Date        string
	DateGMT     string
	Attachments []wxrAttachment
}

// The body markup inside content:encoded may contain raw Gutenberg block
// comments, so the WXR renderer allows raw HTML through.
var wxrMarkdown = goldmark.New(goldmark.WithRendererOptions(goldmarkhtml.WithUnsafe()))

var wxrTemplate = template.Must(template.New("wxr").Funcs(template.FuncMap{
	"cdata":  cdata,
	"escape": xmlEscape,
}).Parse(wxrTemplateText))

// WXR renders the article as a WordPress eXtended RSS document: one draft
// post item followed by one attachment item per embedded image. The featured
// image leaves the body and becomes the post thumbnail; every other image
// stays inline as a Gutenberg image block referencing its attachment id.
func WXR(f Fields, opts WXROptions) ([]byte, error) {
	if opts.SiteTitle == "" {
		opts.SiteTitle = "Article Agent Export"
	}
	if opts.SiteURL == "" {
		opts.SiteURL = "https://example.com"
	}
	if opts.Author == "" {
		opts.Author = "admin"
	}
	if opts.Language == "" {
		opts.Language = "en"
	}
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = images.DefaultMaxWidth
	}
	if opts.Quality <= 0 {
		opts.Quality = images.DefaultQuality
	}
	if opts.BasePostID <= 0 {
		opts.BasePostID = 1000 + rand.Intn(9000)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	refs := ExtractImages(f.CleanBody)
	for i := range refs {
		if len(refs[i].Image.Data) > RecompressThreshold {
			refs[i].Image = *images.Recompress(&refs[i].Image, opts.MaxWidth, opts.Quality)
		}
	}

	body, thumbnailID := buildWXRBody(f.CleanBody, refs, opts.BasePostID)

	var htmlBuf bytes.Buffer
	if err := wxrMarkdown.Convert([]byte(body), &htmlBuf); err != nil {
		return nil, &ExportError{Message: "failed to render markdown", Cause: err}
	}

	attachments := make([]wxrAttachment, 0, len(refs))
	for i, ref := range refs {
		name := fmt.Sprintf("image-%d", i+1)
		title := ref.Alt
		if title == "" {
			title = name
		}
		attachments = append(attachments, wxrAttachment{
			ID:    opts.BasePostID + 1 + i,
			Title: title,
			Name:  name,
			URL:   ref.Image.DataURI(),
			File:  imageFileName(i+1, ref.Image.Ext()),
		})
	}

	now := opts.Now()
	data := wxrData{
		SiteTitle:   opts.SiteTitle,
		SiteURL:     opts.SiteURL,
		Author:      opts.Author,
		Language:    opts.Language,
		Title:       f.Title,
		Description: f.Description,
		Slug:        f.Slug,
		Content:     strings.TrimSpace(htmlBuf.String()),
		PostID:      opts.BasePostID,
		ThumbnailID: thumbnailID,
		PubDate:     now.Format(time.RFC1123Z),
		Date:        now.Format("2006-01-02 15:04:05"),
		DateGMT:     now.UTC().Format("2006-01-02 15:04:05"),
		Attachments: attachments,
	}

	var out bytes.Buffer
	if err := wxrTemplate.Execute(&out, &data); err != nil {
		return nil, &ExportError{Message: "failed to execute WXR template", Cause: err}
	}
	return out.Bytes(), nil
}

// buildWXRBody substitutes every extracted image reference in the markdown:
// the first featured match is removed (it becomes the thumbnail), the rest
// turn into Gutenberg image blocks. Attachment ids are basePostID+1, +2, ...
// in order of appearance.
func buildWXRBody(markdown string, refs []ImageRef, basePostID int) (string, int) {
	if len(refs) == 0 {
		return markdown, 0
	}

	thumbnailID := 0
	var b strings.Builder
	last := 0
	for i, ref := range refs {
		id := basePostID + 1 + i
		b.WriteString(markdown[last:ref.start])
		if ref.Alt == placeholder.FeaturedAlt && thumbnailID == 0 {
			thumbnailID = id
		} else {
			b.WriteString(gutenbergImage(id, ref.Image.DataURI(), ref.Alt))
		}
		last = ref.end
	}
	b.WriteString(markdown[last:])
	return b.String(), thumbnailID
}

func gutenbergImage(id int, uri, alt string) string {
	return fmt.Sprintf("<!-- wp:image {\"id\":%d,\"sizeSlug\":\"large\",\"linkDestination\":\"none\"} -->\n"+
		`<figure class="wp-block-image size-large"><img src="%s" alt="%s" class="wp-image-%d"/></figure>`+
		"\n<!-- /wp:image -->", id, uri, html.EscapeString(alt), id)
}

func cdata(s string) string {
	return "<![CDATA[" + strings.ReplaceAll(s, "]]>", "]]]]><![CDATA[>") + "]]>"
}

func xmlEscape(s string) string {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		return s
	}
	return buf.String()
}

const wxrTemplateText = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"
	xmlns:excerpt="http://wordpress.org/export/1.2/excerpt/"
	xmlns:content="http://purl.org/rss/1.0/modules/content/"
	xmlns:wfw="http://wellformedweb.org/CommentAPI/"
	xmlns:dc="http://purl.org/dc/elements/1.1/"
	xmlns:wp="http://wordpress.org/export/1.2/">
<channel>
	<title>{{escape .SiteTitle}}</title>
	<link>{{escape .SiteURL}}</link>
	<description>Generated article export</description>
	<pubDate>{{.PubDate}}</pubDate>
	<language>{{.Language}}</language>
	<wp:wxr_version>1.2</wp:wxr_version>
	<wp:base_site_url>{{escape .SiteURL}}</wp:base_site_url>
	<wp:base_blog_url>{{escape .SiteURL}}</wp:base_blog_url>
	<wp:author>
		<wp:author_id>1</wp:author_id>
		<wp:author_login>{{cdata .Author}}</wp:author_login>
		<wp:author_display_name>{{cdata .Author}}</wp:author_display_name>
	</wp:author>
	<generator>article-agent</generator>
	<item>
		<title>{{cdata .Title}}</title>
		<link>{{escape .SiteURL}}/?p={{.PostID}}</link>
		<pubDate>{{.PubDate}}</pubDate>
		<dc:creator>{{cdata .Author}}</dc:creator>
		<guid isPermaLink="false">{{escape .SiteURL}}/?p={{.PostID}}</guid>
		<description></description>
		<content:encoded>{{cdata .Content}}</content:encoded>
		<excerpt:encoded>{{cdata .Description}}</excerpt:encoded>
		<wp:post_id>{{.PostID}}</wp:post_id>
		<wp:post_date>{{cdata .Date}}</wp:post_date>
		<wp:post_date_gmt>{{cdata .DateGMT}}</wp:post_date_gmt>
		<wp:comment_status>{{cdata "open"}}</wp:comment_status>
		<wp:ping_status>{{cdata "open"}}</wp:ping_status>
		<wp:post_name>{{cdata .Slug}}</wp:post_name>
		<wp:status>{{cdata "draft"}}</wp:status>
		<wp:post_parent>0</wp:post_parent>
		<wp:menu_order>0</wp:menu_order>
		<wp:post_type>{{cdata "post"}}</wp:post_type>
		<wp:post_password>{{cdata ""}}</wp:post_password>
		<wp:is_sticky>0</wp:is_sticky>
		<category domain="category" nicename="uncategorized">{{cdata "Uncategorized"}}</category>
{{- if .ThumbnailID}}
		<wp:postmeta>
			<wp:meta_key>{{cdata "_thumbnail_id"}}</wp:meta_key>
			<wp:meta_value>{{cdata (printf "%d" .ThumbnailID)}}</wp:meta_value>
		</wp:postmeta>
{{- end}}
		<wp:postmeta>
			<wp:meta_key>{{cdata "_yoast_wpseo_title"}}</wp:meta_key>
			<wp:meta_value>{{cdata .Title}}</wp:meta_value>
		</wp:postmeta>
		<wp:postmeta>
			<wp:meta_key>{{cdata "_yoast_wpseo_metadesc"}}</wp:meta_key>
			<wp:meta_value>{{cdata .Description}}</wp:meta_value>
		</wp:postmeta>
		<wp:postmeta>
			<wp:meta_key>{{cdata "rank_math_title"}}</wp:meta_key>
			<wp:meta_value>{{cdata .Title}}</wp:meta_value>
		</wp:postmeta>
		<wp:postmeta>
			<wp:meta_key>{{cdata "rank_math_description"}}</wp:meta_key>
			<wp:meta_value>{{cdata .Description}}</wp:meta_value>
		</wp:postmeta>
	</item>
{{- range .Attachments}}
	<item>
		<title>{{cdata .Title}}</title>
		<link>{{escape $.SiteURL}}/?attachment_id={{.ID}}</link>
		<pubDate>{{$.PubDate}}</pubDate>
		<dc:creator>{{cdata $.Author}}</dc:creator>
		<guid isPermaLink="false">{{escape $.SiteURL}}/?attachment_id={{.ID}}</guid>
		<description></description>
		<content:encoded>{{cdata ""}}</content:encoded>
		<excerpt:encoded>{{cdata ""}}</excerpt:encoded>
		<wp:post_id>{{.ID}}</wp:post_id>
		<wp:post_date>{{cdata $.Date}}</wp:post_date>
		<wp:post_date_gmt>{{cdata $.DateGMT}}</wp:post_date_gmt>
		<wp:comment_status>{{cdata "closed"}}</wp:comment_status>
		<wp:ping_status>{{cdata "closed"}}</wp:ping_status>
		<wp:post_name>{{cdata .Name}}</wp:post_name>
		<wp:status>{{cdata "inherit"}}</wp:status>
		<wp:post_parent>{{$.PostID}}</wp:post_parent>
		<wp:menu_order>0</wp:menu_order>
		<wp:post_type>{{cdata "attachment"}}</wp:post_type>
		<wp:post_password>{{cdata ""}}</wp:post_password>
		<wp:is_sticky>0</wp:is_sticky>
		<wp:attachment_url>{{cdata .URL}}</wp:attachment_url>
		<wp:postmeta>
			<wp:meta_key>{{cdata "_wp_attached_file"}}</wp:meta_key>
			<wp:meta_value>{{cdata .File}}</wp:meta_value>
		</wp:postmeta>
	</item>
{{- end}}
</channel>
</rss>
`
