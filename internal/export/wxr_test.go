package export

import (
	"bytes"
	"encoding/xml"
	"io"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countElements walks the document token by token, which also verifies the
// output is well-formed XML.
func countElements(t *testing.T, data []byte, local string) int {
	t.Helper()
	dec := xml.NewDecoder(bytes.NewReader(data))
	count := 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == local {
			count++
		}
	}
	return count
}

func testWXROptions() WXROptions {
	return WXROptions{
		BasePostID: 1500,
		Now: func() time.Time {
			return time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
		},
	}
}

func TestWXR_NoImages(t *testing.T) {
	f := Fields{
		Title:       "Best Coffee Beans",
		Description: "A buying guide.",
		Slug:        "best-coffee-beans",
		CleanBody:   "# Best Coffee Beans\n\nBody text.",
	}

	data, err := WXR(f, testWXROptions())
	require.NoError(t, err)
	doc := string(data)

	assert.Equal(t, 1, countElements(t, data, "item"))
	assert.Contains(t, doc, "<wp:post_id>1500</wp:post_id>")
	assert.Contains(t, doc, "<wp:post_name><![CDATA[best-coffee-beans]]></wp:post_name>")
	assert.Contains(t, doc, "<wp:status><![CDATA[draft]]></wp:status>")
	assert.Contains(t, doc, "<title><![CDATA[Best Coffee Beans]]></title>")
	assert.Contains(t, doc, "<h1>Best Coffee Beans</h1>")
	assert.Contains(t, doc, "<language>en</language>")
	assert.Contains(t, doc, "Wed, 01 May 2024 10:30:00 +0000")
	assert.Contains(t, doc, "<wp:post_date><![CDATA[2024-05-01 10:30:00]]></wp:post_date>")
	assert.NotContains(t, doc, "_thumbnail_id")
	assert.NotContains(t, doc, "attachment_id")
}

func TestWXR_FeaturedImageBecomesThumbnail(t *testing.T) {
	body := "![FEATURED_IMAGE](" + testDataURI([]byte("hero"), "image/png") + ")\n\n# Title\n\nText."
	f := Fields{Title: "Title", Slug: "title", CleanBody: body}

	data, err := WXR(f, testWXROptions())
	require.NoError(t, err)
	doc := string(data)

	assert.Equal(t, 2, countElements(t, data, "item"))
	assert.Contains(t, doc, "_thumbnail_id")
	assert.Contains(t, doc, "<wp:meta_value><![CDATA[1501]]></wp:meta_value>")
	assert.Contains(t, doc, "<wp:post_id>1501</wp:post_id>")
	assert.Contains(t, doc, "<wp:post_parent>1500</wp:post_parent>")
	assert.Contains(t, doc, "<wp:status><![CDATA[inherit]]></wp:status>")
	assert.Contains(t, doc, "<wp:post_type><![CDATA[attachment]]></wp:post_type>")

	// The featured image is the thumbnail only, never an inline block.
	assert.NotContains(t, doc, "<!-- wp:image")
	assert.NotContains(t, doc, "wp-image-1501")
}

func TestWXR_InlineImagesBecomeGutenbergBlocks(t *testing.T) {
	body := "![FEATURED_IMAGE](" + testDataURI([]byte("hero"), "image/png") + ")\n\n# Title\n\nPara.\n\n" +
		"![roast chart](" + testDataURI([]byte("chart"), "image/jpeg") + ")\n\nMore.\n\n" +
		"![crema shot](" + testDataURI([]byte("crema"), "image/webp") + ")\n"
	f := Fields{Title: "Title", Description: "Desc.", Slug: "title", CleanBody: body}

	data, err := WXR(f, testWXROptions())
	require.NoError(t, err)
	doc := string(data)

	assert.Equal(t, 4, countElements(t, data, "item"))

	assert.Contains(t, doc, "<wp:post_id>1501</wp:post_id>")
	assert.Contains(t, doc, "<wp:post_id>1502</wp:post_id>")
	assert.Contains(t, doc, "<wp:post_id>1503</wp:post_id>")
	assert.Contains(t, doc, "<wp:meta_value><![CDATA[1501]]></wp:meta_value>")

	assert.Contains(t, doc, `{"id":1502,"sizeSlug":"large","linkDestination":"none"}`)
	assert.Contains(t, doc, "wp-image-1502")
	assert.Contains(t, doc, "wp-image-1503")
	assert.NotContains(t, doc, "wp-image-1501")
	assert.Contains(t, doc, `alt="roast chart"`)

	assert.Contains(t, doc, "<wp:meta_value><![CDATA[images/image-1.png]]></wp:meta_value>")
	assert.Contains(t, doc, "<wp:meta_value><![CDATA[images/image-2.jpg]]></wp:meta_value>")
	assert.Contains(t, doc, "<wp:meta_value><![CDATA[images/image-3.webp]]></wp:meta_value>")
	assert.Contains(t, doc, "<wp:post_name><![CDATA[image-2]]></wp:post_name>")

	assert.Contains(t, doc, "_yoast_wpseo_title")
	assert.Contains(t, doc, "_yoast_wpseo_metadesc")
	assert.Contains(t, doc, "rank_math_title")
	assert.Contains(t, doc, "rank_math_description")
}

func TestWXR_DefaultBasePostIDIsRandomized(t *testing.T) {
	data, err := WXR(Fields{Title: "T", Slug: "t", CleanBody: "Text."}, WXROptions{})
	require.NoError(t, err)

	m := regexp.MustCompile(`<wp:post_id>(\d+)</wp:post_id>`).FindSubmatch(data)
	require.NotNil(t, m)
	id, err := strconv.Atoi(string(m[1]))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, id, 1000)
	assert.LessOrEqual(t, id, 9999)
}

func TestCdata(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "<![CDATA[plain]]>"},
		{"", "<![CDATA[]]>"},
		{"has <tags> & ampersands", "<![CDATA[has <tags> & ampersands]]>"},
		{"a]]>b", "<![CDATA[a]]]]><![CDATA[>b]]>"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cdata(tt.in))
	}
}

func TestXMLEscape(t *testing.T) {
	assert.Equal(t, "a&lt;b&gt; &amp; c", xmlEscape("a<b> & c"))
	assert.Equal(t, "plain", xmlEscape("plain"))
}
