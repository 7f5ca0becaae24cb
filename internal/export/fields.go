// Package export provides formatters that turn stored articles into
// publishable outputs.
package export

import (
	"regexp"
	"strings"
)

// Fields are the publishable parts extracted from a stored article: SEO
// metadata pulled from labeled lines in the raw content, and the body with
// those lines stripped out.
type Fields struct {
	Title       string
	Description string
	Slug        string
	CleanBody   string
}

// Models emit metadata as labeled lines; the patterns tolerate the usual
// formatting drift (bold markers, heading hashes, stray spacing).
var (
	metaTitlePattern = regexp.MustCompile(`(?mi)^\s*#{0,6}\s*\**\s*meta\s+title\s*\**\s*:\s*(.+)$`)
	metaDescPattern  = regexp.MustCompile(`(?mi)^\s*#{0,6}\s*\**\s*meta\s+description\s*\**\s*:\s*(.+)$`)
	slugLinePattern  = regexp.MustCompile(`(?mi)^\s*#{0,6}\s*\**\s*slug\s*\**\s*:\s*(.+)$`)

	labelLinePattern     = regexp.MustCompile(`(?i)^\s*#{0,6}\s*\**\s*(meta\s+title|meta\s+description|slug|focus\s+keyword|tags|category)\s*\**\s*:`)
	delimiterLinePattern = regexp.MustCompile(`^\s*(-{3,}|={3,}|\*{3,})\s*$`)

	slugInvalidPattern = regexp.MustCompile(`[^a-z0-9]+`)
	slugDashRunPattern = regexp.MustCompile(`-+`)
)

const maxSlugLen = 50

// ExtractFields pulls the SEO fields out of raw article content. Missing
// fields fall back to the keyword (title, slug) or stay empty (description).
func ExtractFields(content, keyword string) Fields {
	title := matchLabel(metaTitlePattern, content)
	if title == "" {
		title = keyword
	}

	slug := matchLabel(slugLinePattern, content)
	if slug == "" {
		slug = keyword
	}

	return Fields{
		Title:       title,
		Description: matchLabel(metaDescPattern, content),
		Slug:        Slugify(slug),
		CleanBody:   cleanBody(content),
	}
}

// Slugify converts a title or keyword into a URL-safe slug capped at 50
// characters.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugInvalidPattern.ReplaceAllString(s, "-")
	s = slugDashRunPattern.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if len(s) > maxSlugLen {
		s = strings.Trim(s[:maxSlugLen], "-")
	}
	if s == "" {
		return "article"
	}
	return s
}

func matchLabel(pattern *regexp.Regexp, content string) string {
	m := pattern.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(m[1]), "*"))
}

// cleanBody strips metadata-label lines and section-delimiter lines so only
// the publishable article remains.
func cleanBody(content string) string {
	lines := strings.Split(content, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if labelLinePattern.MatchString(line) || delimiterLinePattern.MatchString(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Trim(strings.Join(kept, "\n"), "\n")
}
