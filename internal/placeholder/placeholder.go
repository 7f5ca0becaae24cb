// Package placeholder parses and substitutes the bracketed image markers the
// writing stage embeds in article text.
package placeholder

import (
	"regexp"
	"strings"

	"github.com/jonathan/article-agent/internal/images"
)

// Kind distinguishes the single featured slot from inline illustrations.
type Kind int

const (
	Featured Kind = iota
	Illustration
)

// FeaturedAlt is the sentinel alt text marking the featured image in markdown.
const FeaturedAlt = "FEATURED_IMAGE"

// markerPattern matches [FEATURED_IMAGE_PROMPT: ...] and [IMAGE_PROMPT: ...].
// PROMPT_GAMBAR is the legacy marker older Indonesian prompt versions produced.
var markerPattern = regexp.MustCompile(`(?i)\[\s*(FEATURED_IMAGE_PROMPT|IMAGE_PROMPT|PROMPT_GAMBAR)\s*:\s*([^\]]+?)\s*\]`)

// Match is one placeholder occurrence in the scanned text.
type Match struct {
	Kind   Kind
	Prompt string

	start int
	end   int
}

// Scan returns all image placeholders in text in order of appearance.
func Scan(text string) []Match {
	idx := markerPattern.FindAllStringSubmatchIndex(text, -1)
	if len(idx) == 0 {
		return nil
	}

	matches := make([]Match, 0, len(idx))
	for _, m := range idx {
		kind := Illustration
		if strings.EqualFold(text[m[2]:m[3]], "FEATURED_IMAGE_PROMPT") {
			kind = Featured
		}
		matches = append(matches, Match{
			Kind:   kind,
			Prompt: text[m[4]:m[5]],
			start:  m[0],
			end:    m[1],
		})
	}
	return matches
}

// Substitute rebuilds text with each placeholder span replaced by its resolved
// image. The featured slot becomes a markdown image carrying the FeaturedAlt
// sentinel; illustrations become a blank-line separated image paragraph using
// the prompt as alt text; failed slots (nil image) are erased. Text outside the
// matched spans is never touched. resolved must be parallel to matches.
func Substitute(text string, matches []Match, resolved []*images.Image) string {
	if len(matches) == 0 {
		return text
	}

	var builder strings.Builder
	last := 0
	for i, m := range matches {
		builder.WriteString(text[last:m.start])
		if img := resolved[i]; img != nil {
			if m.Kind == Featured {
				builder.WriteString("![" + FeaturedAlt + "](" + img.DataURI() + ")")
			} else {
				builder.WriteString("\n\n![" + m.Prompt + "](" + img.DataURI() + ")\n")
			}
		}
		last = m.end
	}
	builder.WriteString(text[last:])
	return builder.String()
}
