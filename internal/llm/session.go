package llm

import (
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// ErrNoSession indicates a dependent stage was invoked without a live research
// session. Ideation, outlining, and writing all require the context the
// research stage seeds.
var ErrNoSession = errors.New("session not initialized: research must run first")

// Session is the conversational context for one keyword. It is created by
// StartSession, passed explicitly into each later stage, and discarded when the
// keyword finishes or fails. At most one session should be live per pipeline.
type Session struct {
	Keyword  string
	Language string

	chat    *genai.Chat
	sources []Source
}

// Source is one grounding citation collected during research.
type Source struct {
	Title string
	URI   string
}

// Sources returns the grounding citations gathered by the research stage.
func (s *Session) Sources() []Source {
	if s == nil {
		return nil
	}
	return s.sources
}

func (s *Session) live() bool {
	return s != nil && s.chat != nil
}

// appendSources attaches the research citations as a trailing markdown section
// so readers can verify claims. Text without citations passes through as is.
func appendSources(text string, sources []Source) string {
	if len(sources) == 0 {
		return text
	}

	var sb strings.Builder
	sb.WriteString(text)
	sb.WriteString("\n\n## Sources\n")
	for _, src := range sources {
		sb.WriteString(fmt.Sprintf("- [%s](%s)\n", src.Title, src.URI))
	}
	return sb.String()
}

// extractSources collects web grounding chunks from a grounded response.
func extractSources(resp *genai.GenerateContentResponse) []Source {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	gm := resp.Candidates[0].GroundingMetadata
	if gm == nil {
		return nil
	}

	var sources []Source
	for _, chunk := range gm.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		title := chunk.Web.Title
		if title == "" {
			title = chunk.Web.URI
		}
		sources = append(sources, Source{Title: title, URI: chunk.Web.URI})
	}
	return sources
}
