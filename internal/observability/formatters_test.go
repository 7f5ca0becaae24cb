package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/article-agent/internal/db"
	"github.com/jonathan/article-agent/internal/pipeline"
	"github.com/stretchr/testify/assert"
)

func TestPrintRunSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	result := &pipeline.RunResult{
		Total:     3,
		Completed: 2,
		Failed:    1,
		History: []db.Article{
			{ID: uuid.New(), Keyword: "coffee brewing", Content: strings.Repeat("x", 2560), Language: "en"},
			{ID: uuid.New(), Keyword: "tea culture", Content: "short", Language: "id"},
			{ID: uuid.New(), Keyword: "broken topic" + pipeline.FailedSuffix, Content: "", Language: "en"},
		},
	}

	p.PrintRunSummary(result)
	output := buf.String()

	assert.Contains(t, output, "GENERATION RUN SUMMARY")
	assert.Contains(t, output, "Keywords:   3")
	assert.Contains(t, output, "Processed:  2")
	assert.Contains(t, output, "Failed:     1")
	assert.Contains(t, output, "• coffee brewing (en, 2.5 KB)")
	assert.Contains(t, output, "• tea culture (id, 5 B)")
	assert.Contains(t, output, "⚠ broken topic"+pipeline.FailedSuffix)
}

func TestPrintRunSummary_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRunSummary(nil)

	assert.Empty(t, buf.String())
}

func TestPrintRunSummary_TruncatesLongHistory(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	result := &pipeline.RunResult{Total: 7, Completed: 7}
	for i := 0; i < 7; i++ {
		result.History = append(result.History, db.Article{
			ID:       uuid.New(),
			Keyword:  "keyword",
			Content:  "body",
			Language: "en",
		})
	}

	p.PrintRunSummary(result)
	output := buf.String()

	assert.Contains(t, output, "... and 2 more")
	assert.Equal(t, maxItemsToShow, strings.Count(output, "• keyword"))
}

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	created := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	ok := db.Article{
		ID:        uuid.New(),
		Keyword:   "coffee brewing",
		Content:   "full article body",
		Language:  "en",
		CreatedAt: created,
	}
	failed := db.Article{
		ID:        uuid.New(),
		Keyword:   "broken topic" + pipeline.FailedSuffix,
		CreatedAt: created,
	}

	p.PrintHistory([]db.Article{ok, failed})
	output := buf.String()

	assert.Contains(t, output, "ARTICLE HISTORY")
	assert.Contains(t, output, "Total articles: 2")
	assert.Contains(t, output, "• coffee brewing (en, 17 B)")
	assert.Contains(t, output, "⚠ broken topic")
	assert.Contains(t, output, ok.ID.String())
	assert.Contains(t, output, "2024-03-01 10:30")
}

func TestPrintHistory_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintHistory(nil)

	assert.Contains(t, buf.String(), "HISTORY IS EMPTY")
}

func TestPrintBox_LongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	long := db.Article{
		ID:       uuid.New(),
		Keyword:  "a very long keyword about artisanal coffee brewing techniques for beginners",
		Content:  "body",
		Language: "en",
	}

	p.PrintHistory([]db.Article{long})
	output := buf.String()

	// Should contain box characters and truncate the oversized line
	assert.True(t, strings.Contains(output, "┌"))
	assert.True(t, strings.Contains(output, "└"))
	assert.True(t, strings.Contains(output, "│"))
	assert.Contains(t, output, "...")
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "0 B", formatSize(0))
	assert.Equal(t, "512 B", formatSize(512))
	assert.Equal(t, "1023 B", formatSize(1023))
	assert.Equal(t, "1.0 KB", formatSize(1024))
	assert.Equal(t, "2.5 KB", formatSize(2560))
}
