// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/article-agent/internal/db"
	"github.com/jonathan/article-agent/internal/pipeline"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// historyLine renders one history entry. Failed entries carry the failure
// marker in their keyword already.
func historyLine(a db.Article) string {
	if strings.HasSuffix(a.Keyword, pipeline.FailedSuffix) {
		return fmt.Sprintf("⚠ %s", a.Keyword)
	}
	return fmt.Sprintf("• %s (%s, %s)", a.Keyword, a.Language, formatSize(len(a.Content)))
}

// formatSize renders a byte count for humans
func formatSize(n int) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	return fmt.Sprintf("%.1f KB", float64(n)/1024)
}

// PrintRunSummary outputs the final counts of a finished generation run.
func (p *Printer) PrintRunSummary(result *pipeline.RunResult) {
	if result == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Keywords:   %d\n", result.Total))
	sb.WriteString(fmt.Sprintf("Processed:  %d\n", result.Completed))
	sb.WriteString(fmt.Sprintf("Failed:     %d\n", result.Failed))

	if len(result.History) > 0 {
		sb.WriteString("\nHistory:\n")
		count := min(len(result.History), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString("  " + historyLine(result.History[i]) + "\n")
		}
		if len(result.History) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.History)-maxItemsToShow))
		}
	}

	p.printBox("GENERATION RUN SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintHistory outputs the stored article history, newest first. Unlike the
// run summary this lists every entry; it backs the history command.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintHistory(articles []db.Article) {
	if len(articles) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "HISTORY IS EMPTY")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total articles: %d\n\n", len(articles)))

	for i, a := range articles {
		sb.WriteString(historyLine(a) + "\n")
		sb.WriteString(fmt.Sprintf("  %s  %s\n", a.ID, a.CreatedAt.Format("2006-01-02 15:04")))
		if i < len(articles)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("ARTICLE HISTORY", strings.TrimSuffix(sb.String(), "\n"))
}
