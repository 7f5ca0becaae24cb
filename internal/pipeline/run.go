// Package pipeline provides the high-level orchestration for the article
// generation process: a FIFO queue of keywords, each driven through the fixed
// stage sequence, with pacing delays between provider calls.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/jonathan/article-agent/internal/db"
	"github.com/jonathan/article-agent/internal/images"
	"github.com/jonathan/article-agent/internal/llm"
	"github.com/jonathan/article-agent/internal/pipeline/steps"
	"github.com/jonathan/article-agent/internal/placeholder"
)

// Supported language selectors for generation.
const (
	LanguageEN = "en"
	LanguageID = "id"
)

// SupportedLanguage reports whether lang has a prompt set.
func SupportedLanguage(lang string) bool {
	return lang == LanguageEN || lang == LanguageID
}

// FailedSuffix marks history records created for keywords whose generation
// failed. The record's content is the error text.
const FailedSuffix = " (FAILED)"

// State is the lifecycle phase of the orchestrator.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateCompleted State = "completed"
)

// ErrRunInProgress is returned when a run is requested while another one is
// still active. Runs are strictly one at a time.
var ErrRunInProgress = errors.New("a generation run is already in progress")

// Default pacing between provider calls.
const (
	DefaultBetweenImages = 6 * time.Second
	DefaultBetweenItems  = 3 * time.Second
	DefaultAfterFailure  = 2 * time.Second
)

// Store is the history persistence the orchestrator writes through. *db.DB
// satisfies it; tests substitute an in-memory implementation.
type Store interface {
	UpsertArticle(ctx context.Context, article db.Article) ([]db.Article, error)
	ListArticles(ctx context.Context) ([]db.Article, error)
}

// Options tunes the pacing of a run. Zero durations fall back to the
// defaults. Sleep is injectable so tests can record delays instead of
// waiting them out.
type Options struct {
	BetweenImages time.Duration
	BetweenItems  time.Duration
	AfterFailure  time.Duration
	Sleep         func(ctx context.Context, d time.Duration) error
}

// ProgressEvent represents a progress update during a run
type ProgressEvent struct {
	Step      int       `json:"step"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Keyword   string    `json:"keyword"`
	Content   string    `json:"content,omitempty"`
	Completed int       `json:"completed"`
	Total     int       `json:"total"`
	Timestamp time.Time `json:"timestamp"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Progress event statuses.
const (
	StatusStarted   = "started"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// RunOptions holds the inputs for one batch run
type RunOptions struct {
	Keywords   []string
	Language   string
	OnProgress ProgressCallback
}

// RunResult reports the final counts of a finished run.
type RunResult struct {
	Completed int          `json:"completed"`
	Failed    int          `json:"failed"`
	Total     int          `json:"total"`
	History   []db.Article `json:"history,omitempty"`
}

// RunState is a point-in-time view of the orchestrator for observers (the
// server status endpoint and the CLI).
type RunState struct {
	State      State        `json:"state"`
	Keyword    string       `json:"keyword,omitempty"`
	Language   string       `json:"language,omitempty"`
	StatusLine string       `json:"status_line,omitempty"`
	Step       int          `json:"step,omitempty"`
	TotalSteps int          `json:"total_steps"`
	Completed  int          `json:"completed"`
	Total      int          `json:"total"`
	History    []db.Article `json:"history,omitempty"`
}

// Orchestrator drives the generation pipeline: one keyword at a time, four
// text stages in order, then ordered image resolution and persistence. It
// owns the observable run state; there are no ambient globals.
type Orchestrator struct {
	client   llm.Client
	store    Store
	resolver *images.Resolver
	opts     Options

	mu    sync.Mutex
	state RunState
}

// NewOrchestrator wires a content client and a history store into an
// orchestrator.
func NewOrchestrator(client llm.Client, store Store, opts Options) *Orchestrator {
	if opts.BetweenImages <= 0 {
		opts.BetweenImages = DefaultBetweenImages
	}
	if opts.BetweenItems <= 0 {
		opts.BetweenItems = DefaultBetweenItems
	}
	if opts.AfterFailure <= 0 {
		opts.AfterFailure = DefaultAfterFailure
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepCtx
	}
	return &Orchestrator{
		client:   client,
		store:    store,
		resolver: images.NewResolver(client),
		opts:     opts,
		state:    RunState{State: StateIdle, TotalSteps: steps.Count},
	}
}

// Run processes the keywords in order. A single item's failure never aborts
// the batch: the item is recorded as failed history and the queue moves on.
// Only context cancellation stops a run early; in that case the orchestrator
// returns to Idle with its counters intact for inspection.
func (o *Orchestrator) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	keywords := CleanKeywords(opts.Keywords)
	if len(keywords) == 0 {
		return nil, fmt.Errorf("no keywords to process")
	}
	if !SupportedLanguage(opts.Language) {
		return nil, fmt.Errorf("unsupported language %q (supported: %s, %s)", opts.Language, LanguageEN, LanguageID)
	}
	if err := o.begin(len(keywords), opts.Language); err != nil {
		return nil, err
	}

	failed := 0
	for i, keyword := range keywords {
		if err := ctx.Err(); err != nil {
			o.abort()
			return nil, err
		}

		fmt.Printf("\nProcessing keyword %d/%d: %q [%s]\n", i+1, len(keywords), keyword, strings.ToUpper(opts.Language))

		itemFailed, err := o.processKeyword(ctx, keyword, opts)
		if err != nil {
			o.abort()
			return nil, err
		}

		last := i == len(keywords)-1
		switch {
		case itemFailed:
			failed++
			if err := o.opts.Sleep(ctx, o.opts.AfterFailure); err != nil {
				o.abort()
				return nil, err
			}
		case !last:
			if err := o.opts.Sleep(ctx, o.opts.BetweenItems); err != nil {
				o.abort()
				return nil, err
			}
		}
	}

	result := o.finish(failed)
	fmt.Printf("\nDone! %d/%d keywords processed (%d failed).\n", result.Completed, result.Total, result.Failed)
	return result, nil
}

// processKeyword runs the full stage sequence for one keyword. It returns
// whether the item failed; a non-nil error means the run itself must stop
// (context cancellation), not that the item failed.
func (o *Orchestrator) processKeyword(ctx context.Context, keyword string, opts RunOptions) (bool, error) {
	content, err := o.generateArticle(ctx, keyword, opts)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		log.Printf("[pipeline] keyword %q failed: %v", keyword, err)
		failStep := o.Snapshot().Step
		o.persist(ctx, db.Article{
			Keyword:  keyword + FailedSuffix,
			Content:  err.Error(),
			Language: opts.Language,
		})
		o.advance()
		o.emit(opts, failStep, StatusFailed, err.Error(), keyword, "")
		return true, nil
	}

	if err := ctx.Err(); err != nil {
		return false, err
	}

	o.stepStarted(opts, keyword, 6)
	o.persist(ctx, db.Article{
		Keyword:  keyword,
		Content:  content,
		Language: opts.Language,
	})
	o.advance()
	o.emit(opts, 6, StatusCompleted, fmt.Sprintf("Saved article for %q", keyword), keyword, "")
	return false, nil
}

// generateArticle runs stages 1-5 and returns the finished article content
// with images substituted in. The research output itself is never surfaced;
// it only seeds the session.
func (o *Orchestrator) generateArticle(ctx context.Context, keyword string, opts RunOptions) (string, error) {
	o.stepStarted(opts, keyword, 1)
	session, err := o.client.StartSession(ctx, keyword, opts.Language)
	if err != nil {
		return "", fmt.Errorf("research failed: %w", err)
	}

	o.stepStarted(opts, keyword, 2)
	idea, err := o.client.Ideate(ctx, session)
	if err != nil {
		return "", fmt.Errorf("ideation failed: %w", err)
	}
	o.emit(opts, 2, StatusCompleted, fmt.Sprintf("Idea ready for %q", keyword), keyword, idea)

	o.stepStarted(opts, keyword, 3)
	outline, err := o.client.Outline(ctx, session)
	if err != nil {
		return "", fmt.Errorf("outline failed: %w", err)
	}
	o.emit(opts, 3, StatusCompleted, fmt.Sprintf("Outline ready for %q", keyword), keyword, outline)

	o.stepStarted(opts, keyword, 4)
	text, err := o.client.Write(ctx, session)
	if err != nil {
		return "", fmt.Errorf("writing failed: %w", err)
	}

	o.stepStarted(opts, keyword, 5)
	return o.resolveImages(ctx, text)
}

// resolveImages replaces every image placeholder in the article, calling the
// image model once per placeholder in order of appearance. Successive calls
// within one article are spaced by BetweenImages; there is no delay after the
// last one.
func (o *Orchestrator) resolveImages(ctx context.Context, text string) (string, error) {
	matches := placeholder.Scan(text)
	if len(matches) == 0 {
		return text, nil
	}

	resolved := make([]*images.Image, len(matches))
	for i, match := range matches {
		if i > 0 {
			if err := o.opts.Sleep(ctx, o.opts.BetweenImages); err != nil {
				return "", err
			}
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		resolved[i] = o.resolver.Resolve(ctx, match.Prompt)
	}
	return placeholder.Substitute(text, matches, resolved), nil
}

// persist upserts the article and refreshes History from the store's full
// return set. Persistence failures never fail the item: the store stays the
// source of truth and is re-read instead.
func (o *Orchestrator) persist(ctx context.Context, article db.Article) {
	history, err := o.store.UpsertArticle(ctx, article)
	if err != nil {
		log.Printf("[pipeline] failed to persist %q: %v", article.Keyword, err)
		history, err = o.store.ListArticles(ctx)
		if err != nil {
			log.Printf("[pipeline] failed to reload history: %v", err)
			return
		}
	}

	o.mu.Lock()
	o.state.History = history
	o.mu.Unlock()
}

// Snapshot returns a copy of the current run state for observers.
func (o *Orchestrator) Snapshot() RunState {
	o.mu.Lock()
	defer o.mu.Unlock()
	snap := o.state
	snap.History = append([]db.Article(nil), o.state.History...)
	return snap
}

func (o *Orchestrator) begin(total int, language string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state.State == StateRunning {
		return ErrRunInProgress
	}
	o.state = RunState{
		State:      StateRunning,
		Language:   language,
		StatusLine: "starting run",
		TotalSteps: steps.Count,
		Total:      total,
		History:    o.state.History,
	}
	return nil
}

// abort returns the orchestrator to Idle after a canceled run. Counters stay
// visible through Snapshot until the next run begins.
func (o *Orchestrator) abort() {
	o.mu.Lock()
	o.state.State = StateIdle
	o.state.StatusLine = "run canceled"
	o.mu.Unlock()
}

func (o *Orchestrator) finish(failed int) *RunResult {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.State = StateCompleted
	o.state.Keyword = ""
	o.state.Step = 0
	o.state.StatusLine = fmt.Sprintf("completed %d/%d keywords", o.state.Completed, o.state.Total)
	return &RunResult{
		Completed: o.state.Completed,
		Failed:    failed,
		Total:     o.state.Total,
		History:   append([]db.Article(nil), o.state.History...),
	}
}

func (o *Orchestrator) advance() {
	o.mu.Lock()
	o.state.Completed++
	o.mu.Unlock()
}

// stepStarted updates the observable status for a step, prints the progress
// line, and emits a started event.
func (o *Orchestrator) stepStarted(opts RunOptions, keyword string, step int) {
	def, _ := steps.ByNumber(step)

	o.mu.Lock()
	o.state.Keyword = keyword
	o.state.Step = step
	o.state.StatusLine = fmt.Sprintf("%q [%s] step %d/%d: %s",
		keyword, strings.ToUpper(o.state.Language), step, steps.Count, def.Label)
	o.mu.Unlock()

	fmt.Printf("Step %d/%d: %s...\n", step, steps.Count, def.Label)
	o.emit(opts, step, StatusStarted, def.Label, keyword, "")
}

// emit calls the progress callback if configured
func (o *Orchestrator) emit(opts RunOptions, step int, status, message, keyword, content string) {
	if opts.OnProgress == nil {
		return
	}

	o.mu.Lock()
	completed, total := o.state.Completed, o.state.Total
	o.mu.Unlock()

	opts.OnProgress(ProgressEvent{
		Step:      step,
		Status:    status,
		Message:   message,
		Keyword:   keyword,
		Content:   content,
		Completed: completed,
		Total:     total,
		Timestamp: time.Now(),
	})
}

// CleanKeywords trims whitespace and drops empty entries while preserving
// order and duplicates.
func CleanKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
