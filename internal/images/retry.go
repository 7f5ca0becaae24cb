package images

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

// MaxAttempts bounds how often a rate-limited image request is retried.
const MaxAttempts = 5

const backoffBase = 5 * time.Second

// Backoff returns the wait before retrying after the given attempt (1-based):
// 5s, 10s, 20s, 40s.
func Backoff(attempt int) time.Duration {
	return backoffBase << uint(attempt-1)
}

// IsRateLimit reports whether err is a provider rate-limit / quota response.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "429") ||
		strings.Contains(msg, "quota")
}

// Generator is the single image-generation call the resolver wraps.
type Generator interface {
	GenerateImage(ctx context.Context, prompt string) (*Image, error)
}

// Resolver turns a prompt into an image, absorbing rate limits with bounded
// backoff and every other failure into a nil result. A failed image must never
// fail the article it belongs to.
type Resolver struct {
	gen      Generator
	maxWidth int
	quality  int
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewResolver creates a resolver with the default recompression bounds.
func NewResolver(gen Generator) *Resolver {
	return &Resolver{
		gen:      gen,
		maxWidth: DefaultMaxWidth,
		quality:  DefaultQuality,
		sleep:    sleepCtx,
	}
}

// Resolve generates one image for the prompt. Rate limits are retried up to
// MaxAttempts with exponential backoff; any other error, retry exhaustion, or
// context cancellation yields nil. Successful results are recompressed before
// being returned.
func (r *Resolver) Resolve(ctx context.Context, prompt string) *Image {
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		img, err := r.gen.GenerateImage(ctx, prompt)
		if err == nil {
			if img == nil {
				return nil
			}
			return Recompress(img, r.maxWidth, r.quality)
		}

		if !IsRateLimit(err) {
			log.Printf("[images] generation failed for %q: %v", truncatePrompt(prompt), err)
			return nil
		}
		if attempt == MaxAttempts {
			break
		}

		delay := Backoff(attempt)
		log.Printf("[images] rate limited, retrying in %s (attempt %d/%d)", delay, attempt, MaxAttempts)
		if err := r.sleep(ctx, delay); err != nil {
			return nil
		}
	}

	log.Printf("[images] retries exhausted for %q", truncatePrompt(prompt))
	return nil
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

func truncatePrompt(prompt string) string {
	if len(prompt) > 60 {
		return prompt[:60] + "..."
	}
	return prompt
}
