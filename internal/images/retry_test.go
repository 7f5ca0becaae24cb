package images

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeGenerator struct {
	failures int // errors to return before succeeding
	err      error
	img      *Image
	calls    int
}

func (f *fakeGenerator) GenerateImage(ctx context.Context, prompt string) (*Image, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.err
	}
	return f.img, nil
}

func newTestResolver(gen Generator) (*Resolver, *[]time.Duration) {
	slept := &[]time.Duration{}
	r := NewResolver(gen)
	r.sleep = func(ctx context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return nil
	}
	return r, slept
}

func TestResolve_SuccessFirstAttempt(t *testing.T) {
	// Undecodable data makes Recompress pass the image through unchanged.
	want := &Image{Data: []byte("opaque"), MIME: "image/png"}
	gen := &fakeGenerator{img: want}
	r, slept := newTestResolver(gen)

	got := r.Resolve(context.Background(), "a lighthouse at dawn")

	require.NotNil(t, got)
	assert.Equal(t, want.Data, got.Data)
	assert.Equal(t, 1, gen.calls)
	assert.Empty(t, *slept)
}

func TestResolve_RetriesRateLimit(t *testing.T) {
	gen := &fakeGenerator{
		failures: 3,
		err:      genai.APIError{Code: 429, Message: "quota exceeded"},
		img:      &Image{Data: []byte("opaque"), MIME: "image/png"},
	}
	r, slept := newTestResolver(gen)

	got := r.Resolve(context.Background(), "p")

	require.NotNil(t, got)
	assert.Equal(t, 4, gen.calls)
	assert.Equal(t, []time.Duration{5 * time.Second, 10 * time.Second, 20 * time.Second}, *slept)
}

func TestResolve_ExhaustsRetries(t *testing.T) {
	gen := &fakeGenerator{
		failures: MaxAttempts,
		err:      genai.APIError{Code: 429, Message: "quota exceeded"},
	}
	r, slept := newTestResolver(gen)

	got := r.Resolve(context.Background(), "p")

	assert.Nil(t, got)
	assert.Equal(t, MaxAttempts, gen.calls)
	assert.Equal(t, []time.Duration{
		5 * time.Second, 10 * time.Second, 20 * time.Second, 40 * time.Second,
	}, *slept)
}

func TestResolve_NonRateLimitAbortsImmediately(t *testing.T) {
	gen := &fakeGenerator{failures: 1, err: errors.New("prompt was blocked")}
	r, slept := newTestResolver(gen)

	got := r.Resolve(context.Background(), "p")

	assert.Nil(t, got)
	assert.Equal(t, 1, gen.calls)
	assert.Empty(t, *slept)
}

func TestResolve_NilImageWithoutError(t *testing.T) {
	gen := &fakeGenerator{}
	r, _ := newTestResolver(gen)

	assert.Nil(t, r.Resolve(context.Background(), "p"))
	assert.Equal(t, 1, gen.calls)
}

func TestResolve_CanceledDuringBackoff(t *testing.T) {
	gen := &fakeGenerator{
		failures: MaxAttempts,
		err:      genai.APIError{Code: 429},
	}
	r := NewResolver(gen)
	r.sleep = func(ctx context.Context, d time.Duration) error {
		return context.Canceled
	}

	got := r.Resolve(context.Background(), "p")

	assert.Nil(t, got)
	assert.Equal(t, 1, gen.calls, "cancellation during backoff must stop retrying")
}

func TestBackoff(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 5 * time.Second},
		{2, 10 * time.Second},
		{3, 20 * time.Second},
		{4, 40 * time.Second},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt %d", tt.attempt), func(t *testing.T) {
			assert.Equal(t, tt.want, Backoff(tt.attempt))
		})
	}
}

func TestIsRateLimit(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"api error 429", genai.APIError{Code: 429, Message: "too many requests"}, true},
		{"api error 500", genai.APIError{Code: 500, Message: "internal"}, false},
		{"wrapped api error", fmt.Errorf("image call: %w", genai.APIError{Code: 429}), true},
		{"resource exhausted text", errors.New("rpc error: RESOURCE_EXHAUSTED"), true},
		{"quota text", errors.New("Quota exceeded for requests"), true},
		{"status code text", errors.New("unexpected status 429"), true},
		{"unrelated", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRateLimit(tt.err))
		})
	}
}
