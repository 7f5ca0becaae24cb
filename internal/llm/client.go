package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/jonathan/article-agent/internal/images"
	"github.com/jonathan/article-agent/internal/prompts"
)

// Client is the abstraction over the content provider. The four text stages
// must be called in order against the same session; GenerateImage is
// session-free.
type Client interface {
	// StartSession runs the research stage and returns the session that seeds
	// all later stages. The research text itself is not exposed.
	StartSession(ctx context.Context, keyword, language string) (*Session, error)
	// Ideate proposes the article concept (stage 2)
	Ideate(ctx context.Context, s *Session) (string, error)
	// Outline produces the article outline (stage 3)
	Outline(ctx context.Context, s *Session) (string, error)
	// Write produces the full article text with embedded image placeholders
	// and appended sources (stage 4)
	Write(ctx context.Context, s *Session) (string, error)
	// GenerateImage requests a single 16:9 image for a prompt. A response
	// without an image yields (nil, nil).
	GenerateImage(ctx context.Context, prompt string) (*images.Image, error)
	// Close releases any resources held by the client
	Close() error
}

// GeminiClient implements Client on the Gemini API.
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config == nil {
		config = DefaultConfig()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// StartSession opens a fresh chat for the keyword and runs the research stage
// with web search enabled. Grounding citations are kept on the session so the
// writing stage can append them.
func (c *GeminiClient) StartSession(ctx context.Context, keyword, language string) (*Session, error) {
	chatConfig := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.7),
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	}

	chat, err := c.client.Chats.Create(ctx, c.config.GetModel(RoleText), chatConfig, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat session: %w", err)
	}

	s := &Session{Keyword: keyword, Language: language, chat: chat}

	prompt, err := stagePrompt("research", s)
	if err != nil {
		return nil, err
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: prompt})
	if err != nil {
		return nil, fmt.Errorf("research stage failed: %w", err)
	}
	if _, err := responseText(resp); err != nil {
		return nil, fmt.Errorf("research stage: %w", err)
	}

	s.sources = extractSources(resp)
	return s, nil
}

// Ideate proposes the article concept within the session.
func (c *GeminiClient) Ideate(ctx context.Context, s *Session) (string, error) {
	return c.sendStage(ctx, s, "ideate")
}

// Outline produces the article outline within the session.
func (c *GeminiClient) Outline(ctx context.Context, s *Session) (string, error) {
	return c.sendStage(ctx, s, "outline")
}

// Write produces the full article and appends the research citations.
func (c *GeminiClient) Write(ctx context.Context, s *Session) (string, error) {
	text, err := c.sendStage(ctx, s, "write")
	if err != nil {
		return "", err
	}
	return appendSources(CleanFences(text), s.sources), nil
}

func (c *GeminiClient) sendStage(ctx context.Context, s *Session, stage string) (string, error) {
	if !s.live() {
		return "", ErrNoSession
	}

	prompt, err := stagePrompt(stage, s)
	if err != nil {
		return "", err
	}

	resp, err := s.chat.SendMessage(ctx, genai.Part{Text: prompt})
	if err != nil {
		return "", fmt.Errorf("%s stage failed: %w", stage, err)
	}

	text, err := responseText(resp)
	if err != nil {
		return "", fmt.Errorf("%s stage: %w", stage, err)
	}
	return text, nil
}

// GenerateImage requests one 16:9 image. The provider may legitimately return
// zero images for a prompt; that is reported as (nil, nil), not an error.
func (c *GeminiClient) GenerateImage(ctx context.Context, prompt string) (*images.Image, error) {
	resp, err := c.client.Models.GenerateImages(ctx, c.config.GetModel(RoleImage), prompt,
		&genai.GenerateImagesConfig{
			NumberOfImages: 1,
			AspectRatio:    "16:9",
		})
	if err != nil {
		return nil, fmt.Errorf("failed to generate image: %w", err)
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return nil, nil
	}

	img := resp.GeneratedImages[0].Image
	mime := img.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	return &images.Image{Data: img.ImageBytes, MIME: mime}, nil
}

// Close releases resources held by the client. The genai SDK client needs no
// explicit shutdown; the method exists so callers can treat all Client
// implementations uniformly.
func (c *GeminiClient) Close() error {
	return nil
}

func stagePrompt(stage string, s *Session) (string, error) {
	tmpl, err := prompts.ForStage(stage, s.Language)
	if err != nil {
		return "", err
	}
	return prompts.Format(tmpl, map[string]string{"Keyword": s.Keyword}), nil
}

// responseText extracts the text of a response, treating an empty result as an
// error so a blank stage never silently produces an empty article.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty response text")
	}
	return text, nil
}
