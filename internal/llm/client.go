package llm

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/dgallion1/qagen/internal/qa"
)

const (
	// MaxAttempts bounds generation tries per page, counting the first call.
	MaxAttempts = 3
	// RetryDelay is the fixed wait between attempts.
	RetryDelay = 2 * time.Second

	maxOutputTokens = 4000
	topP            = 0.95
	topK            = 64
)

// Options configures a Client.
type Options struct {
	// APIKey falls back to the GOOGLE_API_KEY environment variable when empty.
	APIKey       string
	Model        string
	Temperature  float64
	PairsPerPage int
}

// Client generates question-answer pairs from page text via the Gemini API.
// It holds no state between calls beyond the latency stats window.
type Client struct {
	genai        *genai.Client
	modelName    string
	pairsPerPage int
	log          *slog.Logger

	// Stats collects per-call latency for the run summary and the stats API.
	Stats *Stats

	retryDelay   time.Duration
	generateText func(ctx context.Context, prompt string) (string, error)
}

// NewClient builds the Gemini gateway. A missing credential is a fatal
// configuration error raised here, not deferred to the first request.
func NewClient(ctx context.Context, opts Options, log *slog.Logger) (*Client, error) {
	apiKey := opts.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("no API key: set it in the configuration or the GOOGLE_API_KEY environment variable")
	}

	gc, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := gc.GenerativeModel(opts.Model)
	model.SetTemperature(float32(opts.Temperature))
	model.SetTopP(topP)
	model.SetTopK(topK)
	model.SetMaxOutputTokens(maxOutputTokens)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(SystemInstruction)},
	}

	c := &Client{
		genai:        gc,
		modelName:    opts.Model,
		pairsPerPage: opts.PairsPerPage,
		log:          log,
		Stats:        NewStats(time.Hour),
		retryDelay:   RetryDelay,
	}
	c.generateText = func(ctx context.Context, prompt string) (string, error) {
		return c.completeOnce(ctx, model, prompt)
	}
	return c, nil
}

// GenerateQA produces the configured number of pairs for one page of text.
// Records come back without page numbers; the caller stamps those. Failures
// are retried up to MaxAttempts with a fixed delay; request errors and
// malformed responses spend the same budget. The last error is returned once
// the budget is exhausted.
func (c *Client) GenerateQA(ctx context.Context, pageText string) ([]qa.Record, error) {
	prompt := BuildPrompt(pageText, c.pairsPerPage)

	var lastErr error
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		text, err := c.generateText(ctx, prompt)
		if err != nil {
			lastErr = err
			c.log.Warn("generation request failed", "attempt", attempt, "error", err)
			continue
		}

		records, err := ParseResponse(text)
		if err != nil {
			lastErr = err
			c.log.Warn("malformed generation response", "attempt", attempt, "error", err)
			continue
		}
		return records, nil
	}
	return nil, fmt.Errorf("generate qa pairs after %d attempts: %w", MaxAttempts, lastErr)
}

// completeOnce issues a single generation request and assembles the
// candidate text.
func (c *Client) completeOnce(ctx context.Context, model *genai.GenerativeModel, prompt string) (string, error) {
	start := time.Now()
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	c.Stats.Record(time.Since(start))
	if err != nil {
		return "", classifyError(err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", &TransientError{Err: fmt.Errorf("empty response from model")}
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String(), nil
}

// ModelName reports the configured model identifier.
func (c *Client) ModelName() string { return c.modelName }

// Close releases the underlying API client.
func (c *Client) Close() error {
	return c.genai.Close()
}
