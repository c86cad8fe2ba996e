// Package gemini implements llm.FieldExtractor on top of the Google
// generative-AI client.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/invoicedesk/invoice-manager/internal/common"
	"github.com/invoicedesk/invoice-manager/internal/llm"
)

// Config for the Gemini client.
type Config struct {
	APIKey      string
	Model       string // e.g. "gemini-1.5-pro-latest"
	Temperature float32
}

type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
	cfg    Config
	log    *slog.Logger
}

// NewClient dials the Gemini API. The returned client is safe for
// concurrent use; Close it on shutdown.
func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-pro-latest"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(cfg.Temperature)

	return &Client{client: client, model: model, cfg: cfg, log: logger}, nil
}

// ExtractRaw implements llm.FieldExtractor. It sends the fixed extraction
// instruction and the document payload as two text parts and returns the
// first candidate's first text part. The call is synchronous; cancellation
// comes only from ctx, no retry is attempted.
func (c *Client) ExtractRaw(ctx context.Context, payload string) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("gemini.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"payload_bytes", len(payload),
	)

	resp, err := c.model.GenerateContent(ctx,
		genai.Text(llm.ExtractionPrompt),
		genai.Text(payload),
	)
	if err != nil {
		c.log.Error("gemini.extract.transport_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", common.NewAppError(common.CodeExtractionFailure, "AI extraction failed", err)
	}

	text, ok := firstText(resp)
	if !ok {
		c.log.Error("gemini.extract.empty_response",
			"req_id", rid,
			"candidates", len(resp.Candidates),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", common.NewAppError(common.CodeInvalidAIResponse, "AI response is missing text content", nil)
	}

	c.log.Info("gemini.extract.ok",
		"req_id", rid,
		"response_bytes", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}

// firstText pulls the first candidate's first text part, the only part of
// the response structure this pipeline consumes.
func firstText(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", false
	}
	cand := resp.Candidates[0]
	if cand.Content == nil || len(cand.Content.Parts) == 0 {
		return "", false
	}
	if txt, ok := cand.Content.Parts[0].(genai.Text); ok {
		return string(txt), true
	}
	return "", false
}

// Close releases the underlying API connection.
func (c *Client) Close() error {
	return c.client.Close()
}
