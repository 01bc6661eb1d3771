package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"applykit-backend/internal/llm"
	"applykit-backend/internal/shared/telemetry"
)

// Client talks to the Google Gemini API through the official SDK.
type Client struct {
	genai   *genai.Client
	model   string
	timeout time.Duration
}

// NewClient builds a Gemini-backed completion client. The key is not
// verified here; Gemini rejects bad keys on the first request.
func NewClient(ctx context.Context, apiKey, model string, timeout time.Duration) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: gemini api key is required", llm.ErrAuthentication)
	}
	if model == "" {
		return nil, errors.New("gemini model is required")
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	gc, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Client{genai: gc, model: model, timeout: timeout}, nil
}

// Complete sends the prompt pair to Gemini and returns the first candidate's text.
func (c *Client) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	model := c.genai.GenerativeModel(c.model)
	model.SetTemperature(req.Temperature)
	if req.JSONMode {
		model.ResponseMIMEType = "application/json"
	}
	if req.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.User))
	if err != nil {
		return "", mapError(err)
	}

	text, err := extractText(resp)
	if err != nil {
		return "", fmt.Errorf("%w: %v", llm.ErrGeneration, err)
	}
	if req.JSONMode {
		text = cleanJSONBlock(text)
	}

	logUsage(c.model, resp.UsageMetadata)
	return text, nil
}

// Close releases the underlying SDK connection.
func (c *Client) Close() error {
	if c.genai != nil {
		return c.genai.Close()
	}
	return nil
}

func mapError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: gemini: %s", llm.ErrFromStatus(apiErr.Code), apiErr.Message)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: gemini request timed out: %v", llm.ErrNetwork, err)
	}
	return fmt.Errorf("%w: gemini: %v", llm.ErrNetwork, err)
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", errors.New("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", errors.New("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}

// cleanJSONBlock removes markdown code fences that Gemini sometimes wraps
// around JSON output even in JSON mode.
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func logUsage(model string, usage *genai.UsageMetadata) {
	fields := map[string]any{"provider": "gemini", "model": model}
	if usage != nil {
		fields["prompt_tokens"] = usage.PromptTokenCount
		fields["completion_tokens"] = usage.CandidatesTokenCount
		fields["total_tokens"] = usage.TotalTokenCount
	}
	telemetry.Info("llm.response", fields)
}

var _ llm.Client = (*Client)(nil)
