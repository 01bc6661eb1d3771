package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"applykit-backend/internal/llm"
	"applykit-backend/internal/shared/telemetry"
)

const defaultBaseURL = "https://api.openai.com/v1/chat/completions"

// Client implements llm.Client against the OpenAI Chat Completions API.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs an OpenAI client. A missing key is an
// authentication failure up front; the provider would reject it anyway.
func NewClient(apiKey, model string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: openai api key is required", llm.ErrAuthentication)
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("openai model is required")
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// NewClientWithBaseURL overrides the endpoint. Intended for tests.
func NewClientWithBaseURL(apiKey, model, baseURL string, timeout time.Duration) (*Client, error) {
	c, err := NewClient(apiKey, model, timeout)
	if err != nil {
		return nil, err
	}
	c.baseURL = baseURL
	return c, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    *float32        `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete sends one chat completion request and returns the content of
// the first choice.
func (c *Client) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if strings.TrimSpace(req.System) != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.User})

	reqBody := chatRequest{
		Model:    c.model,
		Messages: messages,
	}
	if req.JSONMode {
		reqBody.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	// gpt-5 models reject the temperature parameter.
	if !isGPT5(c.model) {
		temp := req.Temperature
		reqBody.Temperature = &temp
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", fmt.Errorf("%w: openai request timeout: %v", llm.ErrNetwork, err)
		}
		return "", fmt.Errorf("%w: %v", llm.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", llm.ErrNetwork, err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		if resp.StatusCode >= 400 {
			return "", fmt.Errorf("%w: openai http status %d: %s", llm.ErrFromStatus(resp.StatusCode), resp.StatusCode, strings.TrimSpace(string(body)))
		}
		return "", fmt.Errorf("%w: openai response parse: %v", llm.ErrGeneration, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("%w: openai: %s (%s)", llm.ErrFromStatus(resp.StatusCode), parsed.Error.Message, parsed.Error.Type)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%w: openai http status %d: %s", llm.ErrFromStatus(resp.StatusCode), resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: openai response missing choices", llm.ErrGeneration)
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%w: openai response empty content", llm.ErrGeneration)
	}
	logUsage(c.model, parsed.Usage)
	return content, nil
}

func logUsage(model string, usage *struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}) {
	fields := map[string]any{"provider": "openai", "model": model}
	if usage != nil {
		fields["prompt_tokens"] = usage.PromptTokens
		fields["completion_tokens"] = usage.CompletionTokens
		fields["total_tokens"] = usage.TotalTokens
	}
	telemetry.Info("llm.response", fields)
}

func isGPT5(model string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(model)), "gpt-5")
}

var _ llm.Client = (*Client)(nil)
