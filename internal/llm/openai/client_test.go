package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"applykit-backend/internal/llm"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClientWithBaseURL("sk-test", "gpt-4o-mini", srv.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func completionJSON(content string) string {
	return fmt.Sprintf(`{"choices":[{"message":{"role":"assistant","content":%q}}],"usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}`, content)
}

func TestCompleteReturnsContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected auth header %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "gpt-4o-mini" {
			t.Errorf("unexpected model %q", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("unexpected messages %+v", req.Messages)
		}
		if req.Temperature == nil || *req.Temperature != 0.7 {
			t.Errorf("expected temperature 0.7, got %v", req.Temperature)
		}
		fmt.Fprint(w, completionJSON("drafted text"))
	})

	got, err := client.Complete(context.Background(), llm.CompletionRequest{
		System:      "You are a writer.",
		User:        "Write something.",
		Temperature: 0.7,
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if got != "drafted text" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestCompleteJSONMode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.ResponseFormat == nil || req.ResponseFormat.Type != "json_object" {
			t.Errorf("expected json_object response format, got %+v", req.ResponseFormat)
		}
		fmt.Fprint(w, completionJSON(`{"ok":true}`))
	})

	if _, err := client.Complete(context.Background(), llm.CompletionRequest{User: "Return JSON.", JSONMode: true}); err != nil {
		t.Fatalf("complete: %v", err)
	}
}

func TestCompleteOmitsResponseFormatInTextMode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if _, ok := raw["response_format"]; ok {
			t.Error("response_format must be omitted outside json mode")
		}
		fmt.Fprint(w, completionJSON("plain"))
	})

	if _, err := client.Complete(context.Background(), llm.CompletionRequest{User: "Write."}); err != nil {
		t.Fatalf("complete: %v", err)
	}
}

func TestCompleteMapsProviderStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{
			name:   "invalid key",
			status: http.StatusUnauthorized,
			body:   `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`,
			want:   llm.ErrAuthentication,
		},
		{
			name:   "forbidden",
			status: http.StatusForbidden,
			body:   `{"error":{"message":"You are not allowed","type":"access_denied"}}`,
			want:   llm.ErrAuthentication,
		},
		{
			name:   "throttled",
			status: http.StatusTooManyRequests,
			body:   `{"error":{"message":"Rate limit reached","type":"rate_limit_exceeded"}}`,
			want:   llm.ErrRateLimited,
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   `{"error":{"message":"The server had an error","type":"server_error"}}`,
			want:   llm.ErrGeneration,
		},
		{
			name:   "non-json error body",
			status: http.StatusBadGateway,
			body:   "bad gateway",
			want:   llm.ErrGeneration,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})
			_, err := client.Complete(context.Background(), llm.CompletionRequest{User: "x"})
			if !errors.Is(err, tt.want) {
				t.Fatalf("status %d: got %v, want %v", tt.status, err, tt.want)
			}
		})
	}
}

func TestCompleteEmptyContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, completionJSON(""))
	})
	_, err := client.Complete(context.Background(), llm.CompletionRequest{User: "x"})
	if !errors.Is(err, llm.ErrGeneration) {
		t.Fatalf("expected ErrGeneration for empty content, got %v", err)
	}
}

func TestCompleteNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client, err := NewClientWithBaseURL("sk-test", "gpt-4o-mini", url, time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.Complete(context.Background(), llm.CompletionRequest{User: "x"})
	if !errors.Is(err, llm.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient("", "gpt-4o-mini", time.Second)
	if !errors.Is(err, llm.ErrAuthentication) {
		t.Fatalf("expected ErrAuthentication for missing key, got %v", err)
	}
}

func TestIsGPT5(t *testing.T) {
	tests := []struct {
		name  string
		model string
		want  bool
	}{
		{name: "gpt5", model: "gpt-5", want: true},
		{name: "gpt5 variant", model: "gpt-5-mini", want: true},
		{name: "gpt5 uppercase", model: " GPT-5o ", want: true},
		{name: "gpt4", model: "gpt-4o", want: false},
		{name: "empty", model: "", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := isGPT5(tt.model); got != tt.want {
				t.Fatalf("isGPT5(%q) = %v, want %v", tt.model, got, tt.want)
			}
		})
	}
}
