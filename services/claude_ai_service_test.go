package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/LovationAdmin/expense-api/config"
)

func TestClaudeServiceGenerateText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("x-api-key"); got != "test-key" {
			t.Errorf("x-api-key = %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got != "2023-06-01" {
			t.Errorf("anthropic-version = %q", got)
		}

		var req ClaudeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "claude-test" || len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("unexpected request %+v", req)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-test",
			"content": [{"type": "text", "text": "**Item Name:** Coffee\n**Expense Amount:** 300\n**Category:** food"}],
			"usage": {"input_tokens": 120, "output_tokens": 20}
		}`))
	}))
	defer server.Close()

	svc := NewClaudeService("test-key", "claude-test").WithBaseURL(server.URL)
	text, err := svc.GenerateText(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("GenerateText() error = %v", err)
	}
	if !strings.HasPrefix(text, "**Item Name:** Coffee") {
		t.Errorf("GenerateText() = %q", text)
	}
}

func TestClaudeServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"overloaded"}`},
		{"unauthorized", http.StatusUnauthorized, `{"error":"invalid x-api-key"}`},
		{"empty content", http.StatusOK, `{"content": []}`},
		{"empty text", http.StatusOK, `{"content": [{"type":"text","text":""}]}`},
		{"malformed json", http.StatusOK, `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			svc := NewClaudeService("test-key", "claude-test").WithBaseURL(server.URL)
			if _, err := svc.GenerateText(context.Background(), "prompt"); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestClaudeServiceMissingKey(t *testing.T) {
	_, err := NewClaudeService("", "claude-test").GenerateText(context.Background(), "prompt")
	if !errors.Is(err, ErrMissingCredential) {
		t.Errorf("error = %v, want ErrMissingCredential", err)
	}
}

func TestClaudeServiceHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	svc := NewClaudeService("test-key", "claude-test").WithBaseURL(server.URL)
	if _, err := svc.GenerateText(ctx, "prompt"); err == nil {
		t.Error("expected a deadline error")
	}
}

func TestEstimateCost(t *testing.T) {
	got := EstimateCost(1_000_000, 1_000_000)
	if got < 1.4999 || got > 1.5001 {
		t.Errorf("EstimateCost() = %v, want 1.50", got)
	}
}

func TestNewTextGenerator(t *testing.T) {
	t.Run("missing credential always fails", func(t *testing.T) {
		gen := NewTextGenerator(context.Background(), config.LLMConfig{Provider: config.ProviderGemini})
		if gen == nil {
			t.Fatal("NewTextGenerator returned nil")
		}
		if _, err := gen.GenerateText(context.Background(), "p"); !errors.Is(err, ErrMissingCredential) {
			t.Errorf("error = %v, want ErrMissingCredential", err)
		}
	})

	t.Run("claude provider", func(t *testing.T) {
		gen := NewTextGenerator(context.Background(), config.LLMConfig{
			Provider:        config.ProviderClaude,
			AnthropicAPIKey: "key",
			ClaudeModel:     "claude-test",
		})
		if _, ok := gen.(*ClaudeService); !ok {
			t.Errorf("got %T, want *ClaudeService", gen)
		}
	})
}
