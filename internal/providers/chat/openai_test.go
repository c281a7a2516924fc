package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewOpenAICompleterRequiresKey(t *testing.T) {
	if _, err := NewOpenAICompleter(OpenAIOptions{}); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestCompleteSendsExpectedPayload(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "  Consultez un avocat.  "}},
			},
		})
	}))
	defer srv.Close()

	c, err := NewOpenAICompleter(OpenAIOptions{APIKey: "sk-test", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewOpenAICompleter: %v", err)
	}
	answer, err := c.Complete(context.Background(), "Comment divorcer ?")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if answer != "Consultez un avocat." {
		t.Fatalf("answer = %q", answer)
	}
	if got.Model != defaultModel {
		t.Fatalf("model = %q, want %q", got.Model, defaultModel)
	}
	if got.Temperature != 0.2 || got.MaxTokens != 500 {
		t.Fatalf("sampling params = %v/%d", got.Temperature, got.MaxTokens)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "Comment divorcer ?" {
		t.Fatalf("messages = %+v", got.Messages)
	}
}

func TestCompleteSurfacesUpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, err := NewOpenAICompleter(OpenAIOptions{APIKey: "sk-test", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewOpenAICompleter: %v", err)
	}
	if _, err := c.Complete(context.Background(), "question"); err == nil {
		t.Fatal("expected error on non-2xx status")
	}
}

func TestCompleteRejectsEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	c, err := NewOpenAICompleter(OpenAIOptions{APIKey: "sk-test", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewOpenAICompleter: %v", err)
	}
	if _, err := c.Complete(context.Background(), "question"); err == nil {
		t.Fatal("expected error on empty choices")
	}
}
