package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"tea-referrals/internal/domain"
)

func TestComplete_Success(t *testing.T) {
	var got completionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": RoleAssistant, "content": "  Green tea it is.  "}},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", Options{RatePerSec: 100})
	reply, err := client.Complete(context.Background(), []Message{
		{Role: RoleSystem, Content: "you run a tea shop"},
		{Role: RoleUser, Content: "what should I drink"},
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if reply != "Green tea it is." {
		t.Fatalf("reply = %q", reply)
	}

	if got.Model != "gpt-3.5-turbo" {
		t.Errorf("model = %q", got.Model)
	}
	if got.MaxTokens != 300 {
		t.Errorf("max tokens = %d", got.MaxTokens)
	}
	if got.Temperature != 0.7 {
		t.Errorf("temperature = %v", got.Temperature)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != RoleSystem {
		t.Errorf("messages = %+v", got.Messages)
	}
}

func TestComplete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", Options{RatePerSec: 100})
	_, err := client.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if err == nil {
		t.Fatal("expected error on 429")
	}

	var svcErr *domain.ExternalServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected ExternalServiceError, got %T: %v", err, err)
	}
	if svcErr.Service != "openai" {
		t.Errorf("service = %q", svcErr.Service)
	}
}

func TestComplete_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", Options{RatePerSec: 100})
	if _, err := client.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}); err == nil {
		t.Fatal("expected error on malformed body")
	}
}

func TestComplete_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", Options{RatePerSec: 100})
	if _, err := client.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}); err == nil {
		t.Fatal("expected error on empty choices")
	}
}
