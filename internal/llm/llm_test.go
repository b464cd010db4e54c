package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New("http://localhost", "", "test-model"); err == nil {
		t.Fatal("New with empty API key should fail")
	}
	if _, err := New("", "key", "test-model"); err != nil {
		t.Fatalf("New with key failed: %v", err)
	}
}

func completionServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	c, err := New(server.URL+"/v1", "test-key", "test-model")
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestComplete(t *testing.T) {
	var gotModel string
	c := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		gotModel = req.Model
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("messages = %+v, want single user message", req.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "  the answer \n"}},
			},
		})
	})

	got, err := c.Complete(context.Background(), "the question")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if got != "the answer" {
		t.Errorf("Complete = %q, want trimmed reply", got)
	}
	if gotModel != "test-model" {
		t.Errorf("model = %q, want test-model", gotModel)
	}
}

func TestCompleteServerError(t *testing.T) {
	c := completionServer(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": {"message": "quota exceeded"}}`, http.StatusTooManyRequests)
	})
	if _, err := c.Complete(context.Background(), "q"); err == nil {
		t.Fatal("Complete should surface API errors")
	}
}

func TestCompleteNoChoices(t *testing.T) {
	c := completionServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": []}`))
	})
	if _, err := c.Complete(context.Background(), "q"); err == nil {
		t.Fatal("Complete should fail when no choices are returned")
	}
}

func TestPing(t *testing.T) {
	c := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": [{"id": "test-model"}]}`))
	})
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
}
