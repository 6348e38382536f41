package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sprachbrief/internal/config"
)

func testClient(endpoint string) *Client {
	return NewClient(config.BackendConfig{
		Endpoint:    endpoint,
		Model:       "phi3",
		Temperature: 0.3,
		TimeoutSec:  5,
	})
}

func TestGenerateRequestContract(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"response": "  Hallo Welt.  "})
	}))
	defer srv.Close()

	text, err := testClient(srv.URL).Generate(context.Background(), "Sag hallo.", 120)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if text != "Hallo Welt." {
		t.Errorf("response not trimmed: %q", text)
	}

	if got["model"] != "phi3" {
		t.Errorf("model = %v, want phi3", got["model"])
	}
	if got["prompt"] != "Sag hallo." {
		t.Errorf("prompt = %v", got["prompt"])
	}
	if got["stream"] != false {
		t.Errorf("stream = %v, want false", got["stream"])
	}

	options, ok := got["options"].(map[string]any)
	if !ok {
		t.Fatalf("options missing from payload: %v", got)
	}
	if options["temperature"] != 0.3 {
		t.Errorf("temperature = %v, want 0.3", options["temperature"])
	}
	if options["num_predict"] != float64(120) {
		t.Errorf("num_predict = %v, want 120", options["num_predict"])
	}
}

func TestGenerateFailsOnNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := testClient(srv.URL).Generate(context.Background(), "prompt", 120); err == nil {
		t.Error("expected error on 500 response")
	}
}

func TestGenerateFailsOnTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	if _, err := testClient(srv.URL).Generate(context.Background(), "prompt", 120); err == nil {
		t.Error("expected error when backend is unreachable")
	}
}

func TestGenerateHonorsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := testClient(srv.URL).Generate(ctx, "prompt", 120); err == nil {
		t.Error("expected error on cancelled context")
	}
}
