package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ai-chat-be/pkg/llm"
)

func collect(t *testing.T, chunks <-chan llm.Chunk) (string, error) {
	t.Helper()
	var sb strings.Builder
	for chunk := range chunks {
		if chunk.Err != nil {
			return sb.String(), chunk.Err
		}
		sb.WriteString(chunk.Token)
	}
	return sb.String(), nil
}

func TestStreamDecodesTokens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"response":"Hello"}` + "\n"))
		w.Write([]byte(`{"response":" world"}` + "\n"))
		w.Write([]byte(`{"done":true}` + "\n"))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama2:7b-chat")
	chunks, err := p.Stream(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Stream returned error: %v", err)
	}

	got, err := collect(t, chunks)
	if err != nil {
		t.Fatalf("stream failed: %v", err)
	}
	if got != "Hello world" {
		t.Errorf("streamed %q, want %q", got, "Hello world")
	}
}

func TestStreamSkipsMalformedLines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all\n"))
		w.Write([]byte(`{"response":"ok"}` + "\n"))
		w.Write([]byte("{\"response\": \n")) // split mid-object
		w.Write([]byte(`{"done":true}` + "\n"))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama2:7b-chat")
	chunks, err := p.Stream(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Stream returned error: %v", err)
	}

	got, err := collect(t, chunks)
	if err != nil {
		t.Fatalf("stream failed: %v", err)
	}
	if got != "ok" {
		t.Errorf("streamed %q, want %q", got, "ok")
	}
}

func TestStreamCancellationIsDistinct(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":"partial"}` + "\n"))
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	p := NewOllamaProvider(srv.URL, "llama2:7b-chat")
	chunks, err := p.Stream(ctx, "hi")
	if err != nil {
		t.Fatalf("Stream returned error: %v", err)
	}

	first := <-chunks
	if first.Token != "partial" {
		t.Fatalf("first token = %q, want partial", first.Token)
	}

	cancel()

	got, err := collect(t, chunks)
	if !errors.Is(err, llm.ErrStreamCancelled) {
		t.Errorf("cancellation surfaced as %v, want ErrStreamCancelled", err)
	}
	_ = got
}

func TestStreamRequestPayload(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		w.Write([]byte(`{"done":true}` + "\n"))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama2:7b-chat")
	chunks, err := p.Stream(context.Background(), "the prompt",
		llm.WithSystemPrompt("be terse"),
		llm.WithContextWindowSize(8),
		llm.WithMaxResponseLength(2000),
	)
	if err != nil {
		t.Fatalf("Stream returned error: %v", err)
	}
	collect(t, chunks)

	if captured["model"] != "llama2:7b-chat" || captured["prompt"] != "the prompt" {
		t.Errorf("unexpected payload %v", captured)
	}
	if captured["stream"] != true {
		t.Error("stream flag not set")
	}
	if captured["system"] != "be terse" {
		t.Errorf("system = %v", captured["system"])
	}
	opts, ok := captured["options"].(map[string]any)
	if !ok {
		t.Fatal("options missing from payload")
	}
	if opts["num_ctx"] != float64(8*128) {
		t.Errorf("num_ctx = %v, want %d", opts["num_ctx"], 8*128)
	}
	if opts["num_predict"] != float64(500) {
		t.Errorf("num_predict = %v, want 500", opts["num_predict"])
	}
}

func TestGenerateCollectsStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":"a"}` + "\n"))
		w.Write([]byte(`{"response":"b"}` + "\n"))
		w.Write([]byte(`{"done":true}` + "\n"))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama2:7b-chat")
	got, err := p.Generate(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if got != "ab" {
		t.Errorf("Generate = %q, want ab", got)
	}
}

func TestIsHealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			json.NewEncoder(w).Encode(map[string]any{
				"models": []map[string]string{{"name": "llama2:7b-chat"}},
			})
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama2:7b-chat")
	if !p.IsHealthy(context.Background()) {
		t.Error("expected healthy with model listed")
	}

	missing := NewOllamaProvider(srv.URL, "mistral:7b")
	if missing.IsHealthy(context.Background()) {
		t.Error("expected unhealthy when model absent from listing")
	}
}

func TestIsHealthyConnectivityFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // probe hits a dead listener

	p := NewOllamaProvider(srv.URL, "llama2:7b-chat")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if p.IsHealthy(ctx) {
		t.Error("expected false on connection failure")
	}
}
