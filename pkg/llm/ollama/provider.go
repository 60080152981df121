package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ai-chat-be/internal/constant"
	"ai-chat-be/pkg/llm"
)

type OllamaProvider struct {
	BaseURL   string
	ModelName string
	Client    *http.Client
}

// Ensure OllamaProvider implements LLMProvider
var _ llm.LLMProvider = &OllamaProvider{}

func NewOllamaProvider(baseURL, modelName string) *OllamaProvider {
	if baseURL == "" {
		baseURL = constant.OllamaDefaultBaseURL
	}
	if modelName == "" {
		modelName = constant.OllamaDefaultModel
	}
	return &OllamaProvider{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		ModelName: modelName,
		Client: &http.Client{
			// No client-level timeout: streams are long-lived and bounded by
			// the request context instead.
		},
	}
}

// --- Request/Response structs (Internal to this package) ---

type ollamaGenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	System  string         `json:"system,omitempty"`
	Options *ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumCtx      int     `json:"num_ctx,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// ollamaStreamLine is one line of the newline-delimited JSON response.
type ollamaStreamLine struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// --- Interface Implementation ---

// Stream posts to /api/generate and decodes the NDJSON body line by line.
// Lines that fail to parse are skipped: the protocol tolerates partial and
// keep-alive lines. Each network read is the suspension point; cancelling
// ctx tears down the connection and the final chunk carries
// llm.ErrStreamCancelled.
func (o *OllamaProvider) Stream(ctx context.Context, prompt string, opts ...llm.Option) (<-chan llm.Chunk, error) {
	options := &llm.Options{}
	for _, opt := range opts {
		opt(options)
	}

	model := o.ModelName
	if options.Model != "" {
		model = options.Model
	}

	system := options.SystemPrompt
	if system == "" {
		system = constant.DefaultSystemPrompt
	}

	reqPayload := ollamaGenerateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: true,
		System: system,
	}

	// Message-level settings translate into provider token options with
	// fixed approximate ratios; neither is a protocol guarantee.
	genOpts := &ollamaOptions{Temperature: options.Temperature}
	if options.ContextWindowSize > 0 {
		genOpts.NumCtx = options.ContextWindowSize * constant.TokensPerContextMessage
	}
	if options.MaxResponseLength > 0 {
		genOpts.NumPredict = (options.MaxResponseLength + constant.CharsPerResponseToken - 1) / constant.CharsPerResponseToken
	}
	if genOpts.Temperature != 0 || genOpts.NumCtx != 0 || genOpts.NumPredict != 0 {
		reqPayload.Options = genOpts
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := o.BaseURL + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.Client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, llm.ErrStreamCancelled
		}
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, fmt.Errorf("ollama error: status %d", resp.StatusCode)
	}

	chunks := make(chan llm.Chunk)
	go func() {
		defer close(chunks)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}

			var parsed ollamaStreamLine
			if err := json.Unmarshal(line, &parsed); err != nil {
				// Skip invalid JSON lines
				continue
			}
			if parsed.Response != "" {
				select {
				case chunks <- llm.Chunk{Token: parsed.Response}:
				case <-ctx.Done():
					chunks <- llm.Chunk{Err: llm.ErrStreamCancelled}
					return
				}
			}
			if parsed.Done {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			if ctx.Err() != nil {
				chunks <- llm.Chunk{Err: llm.ErrStreamCancelled}
				return
			}
			chunks <- llm.Chunk{Err: fmt.Errorf("read stream: %w", err)}
		}
	}()

	return chunks, nil
}

func (o *OllamaProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	chunks, err := o.Stream(ctx, prompt, opts...)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for chunk := range chunks {
		if chunk.Err != nil {
			return sb.String(), chunk.Err
		}
		sb.WriteString(chunk.Token)
	}
	return sb.String(), nil
}

// IsHealthy checks that the server answers on its base endpoint and that the
// configured model (or its base name before the tag) appears in the model
// listing. Any connectivity failure is false, not an error.
func (o *OllamaProvider) IsHealthy(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, o.BaseURL+"/", nil)
	if err != nil {
		return false
	}
	resp, err := o.Client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()

	req, err = http.NewRequestWithContext(probeCtx, http.MethodGet, o.BaseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err = o.Client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	var tags ollamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return false
	}

	base := strings.SplitN(o.ModelName, ":", 2)[0]
	for _, m := range tags.Models {
		if m.Name == o.ModelName || strings.HasPrefix(m.Name, base) {
			return true
		}
	}
	return false
}

// IsCancelled reports whether err is the cancellation sentinel.
func IsCancelled(err error) bool {
	return errors.Is(err, llm.ErrStreamCancelled)
}
