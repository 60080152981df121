package factory

import (
	"fmt"

	"ai-chat-be/pkg/llm"
	"ai-chat-be/pkg/llm/ollama"
)

// NewLLMProvider builds the configured generation backend. Only Ollama is
// supported today; the indirection keeps the rest of the system off the
// concrete type.
func NewLLMProvider(providerName, modelName, baseURL string) (llm.LLMProvider, error) {
	switch providerName {
	case "ollama", "":
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %q", providerName)
	}
}
