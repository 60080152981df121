package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"

	ChatMessageStatusCompleted = "completed"
	ChatMessageStatusAborted   = "aborted"
	ChatMessageStatusError     = "error"

	// DefaultSessionTitle is the placeholder a new session starts with.
	// Auto-titling only replaces the title while it still equals this value.
	DefaultSessionTitle = "New Chat"

	// AbortedWithoutContentPlaceholder is persisted when a client cancels a
	// stream before the model produced any output. An aborted turn must never
	// vanish from the history.
	AbortedWithoutContentPlaceholder = "Response stopped before the model generated an answer."

	// Auto-title derivation rules: first words of the first user message.
	TitleMaxWords = 8
	TitleMaxChars = 60

	// EvidenceSourceConversation marks evidence taken from recent user turns
	// in the same session instead of an uploaded document.
	EvidenceSourceConversation = "Conversation"

	DocumentSourceManual = "manual"

	DefaultSystemPrompt = "You are a helpful AI assistant."
)

// Ollama defaults and conversion ratios. The ratios are rough heuristics for
// translating message-level settings into token-level generation options,
// not anything the protocol guarantees.
const (
	OllamaDefaultBaseURL = "http://localhost:11434"
	OllamaDefaultModel   = "llama2:7b-chat"

	// ~128 prompt tokens per context message on average.
	TokensPerContextMessage = 128
	// ~4 characters per generated token.
	CharsPerResponseToken = 4
)

// Model settings bounds shared by user preferences and admin defaults.
const (
	ContextWindowMin     = 1
	ContextWindowMax     = 20
	ContextWindowDefault = 8

	MaxResponseLengthMin     = 500
	MaxResponseLengthMax     = 8000
	MaxResponseLengthDefault = 2000
)
