package llm

// Message represents a single message in a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Message roles understood by OpenAI-compatible servers.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatParams holds parameters for chat completion requests.
type ChatParams struct {
	// Model overrides the client's default model when set.
	Model string

	// MaxTokens caps the completion length. Zero leaves it to the server.
	MaxTokens int

	// Temperature controls sampling randomness. Zero uses DefaultTemperature.
	Temperature float32
}

// DefaultTemperature is applied when ChatParams.Temperature is zero.
const DefaultTemperature float32 = 0.7
