package chat

const (
	ChatRoleUser   = "user"      // Player or prompt author
	ChatRoleAgent  = "assistant" // Model output
	ChatRoleSystem = "system"    // Instructions
)

// ChatMessage represents a single message sent to an LLM provider.
// Prompts built by the game are delivered as a single user message.
type ChatMessage struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// ChatResponse is the text returned by an LLM provider for one request.
type ChatResponse struct {
	Message string `json:"message,omitempty"`
}
