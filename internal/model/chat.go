package model

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one entry of a chat session.
type ChatMessage struct {
	Role    string `json:"role"`
	Text    string `json:"text"`
	Pending bool   `json:"pending,omitempty"`
}
