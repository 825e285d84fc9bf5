package ai

import "context"

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider issues one non-streaming chat-completion request.
type Provider interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}
