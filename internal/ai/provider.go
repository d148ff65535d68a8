package ai

import "context"

// InlineData is binary content tagged with its MIME type.
type InlineData struct {
	MIMEType string
	Data     []byte
}

type Message struct {
	Role    string
	Content string
	Image   *InlineData
}

type Provider interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}
