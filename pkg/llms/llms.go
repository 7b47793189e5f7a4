package llms

import (
	"context"

	"github.com/effective-security/mcpagent/chatmodel"
	"github.com/openai/openai-go/v3"
)

//go:generate mockgen -source=llms.go -destination=../../mocks/mockllms/llms_mock.gen.go  -package mockllms

// CompletionResponse is the decoded chat completion returned by the endpoint.
// Access to its fields that the agent relies on goes through the
// typed helpers in this package, as the endpoint may return a partial document.
type CompletionResponse = openai.ChatCompletion

// Model is an interface for chat completion models with tool calling.
type Model interface {
	// GetName returns the model identifier.
	GetName() string
	// Invoke sends the conversation to the model and returns the raw completion.
	// The system prompt is prepended by the model.
	Invoke(ctx context.Context, messages []chatmodel.Message, options ...CallOption) (*CompletionResponse, error)
}
