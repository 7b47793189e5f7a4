package assistants

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/chatmodel"
	"github.com/effective-security/mcpagent/pkg/llms"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpagent", "assistants")

//go:generate mockgen -source=assistants.go -destination=../mocks/mockassistants/assistants_mock.gen.go  -package mockassistants

var (
	// ErrTurnsExceeded is returned when the request did not complete within the turns limit.
	ErrTurnsExceeded = errors.New("turns limit exceeded")
	// ErrMalformedResponse is returned when the model kept returning malformed responses.
	ErrMalformedResponse = llms.ErrMalformedResponse
)

type IAssistant interface {
	// Name returns the name of the Assistant.
	Name() string
	// ProcessRequest runs the request to completion and returns the final response.
	ProcessRequest(ctx context.Context, request string, opts ...Option) (*llms.CompletionResponse, error)
}

// RunResult is the outcome of one request.
type RunResult struct {
	// Response is the final completion.
	Response *llms.CompletionResponse
	// Messages is the conversation of the request, starting with the user message.
	Messages []chatmodel.Message
	// Turns is the number of model calls made.
	Turns int
}

// Callback receives the agent events.
// The tool events are fired from concurrent goroutines.
type Callback interface {
	OnRequestStart(ctx context.Context, agent IAssistant, request string)
	OnRequestEnd(ctx context.Context, agent IAssistant, request string, resp *llms.CompletionResponse, messages []chatmodel.Message)
	OnRequestError(ctx context.Context, agent IAssistant, request string, err error, messages []chatmodel.Message)

	// OnStep is called before every model call.
	OnStep(ctx context.Context, agent IAssistant, turn int, toolsEnabled bool, messages []chatmodel.Message)
	// OnLLMResponse is called with every response returned by the model.
	OnLLMResponse(ctx context.Context, agent IAssistant, resp *llms.CompletionResponse)
	OnMalformedResponse(ctx context.Context, agent IAssistant, resp *llms.CompletionResponse, err error)

	OnToolStart(ctx context.Context, agent IAssistant, call chatmodel.ToolCall)
	OnToolEnd(ctx context.Context, agent IAssistant, call chatmodel.ToolCall, result *chatmodel.ToolInvocationResult)
	OnToolError(ctx context.Context, agent IAssistant, call chatmodel.ToolCall, err error)
}
