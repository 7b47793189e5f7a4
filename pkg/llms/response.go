package llms

import (
	"fmt"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/chatmodel"
	"github.com/effective-security/x/values"
	"github.com/openai/openai-go/v3"
)

// Finish reasons reported by the chat endpoint.
const (
	FinishReasonStop      = "stop"
	FinishReasonLength    = "length"
	FinishReasonToolCalls = "tool_calls"
)

var (
	// ErrMalformedResponse is returned when the completion does not have the expected shape.
	ErrMalformedResponse = errors.New("malformed completion response")
)

// IsTerminal returns true if the finish reason ends the conversation turn loop.
func IsTerminal(finishReason string) bool {
	return finishReason == FinishReasonStop || finishReason == FinishReasonLength
}

// FirstMessage returns the message of the first choice.
func FirstMessage(resp *CompletionResponse) (*openai.ChatCompletionMessage, error) {
	if resp == nil {
		return nil, errors.Wrap(ErrMalformedResponse, "nil response")
	}
	if len(resp.Choices) == 0 {
		return nil, errors.Wrap(ErrMalformedResponse, "no choices")
	}
	return &resp.Choices[0].Message, nil
}

// FinishReason returns the finish reason of the first choice.
func FinishReason(resp *CompletionResponse) (string, error) {
	if resp == nil {
		return "", errors.Wrap(ErrMalformedResponse, "nil response")
	}
	if len(resp.Choices) == 0 {
		return "", errors.Wrap(ErrMalformedResponse, "no choices")
	}
	reason := string(resp.Choices[0].FinishReason)
	if reason == "" {
		return "", errors.Wrap(ErrMalformedResponse, "missing finish_reason")
	}
	return reason, nil
}

// ToolCalls returns the tool calls requested in the first choice,
// in the order of the response.
// Missing IDs and types are filled, as some endpoints omit them.
func ToolCalls(resp *CompletionResponse) ([]chatmodel.ToolCall, error) {
	msg, err := FirstMessage(resp)
	if err != nil {
		return nil, err
	}
	var list []chatmodel.ToolCall
	for i, tc := range msg.ToolCalls {
		call := chatmodel.ToolCall{
			ID:   tc.ID,
			Type: values.StringsCoalesce(string(tc.Type), chatmodel.ToolTypeFunction),
			Function: chatmodel.FunctionCall{
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			},
		}
		if call.ID == "" {
			call.ID = fmt.Sprintf("%s_%d", call.Function.Name, i)
		}
		list = append(list, call)
	}
	return slices.Clip(list), nil
}

// Content returns the text content of the first choice.
func Content(resp *CompletionResponse) (string, error) {
	msg, err := FirstMessage(resp)
	if err != nil {
		return "", err
	}
	return msg.Content, nil
}
