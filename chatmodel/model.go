package chatmodel

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	// ErrInvalidToolArguments is returned when the model produced tool arguments that are not a JSON object.
	ErrInvalidToolArguments = errors.New("invalid tool arguments: expected JSON object")
)

// Role is the role of the message author.
type Role string

const (
	// RoleSystem is a message with instructions for the model.
	RoleSystem Role = "system"
	// RoleUser is a message sent by a human.
	RoleUser Role = "user"
	// RoleAssistant is a message produced by the model.
	RoleAssistant Role = "assistant"
	// RoleTool is a message with tool results.
	RoleTool Role = "tool"
)

// ToolTypeFunction is the only tool type supported by the chat endpoint.
const ToolTypeFunction = "function"

// Message is one entry of the conversation, serialized in the
// OpenAI chat wire shape.
type Message struct {
	Role    Role   `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
	// ToolCalls is set only on assistant messages
	ToolCalls []ToolCall `json:"tool_calls,omitempty" yaml:"tool_calls,omitempty"`
	// ToolCallID is set only on tool messages
	ToolCallID string `json:"tool_call_id,omitempty" yaml:"tool_call_id,omitempty"`
	Name       string `json:"name,omitempty" yaml:"name,omitempty"`
}

// FunctionCall is the name and arguments of a function call.
type FunctionCall struct {
	// Name of the function to call.
	Name string `json:"name" yaml:"name"`
	// Arguments to pass to the function, as a JSON string.
	Arguments string `json:"arguments" yaml:"arguments"`
}

// ToolCall is a call to a tool, as requested by the model.
type ToolCall struct {
	ID       string       `json:"id" yaml:"id"`
	Type     string       `json:"type" yaml:"type"`
	Function FunctionCall `json:"function" yaml:"function"`
}

func (tc ToolCall) String() string {
	return fmt.Sprintf("ToolCall: %s (%s), input: %s", tc.ID, tc.Function.Name, tc.Function.Arguments)
}

// ParseArguments decodes the raw arguments payload.
// Empty payload is treated as no arguments.
func (tc ToolCall) ParseArguments() (map[string]any, error) {
	raw := strings.TrimSpace(tc.Function.Arguments)
	if raw == "" || raw == "null" {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, errors.Wrapf(ErrInvalidToolArguments, "tool %s: %s", tc.Function.Name, err.Error())
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

// UserMessage returns a message from the user.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// SystemMessage returns a message with the system prompt.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// AssistantMessage returns a message produced by the model.
func AssistantMessage(content string, toolCalls ...ToolCall) Message {
	return Message{Role: RoleAssistant, Content: content, ToolCalls: toolCalls}
}

// ToolMessage returns a message with tool results.
func ToolMessage(toolCallID, content string) Message {
	return Message{Role: RoleTool, ToolCallID: toolCallID, Content: content}
}

// GetContent returns the content of the message for logs and size accounting,
// tool calls are rendered as JSON.
func (m Message) GetContent() string {
	if len(m.ToolCalls) == 0 {
		return m.Content
	}
	var buf strings.Builder
	buf.WriteString(m.Content)
	for _, tc := range m.ToolCalls {
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString("Tool Call: ")
		js, _ := json.Marshal(tc)
		buf.Write(js)
	}
	return buf.String()
}
