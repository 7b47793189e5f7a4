package chatmodel

const (
	// ErrorCodeNone is set when the tool call succeeded.
	ErrorCodeNone = 0
	// ErrorCodeToolError is set when the remote tool reported an error.
	ErrorCodeToolError = 1
)

// ToolDescriptor describes a callable tool.
type ToolDescriptor struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// Parameters is the JSON schema of the tool input.
	Parameters map[string]any `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// ToolInvocationResult is the normalized result of a tool call.
type ToolInvocationResult struct {
	Content   string `json:"content" yaml:"content"`
	ErrorCode int    `json:"error_code" yaml:"error_code"`
}

// IsError returns true if the remote tool reported an error.
func (r *ToolInvocationResult) IsError() bool {
	return r != nil && r.ErrorCode != ErrorCodeNone
}
