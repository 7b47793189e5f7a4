package llms

import (
	"maps"
	"slices"

	"github.com/effective-security/mcpagent/chatmodel"
)

// CallOption is a function that configures a CallOptions.
type CallOption func(*CallOptions)

// CallOptions is a set of options for a single model call.
type CallOptions struct {
	// SystemPrompt overrides the system prompt of the model.
	SystemPrompt    string
	systemPromptSet bool

	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens    int
	maxTokensSet bool

	// Temperature is the temperature for sampling.
	Temperature    float64
	temperatureSet bool

	// Tools replaces the tool set of the model for this call,
	// an empty list disables tools.
	Tools    []chatmodel.ToolDescriptor
	toolsSet bool

	// ExtraParams are merged into the request body
	// and take precedence over the model defaults.
	ExtraParams map[string]any
}

// NewCallOptions returns CallOptions with the options applied.
func NewCallOptions(options ...CallOption) *CallOptions {
	opts := &CallOptions{}
	for _, opt := range options {
		opt(opts)
	}
	return opts
}

// HasSystemPrompt returns true if the system prompt was provided.
func (o *CallOptions) HasSystemPrompt() bool {
	return o.systemPromptSet
}

// HasMaxTokens returns true if max tokens was provided.
func (o *CallOptions) HasMaxTokens() bool {
	return o.maxTokensSet
}

// HasTemperature returns true if the temperature was provided.
func (o *CallOptions) HasTemperature() bool {
	return o.temperatureSet
}

// HasTools returns true if the caller provided an explicit tool list,
// including an empty one.
func (o *CallOptions) HasTools() bool {
	return o.toolsSet
}

// ToolsDisabled returns true if the caller provided an empty tool list.
func (o *CallOptions) ToolsDisabled() bool {
	return o.toolsSet && len(o.Tools) == 0
}

// WithSystemPrompt specifies the system prompt for the call.
func WithSystemPrompt(prompt string) CallOption {
	return func(o *CallOptions) {
		o.SystemPrompt = prompt
		o.systemPromptSet = true
	}
}

// WithMaxTokens specifies the max number of tokens to generate.
func WithMaxTokens(maxTokens int) CallOption {
	return func(o *CallOptions) {
		o.MaxTokens = maxTokens
		o.maxTokensSet = true
	}
}

// WithTemperature specifies the model temperature, a hyperparameter that
// regulates the randomness, or creativity, of the AI's responses.
func WithTemperature(temperature float64) CallOption {
	return func(o *CallOptions) {
		o.Temperature = temperature
		o.temperatureSet = true
	}
}

// WithTools specifies the tools for the call.
// Calling WithTools() with no arguments disables tools.
func WithTools(tools ...chatmodel.ToolDescriptor) CallOption {
	return func(o *CallOptions) {
		o.Tools = slices.Clone(tools)
		if o.Tools == nil {
			o.Tools = []chatmodel.ToolDescriptor{}
		}
		o.toolsSet = true
	}
}

// WithExtraParams specifies additional request parameters,
// e.g. top_p or stop.
func WithExtraParams(params map[string]any) CallOption {
	return func(o *CallOptions) {
		if o.ExtraParams == nil {
			o.ExtraParams = make(map[string]any, len(params))
		}
		maps.Copy(o.ExtraParams, params)
	}
}

// WithOptions specifies options.
func WithOptions(options CallOptions) CallOption {
	return func(o *CallOptions) {
		(*o) = options
	}
}
