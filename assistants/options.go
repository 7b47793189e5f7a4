package assistants

import (
	"maps"

	"github.com/effective-security/mcpagent/pkg/llms"
)

// Defaults of the agent loop.
const (
	// DefaultStepsLimit is the number of turns after which tools are disabled.
	DefaultStepsLimit = 5
	// DefaultMaxMalformedResponses is the number of consecutive malformed responses tolerated.
	DefaultMaxMalformedResponses = 3
)

// Option is a function that can be used to modify the behavior of the Agent Config.
type Option func(*Config)

type Config struct {
	// StepsLimit is the number of turns that are sent with tools,
	// later turns are sent with tools disabled so the model has to answer.
	StepsLimit int
	// MaxMalformedResponses is the number of consecutive malformed responses
	// after which the request fails.
	MaxMalformedResponses int
	// MaxTurns stops the request with ErrTurnsExceeded, 0 means unlimited.
	MaxTurns int

	// CallbackHandler is the callback handler for the agent events.
	CallbackHandler Callback

	//
	// Below are the options for an LLM call
	//

	// SystemPrompt overrides the system prompt of the model.
	SystemPrompt    string
	systemPromptSet bool

	// MaxTokens is the maximum number of tokens to generate to use in an LLM call.
	MaxTokens    int
	maxTokensSet bool

	// Temperature is the temperature for sampling to use in an LLM call.
	Temperature    float64
	temperatureSet bool

	// TopP is the cumulative probability for top-p sampling in an LLM call.
	TopP    float64
	toppSet bool

	// RepetitionPenalty is the repetition penalty for sampling in an LLM call.
	RepetitionPenalty    float64
	repetitionPenaltySet bool

	// StopWords is a list of words to stop on to use in an LLM call.
	StopWords    []string
	stopWordsSet bool

	// ExtraParams are merged into the request body.
	ExtraParams map[string]any
}

func NewConfig(opts ...Option) *Config {
	cfg := &Config{
		StepsLimit:            DefaultStepsLimit,
		MaxMalformedResponses: DefaultMaxMalformedResponses,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Apply returns a copy of the config with the options applied.
func (c *Config) Apply(opts ...Option) *Config {
	cfg := *c
	cfg.StopWords = append([]string(nil), c.StopWords...)
	cfg.ExtraParams = maps.Clone(c.ExtraParams)
	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithStepsLimit is an option that sets the number of turns sent with tools.
func WithStepsLimit(limit int) Option {
	return func(o *Config) {
		o.StepsLimit = limit
	}
}

// WithMaxMalformedResponses is an option that sets the number of consecutive malformed responses tolerated.
func WithMaxMalformedResponses(limit int) Option {
	return func(o *Config) {
		o.MaxMalformedResponses = limit
	}
}

// WithMaxTurns is an option that sets the hard limit of turns, 0 means unlimited.
func WithMaxTurns(limit int) Option {
	return func(o *Config) {
		o.MaxTurns = limit
	}
}

// WithCallback is an option that sets the callback handler.
func WithCallback(callbackHandler Callback) Option {
	return func(o *Config) {
		o.CallbackHandler = callbackHandler
	}
}

// WithSystemPrompt is an option for LLM.Invoke.
func WithSystemPrompt(prompt string) Option {
	return func(o *Config) {
		o.SystemPrompt = prompt
		o.systemPromptSet = true
	}
}

// WithMaxTokens is an option for LLM.Invoke.
func WithMaxTokens(maxTokens int) Option {
	return func(o *Config) {
		o.MaxTokens = maxTokens
		o.maxTokensSet = true
	}
}

// WithTemperature is an option for LLM.Invoke.
func WithTemperature(temperature float64) Option {
	return func(o *Config) {
		o.Temperature = temperature
		o.temperatureSet = true
	}
}

// WithTopP will add an option to use top-p sampling for LLM.Invoke.
func WithTopP(topP float64) Option {
	return func(o *Config) {
		o.TopP = topP
		o.toppSet = true
	}
}

// WithRepetitionPenalty will add an option to set the repetition penalty for sampling.
func WithRepetitionPenalty(repetitionPenalty float64) Option {
	return func(o *Config) {
		o.RepetitionPenalty = repetitionPenalty
		o.repetitionPenaltySet = true
	}
}

// WithStopWords is an option for setting the stop words for LLM.Invoke.
func WithStopWords(stopWords []string) Option {
	return func(o *Config) {
		o.StopWords = stopWords
		o.stopWordsSet = true
	}
}

// WithExtraParams is an option for additional request parameters,
// existing keys are overwritten.
func WithExtraParams(params map[string]any) Option {
	return func(o *Config) {
		if o.ExtraParams == nil {
			o.ExtraParams = make(map[string]any, len(params))
		}
		maps.Copy(o.ExtraParams, params)
	}
}

// GetCallOptions returns the options for LLM.Invoke.
func (c *Config) GetCallOptions() []llms.CallOption {
	var callOptions []llms.CallOption
	if c.systemPromptSet {
		callOptions = append(callOptions, llms.WithSystemPrompt(c.SystemPrompt))
	}
	if c.maxTokensSet {
		callOptions = append(callOptions, llms.WithMaxTokens(c.MaxTokens))
	}
	if c.temperatureSet {
		callOptions = append(callOptions, llms.WithTemperature(c.Temperature))
	}

	extra := maps.Clone(c.ExtraParams)
	if extra == nil {
		extra = map[string]any{}
	}
	if c.toppSet {
		extra["top_p"] = c.TopP
	}
	if c.repetitionPenaltySet {
		extra["repetition_penalty"] = c.RepetitionPenalty
	}
	if c.stopWordsSet {
		extra["stop"] = c.StopWords
	}
	if len(extra) > 0 {
		callOptions = append(callOptions, llms.WithExtraParams(extra))
	}

	return callOptions
}
