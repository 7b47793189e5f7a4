package openai

import (
	"time"

	"github.com/effective-security/mcpagent/pkg/llms/openai/internal/openaiclient"
	"github.com/effective-security/x/values"
)

// Defaults of the generation parameters.
const (
	DefaultMaxTokens         = 2048
	DefaultTemperature       = 0.6
	DefaultRepetitionPenalty = 1.4
	DefaultRequestTimeout    = 90 * time.Second
)

// Config provides the model configuration.
type Config struct {
	// BaseURL of the OpenAI-compatible endpoint, for example http://localhost:8000/v1
	BaseURL string `json:"base_url" yaml:"base_url" validate:"required,http_url"`
	// Model identifier, discovered from the endpoint when empty
	Model string `json:"model,omitempty" yaml:"model,omitempty"`
	// MaxTokens to generate, 2048 by default
	MaxTokens int `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty" validate:"gte=0"`
	// Temperature for sampling, 0.6 by default.
	// Use a pointer so an explicit zero is kept.
	Temperature *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty" validate:"omitempty,gte=0,lte=2"`
	// RepetitionPenalty, 1.4 by default
	RepetitionPenalty float64 `json:"repetition_penalty,omitempty" yaml:"repetition_penalty,omitempty" validate:"gte=0"`
	// SystemPrompt is prepended to every conversation
	SystemPrompt string `json:"system_prompt,omitempty" yaml:"system_prompt,omitempty"`
	// Token is the bearer token, optional for local endpoints
	Token string `json:"token,omitempty" yaml:"token,omitempty"`
	// RequestTimeout of one chat call, 90s by default
	RequestTimeout time.Duration `json:"request_timeout,omitempty" yaml:"request_timeout,omitempty"`
}

// GetTemperature returns the configured temperature or the default.
func (c *Config) GetTemperature() float64 {
	if c.Temperature == nil {
		return DefaultTemperature
	}
	return *c.Temperature
}

// GetMaxTokens returns the configured max tokens or the default.
func (c *Config) GetMaxTokens() int {
	return values.NumbersCoalesce(c.MaxTokens, DefaultMaxTokens)
}

// GetRepetitionPenalty returns the configured repetition penalty or the default.
func (c *Config) GetRepetitionPenalty() float64 {
	if c.RepetitionPenalty > 0 {
		return c.RepetitionPenalty
	}
	return DefaultRepetitionPenalty
}

// GetRequestTimeout returns the configured request timeout or the default.
func (c *Config) GetRequestTimeout() time.Duration {
	if c.RequestTimeout > 0 {
		return c.RequestTimeout
	}
	return DefaultRequestTimeout
}

type options struct {
	token      string
	httpClient openaiclient.Doer
}

// Option is a functional option for the OpenAI client.
type Option func(*options)

// WithToken passes the API token to the client, overriding the configured one.
func WithToken(token string) Option {
	return func(opts *options) {
		opts.token = token
	}
}

// WithHTTPClient allows setting a custom HTTP client. If not set, the default value
// is http.DefaultClient.
func WithHTTPClient(client openaiclient.Doer) Option {
	return func(opts *options) {
		opts.httpClient = client
	}
}
