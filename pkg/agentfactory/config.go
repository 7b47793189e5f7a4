package agentfactory

import (
	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/assistants"
	"github.com/effective-security/mcpagent/pkg/llms/openai"
	"github.com/effective-security/x/configloader"
	"github.com/go-playground/validator/v10"
)

// MCP transports
const (
	TransportSSE        = "sse"
	TransportStreamable = "streamable"
)

// Config of the agent, the chat endpoint and the tool endpoint.
type Config struct {
	Model openai.Config `json:"model" yaml:"model"`
	MCP   MCPConfig     `json:"mcp" yaml:"mcp"`
	Agent AgentConfig   `json:"agent" yaml:"agent"`
}

// MCPConfig specifies the tool endpoint
type MCPConfig struct {
	// Endpoint of the MCP server, for example http://localhost:8001/sse
	Endpoint string `json:"endpoint" yaml:"endpoint" validate:"required,http_url"`
	// Transport is sse (default) or streamable
	Transport string `json:"transport,omitempty" yaml:"transport,omitempty" validate:"omitempty,oneof=sse streamable"`
}

// AgentConfig specifies the turn loop limits
type AgentConfig struct {
	// Name of the agent, used in logs and metrics
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// StepsLimit is the last turn index sent with tools, 5 by default
	StepsLimit *int `json:"steps_limit,omitempty" yaml:"steps_limit,omitempty" validate:"omitempty,gte=0"`
	// MaxMalformedResponses in a row before the request fails, 3 by default
	MaxMalformedResponses int `json:"max_malformed_responses,omitempty" yaml:"max_malformed_responses,omitempty" validate:"gte=0"`
	// MaxTurns is the limit of model calls per request, 0 for unlimited
	MaxTurns int `json:"max_turns,omitempty" yaml:"max_turns,omitempty" validate:"gte=0"`
	// DescribeTools appends the names and descriptions of the endpoint tools
	// to the system prompt
	DescribeTools bool `json:"describe_tools,omitempty" yaml:"describe_tools,omitempty"`
}

// Options returns the agent options for the config.
func (c *AgentConfig) Options() []assistants.Option {
	var opts []assistants.Option
	if c.StepsLimit != nil {
		opts = append(opts, assistants.WithStepsLimit(*c.StepsLimit))
	}
	if c.MaxMalformedResponses > 0 {
		opts = append(opts, assistants.WithMaxMalformedResponses(c.MaxMalformedResponses))
	}
	if c.MaxTurns > 0 {
		opts = append(opts, assistants.WithMaxTurns(c.MaxTurns))
	}
	return opts
}

// Validate returns an error if the config is not valid.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}

// LoadConfig from file, the environment variables in the values are expanded.
func LoadConfig(file string) (*Config, error) {
	cfg := new(Config)
	err := configloader.UnmarshalAndExpand(file, cfg)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to load config %s", file)
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
