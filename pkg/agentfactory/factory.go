package agentfactory

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/assistants"
	"github.com/effective-security/mcpagent/chatmodel"
	"github.com/effective-security/mcpagent/mcp"
	"github.com/effective-security/mcpagent/pkg/llms/openai"
	"github.com/effective-security/mcpagent/tools"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpagent", "agentfactory")

type options struct {
	llmOptions   []openai.Option
	mcpOptions   []mcp.Option
	agentOptions []assistants.Option
}

// Option configures the factory
type Option func(*options)

// WithLLMOptions adds the chat client options
func WithLLMOptions(opts ...openai.Option) Option {
	return func(o *options) {
		o.llmOptions = append(o.llmOptions, opts...)
	}
}

// WithMCPOptions adds the tool endpoint client options
func WithMCPOptions(opts ...mcp.Option) Option {
	return func(o *options) {
		o.mcpOptions = append(o.mcpOptions, opts...)
	}
}

// WithAgentOptions adds the agent options,
// applied after the options from the config.
func WithAgentOptions(opts ...assistants.Option) Option {
	return func(o *options) {
		o.agentOptions = append(o.agentOptions, opts...)
	}
}

// Agent is the agent created from the config, with its clients.
type Agent struct {
	*assistants.Agent

	LLM   *openai.LLM
	Tools *mcp.Client
}

// Load returns the agent for the config file.
func Load(ctx context.Context, file string, opts ...Option) (*Agent, error) {
	cfg, err := LoadConfig(file)
	if err != nil {
		return nil, err
	}
	return New(ctx, cfg, opts...)
}

// New creates the chat client and the tool endpoint client,
// fetches the tool catalog and returns the agent.
func New(ctx context.Context, cfg *Config, opts ...Option) (*Agent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	mcpOpts := o.mcpOptions
	if cfg.MCP.Transport == TransportStreamable {
		mcpOpts = append([]mcp.Option{mcp.WithStreamableHTTP()}, mcpOpts...)
	}
	toolsClient, err := mcp.NewClient(cfg.MCP.Endpoint, mcpOpts...)
	if err != nil {
		return nil, err
	}

	llm, err := openai.New(ctx, &cfg.Model, o.llmOptions...)
	if err != nil {
		return nil, err
	}

	if err = llm.InitTools(ctx, toolsClient); err != nil {
		return nil, errors.WithMessagef(err, "failed to initialize tools from %s", toolsClient.Endpoint())
	}

	agentOpts := cfg.Agent.Options()
	if cfg.Agent.DescribeTools {
		agentOpts = append(agentOpts, assistants.WithSystemPrompt(describeTools(cfg.Model.SystemPrompt, llm.Tools())))
	}
	agentOpts = append(agentOpts, o.agentOptions...)
	name := values.StringsCoalesce(cfg.Agent.Name, "Agent")
	agent := assistants.NewAgent(llm, toolsClient, agentOpts...).WithName(name)

	logger.ContextKV(ctx, xlog.INFO,
		"status", "agent_created",
		"agent", name,
		"model", llm.GetName(),
		"mcp", toolsClient.Endpoint(),
		"tools", len(llm.Tools()),
	)

	return &Agent{
		Agent: agent,
		LLM:   llm,
		Tools: toolsClient,
	}, nil
}

// describeTools returns the system prompt followed by the tools block.
func describeTools(prompt string, list []openai.Tool) string {
	descr := make([]chatmodel.ToolDescriptor, 0, len(list))
	for _, t := range list {
		descr = append(descr, chatmodel.ToolDescriptor{
			Name:        t.Function.Name,
			Description: t.Function.Description,
		})
	}
	return prompt + tools.GetDescriptions(descr...)
}
