package openai

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/chatmodel"
	"github.com/effective-security/mcpagent/pkg/llms"
	"github.com/effective-security/mcpagent/pkg/llms/openai/internal/openaiclient"
	"github.com/effective-security/mcpagent/tools"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpagent/pkg/llms", "openai")

// Tool is a tool in the function-calling shape sent to the endpoint.
type Tool = openaiclient.Tool

// ErrEmptyModels is returned by New when the model is not configured
// and the endpoint does not advertise any.
var ErrEmptyModels = openaiclient.ErrEmptyModels

// LLM is a chat model served by an OpenAI-compatible endpoint.
type LLM struct {
	cfg    Config
	client *openaiclient.Client

	lock  sync.RWMutex
	tools []Tool
}

var _ llms.Model = (*LLM)(nil)

// New returns a new OpenAI-compatible LLM.
// When the model is not configured, the first model advertised by the endpoint is used.
func New(ctx context.Context, cfg *Config, opts ...Option) (*LLM, error) {
	if cfg == nil || cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	c := &LLM{
		cfg:    *cfg,
		client: openaiclient.New(cfg.BaseURL, values.StringsCoalesce(o.token, cfg.Token), o.httpClient),
	}

	if c.cfg.Model == "" {
		models, err := c.client.ListModels(ctx)
		if err != nil {
			return nil, errors.WithMessagef(err, "failed to discover model at %s", c.client.BaseURL())
		}
		c.cfg.Model = models[0].ID
		logger.ContextKV(ctx, xlog.INFO,
			"status", "model_discovered",
			"model", c.cfg.Model,
			"available", len(models),
		)
	}

	return c, nil
}

// GetName implements the Model interface.
func (o *LLM) GetName() string {
	return o.cfg.Model
}

// InitTools fetches the tool catalog once and caches it in the function-calling shape.
func (o *LLM) InitTools(ctx context.Context, lister tools.Lister) error {
	list, err := lister.ListTools(ctx)
	if err != nil {
		return errors.WithMessage(err, "failed to list tools")
	}

	converted := ConvertTools(list)

	o.lock.Lock()
	o.tools = converted
	o.lock.Unlock()

	logger.ContextKV(ctx, xlog.DEBUG, "status", "tools_initialized", "count", len(converted))
	return nil
}

// Tools returns a copy of the cached tools.
func (o *LLM) Tools() []Tool {
	o.lock.RLock()
	defer o.lock.RUnlock()
	return slices.Clone(o.tools)
}

// ConvertTools converts tool descriptors to the function-calling shape.
func ConvertTools(list []chatmodel.ToolDescriptor) []Tool {
	res := make([]Tool, 0, len(list))
	for _, td := range list {
		params := td.Parameters
		if params == nil {
			params = map[string]any{"type": "object", "properties": map[string]any{}}
		}
		res = append(res, Tool{
			Type: chatmodel.ToolTypeFunction,
			Function: openaiclient.FunctionDefinition{
				Name:        td.Name,
				Description: td.Description,
				Parameters:  params,
			},
		})
	}
	return res
}

// Invoke implements the Model interface.
func (o *LLM) Invoke(ctx context.Context, messages []chatmodel.Message, options ...llms.CallOption) (*llms.CompletionResponse, error) {
	opts := llms.NewCallOptions(options...)

	req := &openaiclient.ChatRequest{
		Model:             o.cfg.Model,
		Messages:          o.buildMessages(opts, messages),
		Temperature:       o.cfg.GetTemperature(),
		MaxTokens:         o.cfg.GetMaxTokens(),
		RepetitionPenalty: o.cfg.GetRepetitionPenalty(),
		Extra:             opts.ExtraParams,
	}
	if opts.HasTemperature() {
		req.Temperature = opts.Temperature
	}
	if opts.HasMaxTokens() {
		req.MaxTokens = opts.MaxTokens
	}

	if opts.HasTools() {
		req.Tools = ConvertTools(opts.Tools)
	} else {
		req.Tools = o.Tools()
	}
	if len(req.Tools) > 0 {
		req.ToolChoice = openaiclient.ToolChoiceAuto
	}

	ctx, cancel := context.WithTimeout(ctx, o.cfg.GetRequestTimeout())
	defer cancel()

	started := time.Now()
	resp, err := o.client.CreateChat(ctx, req)
	if err != nil {
		logger.ContextKV(ctx, xlog.DEBUG,
			"status", "failed",
			"model", req.Model,
			"elapsed", time.Since(started).String(),
			"err", err.Error(),
		)
		return nil, errors.WithMessagef(err, "chat completion failed: model=%s", req.Model)
	}

	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "completed",
		"model", req.Model,
		"messages", len(req.Messages),
		"tools", len(req.Tools),
		"choices", len(resp.Choices),
		"elapsed", time.Since(started).String(),
	)
	return resp, nil
}

func (o *LLM) buildMessages(opts *llms.CallOptions, messages []chatmodel.Message) []chatmodel.Message {
	systemPrompt := o.cfg.SystemPrompt
	if opts.HasSystemPrompt() {
		systemPrompt = opts.SystemPrompt
	}
	res := make([]chatmodel.Message, 0, len(messages)+1)
	res = append(res, chatmodel.SystemMessage(systemPrompt))
	return append(res, messages...)
}
