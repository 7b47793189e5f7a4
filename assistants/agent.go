package assistants

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/chatmodel"
	"github.com/effective-security/mcpagent/pkg/llms"
	"github.com/effective-security/mcpagent/pkg/llmutils"
	"github.com/effective-security/mcpagent/pkg/metricskey"
	"github.com/effective-security/mcpagent/tools"
	"github.com/effective-security/x/slices"
	"github.com/effective-security/xlog"
	"golang.org/x/sync/errgroup"
)

// ToolResultsSeparator joins the results of the tool calls of one turn.
const ToolResultsSeparator = "\n\n"

// Agent runs a request against a chat model, dispatching the tool calls
// requested by the model to a tool endpoint.
// Agent does not keep per-request state and can serve concurrent requests.
type Agent struct {
	model   llms.Model
	invoker tools.Invoker
	cfg     *Config
	name    string
}

var _ IAssistant = (*Agent)(nil)

// NewAgent returns an agent for the model and the tool endpoint.
func NewAgent(model llms.Model, invoker tools.Invoker, options ...Option) *Agent {
	return &Agent{
		model:   model,
		invoker: invoker,
		cfg:     NewConfig(options...),
		name:    "Agent",
	}
}

// WithName sets the name of the Agent, used in logs and metrics.
func (a *Agent) WithName(name string) *Agent {
	a.name = name
	return a
}

// Name returns the name of the Agent.
func (a *Agent) Name() string {
	return a.name
}

// GetCallConfig returns the config of one request.
func (a *Agent) GetCallConfig(opts ...Option) *Config {
	return a.cfg.Apply(opts...)
}

// ProcessRequest implements IAssistant.
func (a *Agent) ProcessRequest(ctx context.Context, request string, opts ...Option) (*llms.CompletionResponse, error) {
	res, err := a.Run(ctx, request, opts...)
	if err != nil {
		return nil, err
	}
	return res.Response, nil
}

// Run processes the request and returns the final response with the conversation.
func (a *Agent) Run(ctx context.Context, request string, opts ...Option) (*RunResult, error) {
	started := time.Now()
	defer metricskey.PerfAgentRequest.MeasureSince(started, a.name)

	ctx, chatCtx := chatmodel.EnsureChatContext(ctx)
	cfg := a.GetCallConfig(opts...)

	callback := cfg.CallbackHandler
	if callback != nil {
		callback.OnRequestStart(ctx, a, request)
	}

	res, err := a.run(ctx, cfg, request)
	if err != nil {
		metricskey.StatsAgentRequestsFailed.IncrCounter(1, a.name)
		logger.ContextKV(ctx, xlog.ERROR,
			"agent", a.name,
			"request_id", chatCtx.GetRequestID(),
			"status", "request_failed",
			"turns", res.Turns,
			"err", err.Error(),
		)
		if callback != nil {
			callback.OnRequestError(ctx, a, request, err, res.Messages)
		}
		return nil, err
	}

	metricskey.StatsAgentRequestsSucceeded.IncrCounter(1, a.name)
	logger.ContextKV(ctx, xlog.DEBUG,
		"agent", a.name,
		"request_id", chatCtx.GetRequestID(),
		"status", "request_completed",
		"turns", res.Turns,
		"messages", len(res.Messages),
		"elapsed", time.Since(started).String(),
	)
	if callback != nil {
		callback.OnRequestEnd(ctx, a, request, res.Response, res.Messages)
	}
	return res, nil
}

// run executes the turn loop. The returned result is never nil,
// on error it carries the conversation so far.
func (a *Agent) run(ctx context.Context, cfg *Config, request string) (*RunResult, error) {
	requestID := chatmodel.GetRequestID(ctx)
	history := chatmodel.NewHistory(chatmodel.UserMessage(request))
	result := &RunResult{}

	agentName := a.name
	modelName := a.model.GetName()
	callOpts := cfg.GetCallOptions()

	var finishReason string
	malformed := 0

	for !llms.IsTerminal(finishReason) {
		result.Messages = history.Messages()

		if cfg.MaxTurns > 0 && result.Turns >= cfg.MaxTurns {
			return result, errors.Wrapf(ErrTurnsExceeded, "agent %s: %d turns", agentName, result.Turns)
		}

		opts := callOpts
		toolsEnabled := result.Turns <= cfg.StepsLimit
		if !toolsEnabled {
			if result.Turns == cfg.StepsLimit+1 {
				metricskey.StatsAgentToolsDisabled.IncrCounter(1, agentName)
				logger.ContextKV(ctx, xlog.DEBUG,
					"agent", agentName,
					"request_id", requestID,
					"status", "tools_disabled",
					"turn", result.Turns,
				)
			}
			opts = append(append([]llms.CallOption{}, callOpts...), llms.WithTools())
		}

		if cfg.CallbackHandler != nil {
			cfg.CallbackHandler.OnStep(ctx, a, result.Turns, toolsEnabled, result.Messages)
		}

		bytesSent := llmutils.CountMessagesContentSize(result.Messages)
		metricskey.StatsAgentTurns.IncrCounter(1, agentName)
		metricskey.StatsLLMMessagesSent.IncrCounter(float64(len(result.Messages)), agentName, modelName)
		metricskey.StatsLLMBytesSent.IncrCounter(float64(bytesSent), agentName, modelName)

		started := time.Now()
		resp, err := a.model.Invoke(ctx, result.Messages, opts...)
		metricskey.PerfLLMCall.MeasureSince(started, agentName, modelName)
		if err != nil {
			return result, errors.WithMessagef(err, "agent %s: failed to invoke model", agentName)
		}
		result.Turns++
		result.Response = resp

		bytesReceived := llmutils.CountResponseContentSize(resp)
		metricskey.StatsLLMBytesReceived.IncrCounter(float64(bytesReceived), agentName, modelName)
		tokensIn, tokensOut, tokensTotal := llmutils.CountTokens(resp)
		metricskey.StatsLLMInputTokens.IncrCounter(float64(tokensIn), agentName, modelName)
		metricskey.StatsLLMOutputTokens.IncrCounter(float64(tokensOut), agentName, modelName)
		metricskey.StatsLLMTotalTokens.IncrCounter(float64(tokensTotal), agentName, modelName)
		if cfg.CallbackHandler != nil {
			cfg.CallbackHandler.OnLLMResponse(ctx, a, resp)
		}

		reason, err := llms.FinishReason(resp)
		if err != nil {
			malformed++
			metricskey.StatsAgentMalformedResponses.IncrCounter(1, agentName)
			logger.ContextKV(ctx, xlog.WARNING,
				"agent", agentName,
				"request_id", requestID,
				"status", "malformed_response",
				"turn", result.Turns,
				"count", malformed,
				"err", err.Error(),
			)
			if cfg.CallbackHandler != nil {
				cfg.CallbackHandler.OnMalformedResponse(ctx, a, resp, err)
			}
			if malformed > cfg.MaxMalformedResponses {
				result.Messages = history.Messages()
				return result, errors.WithMessagef(err, "agent %s: %d consecutive malformed responses", agentName, malformed)
			}
		} else {
			malformed = 0
			finishReason = reason
		}

		msg, err := llms.FirstMessage(resp)
		if err != nil {
			// no choices, nothing to add to the conversation
			continue
		}

		calls, _ := llms.ToolCalls(resp)
		if len(calls) == 0 {
			history.Append(chatmodel.AssistantMessage(msg.Content))
			logger.ContextKV(ctx, xlog.DEBUG,
				"agent", agentName,
				"request_id", requestID,
				"status", "assistant_message",
				"turn", result.Turns,
				"finish_reason", finishReason,
				"content", slices.StringUpto(msg.Content, 64),
			)
			continue
		}

		history.Append(chatmodel.AssistantMessage(msg.Content, calls...))

		results, err := a.executeToolCalls(ctx, cfg, calls)
		if err != nil {
			result.Messages = history.Messages()
			return result, err
		}

		contents := make([]string, len(results))
		for i, r := range results {
			contents[i] = r.Content
		}
		history.Append(chatmodel.ToolMessage(calls[0].ID, strings.Join(contents, ToolResultsSeparator)))

		logger.ContextKV(ctx, xlog.DEBUG,
			"agent", agentName,
			"request_id", requestID,
			"status", "tool_calls_completed",
			"turn", result.Turns,
			"tool_calls", len(calls),
		)
	}

	result.Messages = history.Messages()
	return result, nil
}

// executeToolCalls invokes all calls concurrently and returns the results
// in the order of the calls. A transport error of any call is returned
// after all calls completed.
func (a *Agent) executeToolCalls(ctx context.Context, cfg *Config, calls []chatmodel.ToolCall) ([]*chatmodel.ToolInvocationResult, error) {
	results := make([]*chatmodel.ToolInvocationResult, len(calls))

	var g errgroup.Group
	for i, call := range calls {
		g.Go(func() error {
			res, err := a.invokeTool(ctx, cfg, call)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (a *Agent) invokeTool(ctx context.Context, cfg *Config, call chatmodel.ToolCall) (*chatmodel.ToolInvocationResult, error) {
	toolName := call.Function.Name

	if cfg.CallbackHandler != nil {
		cfg.CallbackHandler.OnToolStart(ctx, a, call)
	}

	args, err := call.ParseArguments()
	if err != nil {
		metricskey.StatsToolCallsErrored.IncrCounter(1, toolName)
		logger.ContextKV(ctx, xlog.WARNING,
			"agent", a.name,
			"status", "invalid_tool_arguments",
			"tool_call_id", call.ID,
			"tool", toolName,
			"arguments", slices.StringUpto(call.Function.Arguments, 64),
			"err", err.Error(),
		)
		res := &chatmodel.ToolInvocationResult{
			Content:   fmt.Sprintf("Tool call failed: %s. Arguments must be a JSON object.", err.Error()),
			ErrorCode: chatmodel.ErrorCodeToolError,
		}
		if cfg.CallbackHandler != nil {
			cfg.CallbackHandler.OnToolEnd(ctx, a, call, res)
		}
		return res, nil
	}

	started := time.Now()
	res, err := a.invoker.InvokeTool(ctx, toolName, args)
	metricskey.PerfToolCall.MeasureSince(started, toolName)
	if err != nil {
		metricskey.StatsToolCallsFailed.IncrCounter(1, toolName)
		logger.ContextKV(ctx, xlog.WARNING,
			"agent", a.name,
			"status", "tool_call_failed",
			"tool_call_id", call.ID,
			"tool", toolName,
			"err", err.Error(),
		)
		if cfg.CallbackHandler != nil {
			cfg.CallbackHandler.OnToolError(ctx, a, call, err)
		}
		return nil, errors.WithMessagef(err, "failed to call tool %s", toolName)
	}
	if res == nil {
		res = &chatmodel.ToolInvocationResult{}
	}

	if res.IsError() {
		metricskey.StatsToolCallsErrored.IncrCounter(1, toolName)
	} else {
		metricskey.StatsToolCallsSucceeded.IncrCounter(1, toolName)
	}

	logger.ContextKV(ctx, xlog.DEBUG,
		"agent", a.name,
		"status", "tool_call_response",
		"tool_call_id", call.ID,
		"tool", toolName,
		"error_code", res.ErrorCode,
		"content_length", len(res.Content),
	)

	if cfg.CallbackHandler != nil {
		cfg.CallbackHandler.OnToolEnd(ctx, a, call, res)
	}
	return res, nil
}
