package callbacks

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/effective-security/mcpagent/assistants"
	"github.com/effective-security/mcpagent/chatmodel"
	"github.com/effective-security/mcpagent/pkg/llms"
	"github.com/effective-security/mcpagent/pkg/llmutils"
	"github.com/effective-security/x/slices"
	"github.com/effective-security/xlog"
)

// ensure that the callbacks implement the correct interfaces
var (
	_ assistants.Callback = (*Noop)(nil)
	_ assistants.Callback = (*Printer)(nil)
	_ assistants.Callback = (*PackageLogger)(nil)
	_ assistants.Callback = (*Fanout)(nil)
)

// Mode defines the mode for callback printing
type Mode int

const (
	// ModeDefault is the default mode for callback printing
	ModeDefault Mode = iota
	// ModeVerbose is the verbose mode for callback printing
	ModeVerbose
)

// Fanout is a callback handler that forwards the events to multiple callbacks.
type Fanout struct {
	callbacks []assistants.Callback
}

func NewFanout(callbacks ...assistants.Callback) *Fanout {
	return &Fanout{callbacks: callbacks}
}

func (l *Fanout) Add(callback assistants.Callback) {
	l.callbacks = append(l.callbacks, callback)
}

func (l *Fanout) OnRequestStart(ctx context.Context, agent assistants.IAssistant, request string) {
	for _, callback := range l.callbacks {
		callback.OnRequestStart(ctx, agent, request)
	}
}

func (l *Fanout) OnRequestEnd(ctx context.Context, agent assistants.IAssistant, request string, resp *llms.CompletionResponse, messages []chatmodel.Message) {
	for _, callback := range l.callbacks {
		callback.OnRequestEnd(ctx, agent, request, resp, messages)
	}
}

func (l *Fanout) OnRequestError(ctx context.Context, agent assistants.IAssistant, request string, err error, messages []chatmodel.Message) {
	for _, callback := range l.callbacks {
		callback.OnRequestError(ctx, agent, request, err, messages)
	}
}

func (l *Fanout) OnStep(ctx context.Context, agent assistants.IAssistant, turn int, toolsEnabled bool, messages []chatmodel.Message) {
	for _, callback := range l.callbacks {
		callback.OnStep(ctx, agent, turn, toolsEnabled, messages)
	}
}

func (l *Fanout) OnLLMResponse(ctx context.Context, agent assistants.IAssistant, resp *llms.CompletionResponse) {
	for _, callback := range l.callbacks {
		callback.OnLLMResponse(ctx, agent, resp)
	}
}

func (l *Fanout) OnMalformedResponse(ctx context.Context, agent assistants.IAssistant, resp *llms.CompletionResponse, err error) {
	for _, callback := range l.callbacks {
		callback.OnMalformedResponse(ctx, agent, resp, err)
	}
}

func (l *Fanout) OnToolStart(ctx context.Context, agent assistants.IAssistant, call chatmodel.ToolCall) {
	for _, callback := range l.callbacks {
		callback.OnToolStart(ctx, agent, call)
	}
}

func (l *Fanout) OnToolEnd(ctx context.Context, agent assistants.IAssistant, call chatmodel.ToolCall, result *chatmodel.ToolInvocationResult) {
	for _, callback := range l.callbacks {
		callback.OnToolEnd(ctx, agent, call, result)
	}
}

func (l *Fanout) OnToolError(ctx context.Context, agent assistants.IAssistant, call chatmodel.ToolCall, err error) {
	for _, callback := range l.callbacks {
		callback.OnToolError(ctx, agent, call, err)
	}
}

// Noop does nothing.
type Noop struct{}

func NewNoop() *Noop {
	return &Noop{}
}

func (l *Noop) OnRequestStart(ctx context.Context, agent assistants.IAssistant, request string) {}
func (l *Noop) OnRequestEnd(ctx context.Context, agent assistants.IAssistant, request string, resp *llms.CompletionResponse, messages []chatmodel.Message) {
}
func (l *Noop) OnRequestError(ctx context.Context, agent assistants.IAssistant, request string, err error, messages []chatmodel.Message) {
}
func (l *Noop) OnStep(ctx context.Context, agent assistants.IAssistant, turn int, toolsEnabled bool, messages []chatmodel.Message) {
}
func (l *Noop) OnLLMResponse(ctx context.Context, agent assistants.IAssistant, resp *llms.CompletionResponse) {
}
func (l *Noop) OnMalformedResponse(ctx context.Context, agent assistants.IAssistant, resp *llms.CompletionResponse, err error) {
}
func (l *Noop) OnToolStart(ctx context.Context, agent assistants.IAssistant, call chatmodel.ToolCall) {}
func (l *Noop) OnToolEnd(ctx context.Context, agent assistants.IAssistant, call chatmodel.ToolCall, result *chatmodel.ToolInvocationResult) {
}
func (l *Noop) OnToolError(ctx context.Context, agent assistants.IAssistant, call chatmodel.ToolCall, err error) {
}

// Printer is a callback handler that prints to the Writer.
type Printer struct {
	Out  io.Writer
	Mode Mode

	lock sync.Mutex
}

func NewPrinter(out io.Writer, mode Mode) *Printer {
	return &Printer{Out: out, Mode: mode}
}

func (l *Printer) OnRequestStart(ctx context.Context, agent assistants.IAssistant, request string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Request Start: %s\n", agent.Name())
	fmt.Fprintf(l.Out, "Input: %s\n", request)
}

func (l *Printer) OnRequestEnd(ctx context.Context, agent assistants.IAssistant, request string, resp *llms.CompletionResponse, messages []chatmodel.Message) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Request End: %s, %d messages\n", agent.Name(), len(messages))
	if content, err := llms.Content(resp); err == nil && content != "" {
		fmt.Fprintln(l.Out, content)
	}
	if l.Mode == ModeVerbose {
		llmutils.PrintMessages(l.Out, messages)
	}
}

func (l *Printer) OnRequestError(ctx context.Context, agent assistants.IAssistant, request string, err error, messages []chatmodel.Message) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Request Error: %s: %s\n", agent.Name(), err.Error())
	if l.Mode == ModeVerbose {
		llmutils.PrintMessages(l.Out, messages)
	}
}

func (l *Printer) OnStep(ctx context.Context, agent assistants.IAssistant, turn int, toolsEnabled bool, messages []chatmodel.Message) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Step %d: %s, %d messages, tools enabled: %t\n", turn, agent.Name(), len(messages), toolsEnabled)
}

func (l *Printer) OnLLMResponse(ctx context.Context, agent assistants.IAssistant, resp *llms.CompletionResponse) {
	if l.Mode != ModeVerbose {
		return
	}
	in, out, total := llmutils.CountTokens(resp)
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "LLM Response: %s, %d input tokens, %d output tokens, %d total tokens\n", agent.Name(), in, out, total)
}

func (l *Printer) OnMalformedResponse(ctx context.Context, agent assistants.IAssistant, resp *llms.CompletionResponse, err error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Malformed Response: %s: %s\n", agent.Name(), err.Error())
	if l.Mode == ModeVerbose && resp != nil {
		fmt.Fprint(l.Out, llmutils.EnsureEndsWithNewline(llmutils.ToJSON(resp)))
	}
}

func (l *Printer) OnToolStart(ctx context.Context, agent assistants.IAssistant, call chatmodel.ToolCall) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Tool Start: %s (%s)\n", call.Function.Name, agent.Name())
	fmt.Fprintf(l.Out, "Input: %s\n", call.Function.Arguments)
}

func (l *Printer) OnToolEnd(ctx context.Context, agent assistants.IAssistant, call chatmodel.ToolCall, result *chatmodel.ToolInvocationResult) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Tool End: %s (%s)\n", call.Function.Name, agent.Name())
	if l.Mode == ModeVerbose {
		fmt.Fprint(l.Out, llmutils.ToYAML(result))
	}
}

func (l *Printer) OnToolError(ctx context.Context, agent assistants.IAssistant, call chatmodel.ToolCall, err error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Tool Error: %s (%s): %s\n", call.Function.Name, agent.Name(), err.Error())
}

// PackageLogger is a callback handler that prints to the logger.
type PackageLogger struct {
	logger *xlog.PackageLogger
}

func NewPackageLogger(logger *xlog.PackageLogger) *PackageLogger {
	return &PackageLogger{logger: logger}
}

func (l *PackageLogger) OnRequestStart(ctx context.Context, agent assistants.IAssistant, request string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "request_start",
		"agent", agent.Name(),
		"request_id", chatmodel.GetRequestID(ctx),
		"input", slices.StringUpto(request, 256),
	)
}

func (l *PackageLogger) OnRequestEnd(ctx context.Context, agent assistants.IAssistant, request string, resp *llms.CompletionResponse, messages []chatmodel.Message) {
	content, _ := llms.Content(resp)
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "request_end",
		"agent", agent.Name(),
		"request_id", chatmodel.GetRequestID(ctx),
		"messages", len(messages),
		"result", slices.StringUpto(content, 256),
	)
}

func (l *PackageLogger) OnRequestError(ctx context.Context, agent assistants.IAssistant, request string, err error, messages []chatmodel.Message) {
	l.logger.ContextKV(ctx, xlog.ERROR,
		"event", "request_error",
		"agent", agent.Name(),
		"request_id", chatmodel.GetRequestID(ctx),
		"messages", len(messages),
		"err", err.Error(),
	)
}

func (l *PackageLogger) OnStep(ctx context.Context, agent assistants.IAssistant, turn int, toolsEnabled bool, messages []chatmodel.Message) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "step",
		"agent", agent.Name(),
		"request_id", chatmodel.GetRequestID(ctx),
		"turn", turn,
		"tools_enabled", toolsEnabled,
		"messages", len(messages),
	)
}

func (l *PackageLogger) OnLLMResponse(ctx context.Context, agent assistants.IAssistant, resp *llms.CompletionResponse) {
	in, out, total := llmutils.CountTokens(resp)
	reason, _ := llms.FinishReason(resp)
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "llm_response",
		"agent", agent.Name(),
		"request_id", chatmodel.GetRequestID(ctx),
		"finish_reason", reason,
		"input_tokens", in,
		"output_tokens", out,
		"total_tokens", total,
	)
}

func (l *PackageLogger) OnMalformedResponse(ctx context.Context, agent assistants.IAssistant, resp *llms.CompletionResponse, err error) {
	l.logger.ContextKV(ctx, xlog.WARNING,
		"event", "malformed_response",
		"agent", agent.Name(),
		"request_id", chatmodel.GetRequestID(ctx),
		"err", err.Error(),
	)
}

func (l *PackageLogger) OnToolStart(ctx context.Context, agent assistants.IAssistant, call chatmodel.ToolCall) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "tool_start",
		"agent", agent.Name(),
		"tool", call.Function.Name,
		"tool_call_id", call.ID,
		"input", slices.StringUpto(call.Function.Arguments, 256),
	)
}

func (l *PackageLogger) OnToolEnd(ctx context.Context, agent assistants.IAssistant, call chatmodel.ToolCall, result *chatmodel.ToolInvocationResult) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "tool_end",
		"agent", agent.Name(),
		"tool", call.Function.Name,
		"tool_call_id", call.ID,
		"error_code", result.ErrorCode,
		"output", slices.StringUpto(result.Content, 256),
	)
}

func (l *PackageLogger) OnToolError(ctx context.Context, agent assistants.IAssistant, call chatmodel.ToolCall, err error) {
	l.logger.ContextKV(ctx, xlog.ERROR,
		"event", "tool_error",
		"agent", agent.Name(),
		"tool", call.Function.Name,
		"tool_call_id", call.ID,
		"err", err.Error(),
	)
}
