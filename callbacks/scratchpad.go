package callbacks

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/effective-security/mcpagent/assistants"
	"github.com/effective-security/mcpagent/chatmodel"
	"github.com/effective-security/mcpagent/pkg/llms"
	"github.com/effective-security/mcpagent/pkg/llmutils"
)

// ensure Scratchpad implements assistants.Callback
var _ assistants.Callback = (*Scratchpad)(nil)

var TimeNowFn = time.Now

type RunStats struct {
	RequestID string

	Duration            time.Duration
	Turns               uint32
	TotalMessages       uint32
	MalformedResponses  uint32
	LLMBytesOut         uint64
	LLMBytesIn          uint64
	LLMInputTokens      uint64
	LLMOutputTokens     uint64
	LLMTotalTokens      uint64
	Requests            uint32
	RequestsSucceeded   uint32
	RequestsFailed      uint32
	ToolsCalls          uint32
	ToolsCallsSucceeded uint32
	ToolsCallsErrored   uint32
	ToolsCallsFailed    uint32
}

// Scratchpad collects a transcript and the stats of a run,
// keyed by the request ID of the chat context.
type Scratchpad struct {
	runs map[string]*run
	mode Mode
	lock sync.Mutex
}

func NewScratchpad(mode Mode) *Scratchpad {
	return &Scratchpad{
		runs: make(map[string]*run),
		mode: mode,
	}
}

// StartRun starts recording the events of the request in ctx.
// The returned context carries the chat context, and must be passed to the agent.
func (l *Scratchpad) StartRun(ctx context.Context) context.Context {
	ctx, chatCtx := chatmodel.EnsureChatContext(ctx)

	r := &run{
		stats: RunStats{
			RequestID: chatCtx.GetRequestID(),
		},
		requestID: chatCtx.GetRequestID(),
		started:   TimeNowFn(),
	}

	l.lock.Lock()
	l.runs[r.requestID] = r
	l.lock.Unlock()

	r.print("*** Run Started ***")
	return ctx
}

// EndRun stops recording the request and returns its stats and transcript.
func (l *Scratchpad) EndRun(ctx context.Context) (*RunStats, []byte) {
	run := l.getRun(ctx)
	if run == nil {
		return nil, nil
	}

	l.lock.Lock()
	delete(l.runs, run.requestID)
	l.lock.Unlock()

	stats := run.snapshot()
	stats.Duration = TimeNowFn().Sub(run.started)

	run.print(fmt.Sprintf("Requests: %d, Failed: %d",
		stats.Requests,
		stats.RequestsFailed,
	))
	run.print(fmt.Sprintf("Tool calls: %d, Errored: %d, Failed: %d",
		stats.ToolsCalls,
		stats.ToolsCallsErrored,
		stats.ToolsCallsFailed,
	))
	run.print(fmt.Sprintf("Turns: %d, Malformed: %d, Messages: %d, Bytes Out: %d, Bytes In: %d, Bytes Total: %d, Input Tokens: %d, Output Tokens: %d, Total Tokens: %d",
		stats.Turns,
		stats.MalformedResponses,
		stats.TotalMessages,
		stats.LLMBytesOut,
		stats.LLMBytesIn,
		stats.LLMBytesOut+stats.LLMBytesIn,
		stats.LLMInputTokens,
		stats.LLMOutputTokens,
		stats.LLMTotalTokens,
	))

	run.print(fmt.Sprintf("*** Run Ended. Duration: %s ***", stats.Duration))

	return &stats, run.bytes()
}

func (l *Scratchpad) getRun(ctx context.Context) *run {
	requestID := chatmodel.GetRequestID(ctx)
	if requestID == "" {
		return nil
	}

	l.lock.Lock()
	defer l.lock.Unlock()
	return l.runs[requestID]
}

func (l *Scratchpad) OnRequestStart(ctx context.Context, agent assistants.IAssistant, request string) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	atomic.AddUint32(&run.stats.Requests, 1)
	run.print(agent.Name(), "*** Request Start ***")
	run.print(agent.Name(), "Input:", request)
}

func (l *Scratchpad) OnRequestEnd(ctx context.Context, agent assistants.IAssistant, request string, resp *llms.CompletionResponse, messages []chatmodel.Message) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	atomic.AddUint32(&run.stats.RequestsSucceeded, 1)

	if content, err := llms.Content(resp); err == nil && content != "" {
		run.print(agent.Name(), "Output:", content)
	}
	if l.mode == ModeVerbose {
		run.print(agent.Name(), printMessages(messages))
	}
	run.print(agent.Name(), "*** Request End ***")
}

func (l *Scratchpad) OnRequestError(ctx context.Context, agent assistants.IAssistant, request string, err error, messages []chatmodel.Message) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	atomic.AddUint32(&run.stats.RequestsFailed, 1)
	run.print(agent.Name(), "*** Error ***", err.Error())
	run.print(agent.Name(), printMessages(messages))
}

func (l *Scratchpad) OnStep(ctx context.Context, agent assistants.IAssistant, turn int, toolsEnabled bool, messages []chatmodel.Message) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}

	atomic.AddUint64(&run.stats.LLMBytesOut, llmutils.CountMessagesContentSize(messages))
	atomic.AddUint32(&run.stats.Turns, 1)
	count := uint32(len(messages))
	atomic.AddUint32(&run.stats.TotalMessages, count)

	run.print(agent.Name(), "*** Step ***", fmt.Sprintf("turn %d, %d messages, tools enabled: %t", turn, count, toolsEnabled))
	if l.mode == ModeVerbose {
		run.print(agent.Name(), printMessages(messages))
	}
}

func (l *Scratchpad) OnMalformedResponse(ctx context.Context, agent assistants.IAssistant, resp *llms.CompletionResponse, err error) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	atomic.AddUint32(&run.stats.MalformedResponses, 1)
	run.print(agent.Name(), "*** Malformed Response ***", err.Error())
}

func (l *Scratchpad) OnToolStart(ctx context.Context, agent assistants.IAssistant, call chatmodel.ToolCall) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	atomic.AddUint32(&run.stats.ToolsCalls, 1)
	run.print(agent.Name(), call.Function.Name, "*** Tool Start ***")
	run.print(agent.Name(), call.Function.Name, "Input:", call.Function.Arguments)
}

func (l *Scratchpad) OnToolEnd(ctx context.Context, agent assistants.IAssistant, call chatmodel.ToolCall, result *chatmodel.ToolInvocationResult) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	if result.IsError() {
		atomic.AddUint32(&run.stats.ToolsCallsErrored, 1)
	} else {
		atomic.AddUint32(&run.stats.ToolsCallsSucceeded, 1)
	}
	if l.mode == ModeVerbose {
		run.print(agent.Name(), call.Function.Name, "Output:", result.Content)
	}
	run.print(agent.Name(), call.Function.Name, "*** Tool End ***", fmt.Sprintf("error code %d", result.ErrorCode))
}

func (l *Scratchpad) OnToolError(ctx context.Context, agent assistants.IAssistant, call chatmodel.ToolCall, err error) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	atomic.AddUint32(&run.stats.ToolsCallsFailed, 1)
	run.print(agent.Name(), call.Function.Name, "*** Tool Error ***", err.Error())
}

func (l *Scratchpad) OnLLMResponse(ctx context.Context, agent assistants.IAssistant, resp *llms.CompletionResponse) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	in, out, total := l.countResponse(run, resp)
	run.print(agent.Name(), "*** LLM Response ***", fmt.Sprintf("%d input tokens, %d output tokens, %d total tokens", in, out, total))
}

func (l *Scratchpad) countResponse(run *run, resp *llms.CompletionResponse) (in, out, total int64) {
	atomic.AddUint64(&run.stats.LLMBytesIn, llmutils.CountResponseContentSize(resp))
	in, out, total = llmutils.CountTokens(resp)
	atomic.AddUint64(&run.stats.LLMInputTokens, uint64(in))
	atomic.AddUint64(&run.stats.LLMOutputTokens, uint64(out))
	atomic.AddUint64(&run.stats.LLMTotalTokens, uint64(total))
	return
}

func printMessages(messages []chatmodel.Message) string {
	var buf bytes.Buffer
	buf.WriteString("Messages:\n")
	llmutils.PrintMessages(&buf, messages)
	return buf.String()
}

type run struct {
	requestID string
	w         bytes.Buffer
	started   time.Time
	lock      sync.Mutex
	stats     RunStats
}

func (r *run) snapshot() RunStats {
	return RunStats{
		RequestID:           r.stats.RequestID,
		Turns:               atomic.LoadUint32(&r.stats.Turns),
		TotalMessages:       atomic.LoadUint32(&r.stats.TotalMessages),
		MalformedResponses:  atomic.LoadUint32(&r.stats.MalformedResponses),
		LLMBytesOut:         atomic.LoadUint64(&r.stats.LLMBytesOut),
		LLMBytesIn:          atomic.LoadUint64(&r.stats.LLMBytesIn),
		LLMInputTokens:      atomic.LoadUint64(&r.stats.LLMInputTokens),
		LLMOutputTokens:     atomic.LoadUint64(&r.stats.LLMOutputTokens),
		LLMTotalTokens:      atomic.LoadUint64(&r.stats.LLMTotalTokens),
		Requests:            atomic.LoadUint32(&r.stats.Requests),
		RequestsSucceeded:   atomic.LoadUint32(&r.stats.RequestsSucceeded),
		RequestsFailed:      atomic.LoadUint32(&r.stats.RequestsFailed),
		ToolsCalls:          atomic.LoadUint32(&r.stats.ToolsCalls),
		ToolsCallsSucceeded: atomic.LoadUint32(&r.stats.ToolsCallsSucceeded),
		ToolsCallsErrored:   atomic.LoadUint32(&r.stats.ToolsCallsErrored),
		ToolsCallsFailed:    atomic.LoadUint32(&r.stats.ToolsCallsFailed),
	}
}

func (r *run) bytes() []byte {
	r.lock.Lock()
	defer r.lock.Unlock()
	return bytes.Clone(r.w.Bytes())
}

// print writes the entries to the run's output.
// The entries are written in the following format:
// timestamp requestID entry entry\n
func (r *run) print(entries ...string) {
	r.lock.Lock()
	defer r.lock.Unlock()

	now := TimeNowFn()
	ts := now.Format("2006-01-02 15:04:05")

	_, _ = r.w.WriteString(ts)
	_, _ = r.w.WriteString(" ")
	_, _ = r.w.WriteString(r.requestID)
	_, _ = r.w.WriteString(" ")

	for i, entry := range entries {
		if i > 0 {
			_, _ = r.w.WriteString(" ")
		}
		_, _ = r.w.WriteString(entry)
	}
	_, _ = r.w.WriteString("\n")
}
