package callbacks

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/effective-security/mcpagent/assistants"
	"github.com/effective-security/mcpagent/chatmodel"
	"github.com/effective-security/mcpagent/mocks/mockllms"
	"github.com/effective-security/mcpagent/mocks/mocktools"
	"github.com/effective-security/mcpagent/pkg/llms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fakeAssistant struct{ name string }

func (a *fakeAssistant) Name() string { return a.name }
func (a *fakeAssistant) ProcessRequest(context.Context, string, ...assistants.Option) (*llms.CompletionResponse, error) {
	return nil, nil
}

func newTestChatContext() (context.Context, chatmodel.ChatContext) {
	chatCtx := chatmodel.NewChatContext("req42")
	ctx := chatmodel.WithChatContext(context.Background(), chatCtx)
	return ctx, chatCtx
}

func decodeResponse(t *testing.T, raw string) *llms.CompletionResponse {
	t.Helper()
	resp := new(llms.CompletionResponse)
	require.NoError(t, json.Unmarshal([]byte(raw), resp))
	return resp
}

func TestScratchpad_StartRun_EndRun(t *testing.T) {
	t.Parallel()
	sp := NewScratchpad(ModeVerbose)
	ctx, cctx := newTestChatContext()
	assert.Equal(t, ctx, sp.StartRun(ctx))

	r := sp.runs[cctx.GetRequestID()]
	require.NotNil(t, r)
	r.stats.Requests = 2
	r.stats.RequestsFailed = 1
	r.stats.ToolsCalls = 3
	r.stats.ToolsCallsErrored = 1
	r.stats.ToolsCallsFailed = 2
	r.stats.Turns = 1
	r.stats.TotalMessages = 4
	r.stats.LLMBytesOut = 10
	r.stats.LLMBytesIn = 11

	stats, buf := sp.EndRun(ctx)
	require.NotNil(t, stats)
	assert.Equal(t, "req42", stats.RequestID)
	assert.Equal(t, uint32(3), stats.ToolsCalls)
	out := string(buf)
	assert.Contains(t, out, "Run Started")
	assert.Contains(t, out, "Run Ended")
	assert.Contains(t, out, "Requests: 2, Failed: 1")
	assert.Contains(t, out, "Tool calls: 3, Errored: 1, Failed: 2")
	assert.Contains(t, out, "Turns: 1, Malformed: 0, Messages: 4, Bytes Out: 10, Bytes In: 11, Bytes Total: 21")

	_, ok := sp.runs[cctx.GetRequestID()]
	assert.False(t, ok)

	s2, _ := sp.EndRun(ctx)
	assert.Nil(t, s2)
}

func TestScratchpad_StartRun_NewContext(t *testing.T) {
	t.Parallel()
	sp := NewScratchpad(ModeDefault)
	ctx := sp.StartRun(context.Background())
	requestID := chatmodel.GetRequestID(ctx)
	require.NotEmpty(t, requestID)
	assert.NotNil(t, sp.getRun(ctx))

	stats, _ := sp.EndRun(ctx)
	require.NotNil(t, stats)
	assert.Equal(t, requestID, stats.RequestID)
}

func TestScratchpad_getRun_nil(t *testing.T) {
	t.Parallel()
	sp := NewScratchpad(ModeDefault)
	assert.Nil(t, sp.getRun(context.Background()))
	ctx, _ := newTestChatContext()
	assert.Nil(t, sp.getRun(ctx))
}

func TestScratchpad_OnCallbacks(t *testing.T) {
	t.Parallel()
	sp := NewScratchpad(ModeVerbose)
	ctx, _ := newTestChatContext()
	sp.StartRun(ctx)

	ast := &fakeAssistant{name: "A1"}
	call := chatmodel.ToolCall{ID: "call_1", Function: chatmodel.FunctionCall{Name: "T1", Arguments: `{"x":1}`}}
	resp := decodeResponse(t, `{"id":"1","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Answer 1"}}],"usage":{"prompt_tokens":7,"completion_tokens":3,"total_tokens":10}}`)
	messages := []chatmodel.Message{chatmodel.UserMessage("foo")}

	sp.OnRequestStart(ctx, ast, "input")
	sp.OnStep(ctx, ast, 0, true, messages)
	sp.OnLLMResponse(ctx, ast, resp)
	sp.OnMalformedResponse(ctx, ast, nil, errors.New("no choices"))
	sp.OnToolStart(ctx, ast, call)
	sp.OnToolEnd(ctx, ast, call, &chatmodel.ToolInvocationResult{Content: "toutput"})
	sp.OnToolEnd(ctx, ast, call, &chatmodel.ToolInvocationResult{Content: "bad", ErrorCode: 1})
	sp.OnToolError(ctx, ast, call, errors.New("terr"))
	sp.OnRequestEnd(ctx, ast, "input", resp, messages)
	sp.OnRequestError(ctx, ast, "input", errors.New("fail"), messages)

	stats, output := sp.EndRun(ctx)
	require.NotNil(t, stats)
	assert.Equal(t, uint32(1), stats.Requests)
	assert.Equal(t, uint32(1), stats.RequestsSucceeded)
	assert.Equal(t, uint32(1), stats.RequestsFailed)
	assert.Equal(t, uint32(1), stats.Turns)
	assert.Equal(t, uint32(1), stats.TotalMessages)
	assert.Equal(t, uint32(1), stats.MalformedResponses)
	assert.Equal(t, uint32(1), stats.ToolsCalls)
	assert.Equal(t, uint32(1), stats.ToolsCallsSucceeded)
	assert.Equal(t, uint32(1), stats.ToolsCallsErrored)
	assert.Equal(t, uint32(1), stats.ToolsCallsFailed)
	assert.Equal(t, uint64(7), stats.LLMInputTokens)
	assert.Equal(t, uint64(3), stats.LLMOutputTokens)
	assert.Equal(t, uint64(10), stats.LLMTotalTokens)
	assert.Equal(t, uint64(7), stats.LLMBytesOut)

	out := string(output)
	assert.Contains(t, out, "A1 *** Request Start ***")
	assert.Contains(t, out, "A1 Input: input")
	assert.Contains(t, out, "A1 *** Step *** turn 0, 1 messages, tools enabled: true")
	assert.Contains(t, out, "USER: foo")
	assert.Contains(t, out, "A1 *** LLM Response *** 7 input tokens, 3 output tokens, 10 total tokens")
	assert.Contains(t, out, "A1 *** Malformed Response *** no choices")
	assert.Contains(t, out, "A1 T1 *** Tool Start ***")
	assert.Contains(t, out, "A1 T1 Output: toutput")
	assert.Contains(t, out, "A1 T1 *** Tool End *** error code 1")
	assert.Contains(t, out, "A1 T1 *** Tool Error *** terr")
	assert.Contains(t, out, "A1 Output: Answer 1")
	assert.Contains(t, out, "A1 *** Error *** fail")

	// no run, the events are dropped
	assert.NotPanics(t, func() {
		sp.OnRequestStart(ctx, ast, "input")
		sp.OnStep(ctx, ast, 0, true, nil)
		sp.OnLLMResponse(ctx, ast, resp)
		sp.OnMalformedResponse(ctx, ast, nil, errors.New("parse2"))
		sp.OnToolStart(ctx, ast, call)
		sp.OnToolEnd(ctx, ast, call, &chatmodel.ToolInvocationResult{})
		sp.OnToolError(ctx, ast, call, errors.New("terr2"))
		sp.OnRequestEnd(ctx, ast, "input", resp, nil)
		sp.OnRequestError(ctx, ast, "input", errors.New("fail2"), nil)
	})
}

func TestScratchpad_WithAgent(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	toolTurn := decodeResponse(t, `{"id":"1","choices":[{"index":0,"finish_reason":"tool_calls","message":{"role":"assistant","content":"",`+
		`"tool_calls":[{"id":"call_1","type":"function","function":{"name":"add","arguments":"{\"a\":1,\"b\":2}"}}]}}]}`)
	final := decodeResponse(t, `{"id":"2","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"3"}}]}`)

	model := mockllms.NewMockModel(ctrl)
	model.EXPECT().GetName().Return("test-model").AnyTimes()
	gomock.InOrder(
		model.EXPECT().Invoke(gomock.Any(), gomock.Any(), gomock.Any()).Return(toolTurn, nil),
		model.EXPECT().Invoke(gomock.Any(), gomock.Any(), gomock.Any()).Return(final, nil),
	)
	invoker := mocktools.NewMockInvoker(ctrl)
	invoker.EXPECT().InvokeTool(gomock.Any(), "add", map[string]any{"a": float64(1), "b": float64(2)}).
		Return(&chatmodel.ToolInvocationResult{Content: "3"}, nil)

	sp := NewScratchpad(ModeDefault)
	agent := assistants.NewAgent(model, invoker, assistants.WithCallback(sp)).WithName("calc")

	ctx := sp.StartRun(context.Background())
	content, err := agent.ProcessRequest(ctx, "add 1 and 2")
	require.NoError(t, err)
	text, err := llms.Content(content)
	require.NoError(t, err)
	assert.Equal(t, "3", text)

	stats, output := sp.EndRun(ctx)
	require.NotNil(t, stats)
	assert.Equal(t, uint32(1), stats.Requests)
	assert.Equal(t, uint32(1), stats.RequestsSucceeded)
	assert.Equal(t, uint32(2), stats.Turns)
	assert.Equal(t, uint32(1), stats.ToolsCalls)
	assert.Equal(t, uint32(1), stats.ToolsCallsSucceeded)
	assert.Contains(t, string(output), "calc add *** Tool Start ***")
	assert.Contains(t, string(output), "calc Output: 3")
}

func Test_run_print_format(t *testing.T) {
	_, chatCtx := newTestChatContext()
	r := &run{requestID: chatCtx.GetRequestID()}
	oldTimeFn := TimeNowFn
	TimeNowFn = func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) }
	defer func() { TimeNowFn = oldTimeFn }()

	r.print("hello", "again")
	lines := strings.Split(r.w.String(), "\n")
	require.NotEmpty(t, lines[0])
	assert.Equal(t, "2024-01-01 12:00:00 req42 hello again", lines[0])
}
