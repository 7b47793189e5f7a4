package chatmodel

import (
	"encoding/json"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_JSON(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name string
		msg  Message
		exp  string
	}{
		{
			name: "user",
			msg:  UserMessage("What's 2+2"),
			exp:  `{"role":"user","content":"What's 2+2"}`,
		},
		{
			name: "system",
			msg:  SystemMessage("be brief"),
			exp:  `{"role":"system","content":"be brief"}`,
		},
		{
			name: "assistant_tool_calls",
			msg: AssistantMessage("", ToolCall{
				ID:       "call_1",
				Type:     ToolTypeFunction,
				Function: FunctionCall{Name: "add", Arguments: `{"a":2,"b":2}`},
			}),
			exp: `{"role":"assistant","content":"","tool_calls":[{"id":"call_1","type":"function","function":{"name":"add","arguments":"{\"a\":2,\"b\":2}"}}]}`,
		},
		{
			name: "tool",
			msg:  ToolMessage("call_1", "4"),
			exp:  `{"role":"tool","content":"4","tool_call_id":"call_1"}`,
		},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			js, err := json.Marshal(tc.msg)
			require.NoError(t, err)
			assert.JSONEq(t, tc.exp, string(js))
		})
	}
}

func TestToolCall_ParseArguments(t *testing.T) {
	t.Parallel()

	tc := ToolCall{Function: FunctionCall{Name: "add", Arguments: `{"a":2,"b":2}`}}
	args, err := tc.ParseArguments()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(2), "b": float64(2)}, args)

	for _, empty := range []string{"", "  ", "null"} {
		tc.Function.Arguments = empty
		args, err = tc.ParseArguments()
		require.NoError(t, err)
		assert.Empty(t, args)
	}

	for _, bad := range []string{"{", "[1,2]", `"text"`} {
		tc.Function.Arguments = bad
		_, err = tc.ParseArguments()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidToolArguments), bad)
		assert.Contains(t, err.Error(), "tool add")
	}
}

func TestMessage_GetContent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "hello", UserMessage("hello").GetContent())

	m := AssistantMessage("thinking", ToolCall{ID: "1", Type: ToolTypeFunction, Function: FunctionCall{Name: "add", Arguments: "{}"}})
	content := m.GetContent()
	assert.Contains(t, content, "thinking\nTool Call: ")
	assert.Contains(t, content, `"name":"add"`)
	assert.Equal(t, `ToolCall: 1 (add), input: {}`, m.ToolCalls[0].String())
}

func TestHistory(t *testing.T) {
	t.Parallel()

	h := NewHistory()
	assert.Equal(t, 0, h.Len())
	_, ok := h.Last()
	assert.False(t, ok)

	h.Append(UserMessage("q"))
	h.Append(AssistantMessage("a"), ToolMessage("id", "r"))
	assert.Equal(t, 3, h.Len())

	last, ok := h.Last()
	require.True(t, ok)
	assert.Equal(t, RoleTool, last.Role)

	// Messages returns a copy
	msgs := h.Messages()
	msgs[0].Content = "changed"
	assert.Equal(t, "q", h.Messages()[0].Content)

	seed := []Message{UserMessage("seed")}
	h2 := NewHistory(seed...)
	seed[0].Content = "changed"
	assert.Equal(t, "seed", h2.Messages()[0].Content)
}

func TestToolInvocationResult_IsError(t *testing.T) {
	t.Parallel()

	var r *ToolInvocationResult
	assert.False(t, r.IsError())
	assert.False(t, (&ToolInvocationResult{Content: "4"}).IsError())
	assert.True(t, (&ToolInvocationResult{Content: "boom", ErrorCode: ErrorCodeToolError}).IsError())
}
