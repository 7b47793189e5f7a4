package llmutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/effective-security/mcpagent/chatmodel"
	"github.com/effective-security/mcpagent/pkg/llms"
	"gopkg.in/yaml.v3"
)

func JSONIndent(body string) string {
	var buf bytes.Buffer
	_ = json.Indent(&buf, []byte(body), "", "\t")
	return buf.String()
}

func ToJSON(val any) string {
	js, _ := json.Marshal(val)
	return string(js)
}

func ToJSONIndent(val any) string {
	js, _ := json.MarshalIndent(val, "", "\t")
	return string(js)
}

func ToYAML(val any) string {
	js, _ := yaml.Marshal(val)
	return string(js)
}

func BackticksJSON(js string) string {
	return "\n```json\n" + strings.TrimSpace(js) + "\n```\n"
}

func BackticksYAML(js string) string {
	return "\n```yaml\n" + strings.TrimSpace(js) + "\n```\n"
}

// PrintMessages is a debugging helper for the conversation.
func PrintMessages(w io.Writer, msgs []chatmodel.Message) {
	for _, m := range msgs {
		fmt.Fprintf(w, "%s: ", strings.ToUpper(string(m.Role)))
		if m.Content != "" || len(m.ToolCalls) == 0 {
			fmt.Fprintln(w, m.Content)
		} else {
			fmt.Fprintln(w)
		}
		for _, tc := range m.ToolCalls {
			fmt.Fprintf(w, "ToolCall ID=%s, Type=%s, Func=%s(%s)\n", tc.ID, tc.Type, tc.Function.Name, tc.Function.Arguments)
		}
	}
}

// CountMessagesContentSize counts the size of the content in the messages
func CountMessagesContentSize(msgs []chatmodel.Message) uint64 {
	var size uint64
	for _, m := range msgs {
		size += uint64(len(m.Role))
		size += uint64(len(m.Content))
		size += uint64(len(m.ToolCallID))
		size += uint64(len(m.Name))
		for _, tc := range m.ToolCalls {
			size += uint64(len(tc.ID))
			size += uint64(len(tc.Type))
			size += uint64(len(tc.Function.Name))
			size += uint64(len(tc.Function.Arguments))
		}
	}
	return size
}

// CountResponseContentSize counts the size of the content in the completion
func CountResponseContentSize(resp *llms.CompletionResponse) uint64 {
	if resp == nil {
		return 0
	}
	var size uint64
	for _, choice := range resp.Choices {
		size += uint64(len(choice.Message.Content))
		for _, toolCall := range choice.Message.ToolCalls {
			size += uint64(len(toolCall.ID))
			size += uint64(len(toolCall.Type))
			size += uint64(len(toolCall.Function.Name))
			size += uint64(len(toolCall.Function.Arguments))
		}
	}
	return size
}

// CountTokens returns the token usage reported by the endpoint.
func CountTokens(resp *llms.CompletionResponse) (in, out, total int64) {
	if resp == nil {
		return
	}
	return resp.Usage.PromptTokens, resp.Usage.CompletionTokens, resp.Usage.TotalTokens
}

// EnsureEndsWithNewline ensures the message ends with a newline,
// it also removes any extra leading and trailing spaces.
func EnsureEndsWithNewline(s string) string {
	s = strings.TrimSpace(s)
	c := len(s)
	if c == 0 {
		return s
	}
	if s[c-1] != '\n' {
		return s + "\n"
	}
	return s
}
