package openaiclient

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/chatmodel"
	"github.com/tidwall/sjson"
)

// ToolChoiceAuto lets the model decide whether to call tools.
const ToolChoiceAuto = "auto"

// FunctionDefinition describes a callable function.
type FunctionDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters"`
}

// Tool is a tool in the function-calling shape.
type Tool struct {
	Type     string             `json:"type"`
	Function FunctionDefinition `json:"function"`
}

// ChatRequest is the body of a chat completion request.
type ChatRequest struct {
	Model             string              `json:"model"`
	Messages          []chatmodel.Message `json:"messages"`
	Temperature       float64             `json:"temperature"`
	MaxTokens         int                 `json:"max_tokens,omitempty"`
	RepetitionPenalty float64             `json:"repetition_penalty,omitempty"`
	Tools             []Tool              `json:"tools,omitempty"`
	ToolChoice        string              `json:"tool_choice,omitempty"`

	// Extra is merged into the top level of the body, overriding the typed fields.
	Extra map[string]any `json:"-"`
}

type chatRequest ChatRequest

// MarshalJSON encodes the typed fields and then applies Extra on top.
func (r ChatRequest) MarshalJSON() ([]byte, error) {
	body, err := json.Marshal(chatRequest(r))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	for k, v := range r.Extra {
		body, err = sjson.SetBytes(body, escapeKey(k), v)
		if err != nil {
			return nil, errors.Wrapf(err, "set extra parameter %q", k)
		}
	}
	return body, nil
}

var keyEscaper = strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`, "|", `\|`, "#", `\#`)

// escapeKey makes k a literal top-level sjson path.
func escapeKey(k string) string {
	return keyEscaper.Replace(k)
}
