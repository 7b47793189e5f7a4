package tools

import (
	"context"
	"strings"

	"github.com/effective-security/mcpagent/chatmodel"
	"github.com/effective-security/mcpagent/pkg/llmutils"
)

//go:generate mockgen -source=tools.go -destination=../mocks/mocktools/tools_mock.gen.go  -package mocktools

// Lister returns the catalog of the available tools.
type Lister interface {
	// ListTools returns the descriptors of the tools available on the endpoint.
	ListTools(ctx context.Context) ([]chatmodel.ToolDescriptor, error)
}

// Invoker calls a tool by name.
type Invoker interface {
	// InvokeTool calls the tool with the given arguments.
	// A tool that fails reports it in the result with the error code,
	// the returned error is reserved for transport failures.
	InvokeTool(ctx context.Context, name string, arguments map[string]any) (*chatmodel.ToolInvocationResult, error)
}

// Provider is a tool endpoint that can list and invoke tools.
type Provider interface {
	Lister
	Invoker
}

type toolDescription struct {
	Name        string `json:"Name" yaml:"Name"`
	Description string `json:"Description" yaml:"Description"`
}

type toolsDescription struct {
	Tools []toolDescription `json:"Tools" yaml:"Tools"`
}

// GetDescriptions returns the JSON block with names and descriptions of the tools,
// to be used in a system prompt.
func GetDescriptions(list ...chatmodel.ToolDescriptor) string {
	var d toolsDescription
	for _, tool := range list {
		d.Tools = append(d.Tools, toolDescription{
			Name:        tool.Name,
			Description: strings.TrimSpace(tool.Description),
		})
	}
	return llmutils.BackticksJSON(llmutils.ToJSONIndent(d))
}
