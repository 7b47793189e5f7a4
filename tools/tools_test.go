package tools_test

import (
	"testing"

	"github.com/effective-security/mcpagent/chatmodel"
	"github.com/effective-security/mcpagent/tools"
	"github.com/stretchr/testify/assert"
)

func TestGetDescriptions(t *testing.T) {
	descr := tools.GetDescriptions(
		chatmodel.ToolDescriptor{Name: "add", Description: "adds two numbers\n"},
		chatmodel.ToolDescriptor{Name: "parse_url", Description: "returns text of the page"},
	)
	exp := "\n```json" + `
{
	"Tools": [
		{
			"Name": "add",
			"Description": "adds two numbers"
		},
		{
			"Name": "parse_url",
			"Description": "returns text of the page"
		}
	]
}
` + "```\n"
	assert.Equal(t, exp, descr)
}
