// Package tools defines the interfaces of a tool endpoint: listing the tool catalog and invoking a tool by name. The MCP client implements them, the chat client and the agent consume them.
package tools
