// Package agentfactory loads the agent configuration and wires the chat client, the MCP tool client and the agent loop.
package agentfactory
