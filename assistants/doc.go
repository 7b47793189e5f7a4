// Package assistants provides the agent loop: it sends the conversation to a chat model, dispatches the tool calls requested by the model to a tool endpoint, and repeats until the model finishes.
package assistants
