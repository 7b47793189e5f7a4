// Package llms provides the contract of the chat models used by the agent.
//
// The `llms.go` file contains the Model interface and the completion type.
//
// The `options.go` file provides the per-call options: system prompt, generation parameters,
// tools override and extra request parameters.
//
// The `response.go` file provides typed access to the completion: finish reason,
// first message and tool calls, reporting ErrMalformedResponse for partial documents.
//
// The openai subpackage implements the Model for OpenAI-compatible chat endpoints.
package llms
