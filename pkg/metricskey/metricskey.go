package metricskey

import "github.com/effective-security/metrics"

// Stats
var (
	// StatsLLMMessagesSent is base for counter metric for total messages sent to LLM
	StatsLLMMessagesSent = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_messages_sent",
		Help:         "stats_llm_messages_sent provides total messages sent to LLM",
		RequiredTags: []string{"agent", "model"},
	}

	StatsLLMBytesSent = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_bytes_sent",
		Help:         "stats_llm_bytes_sent provides total bytes sent to LLM",
		RequiredTags: []string{"agent", "model"},
	}

	StatsLLMBytesReceived = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_bytes_received",
		Help:         "stats_llm_bytes_received provides total bytes received from LLM",
		RequiredTags: []string{"agent", "model"},
	}

	StatsLLMInputTokens = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_input_tokens",
		Help:         "stats_llm_input_tokens provides total input tokens sent to LLM",
		RequiredTags: []string{"agent", "model"},
	}

	StatsLLMOutputTokens = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_output_tokens",
		Help:         "stats_llm_output_tokens provides total output tokens received from LLM",
		RequiredTags: []string{"agent", "model"},
	}

	StatsLLMTotalTokens = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_total_tokens",
		Help:         "stats_llm_total_tokens provides total tokens sent and received from LLM",
		RequiredTags: []string{"agent", "model"},
	}

	StatsAgentRequestsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_agent_requests_succeeded",
		Help:         "stats_agent_requests_succeeded provides total agent requests succeeded",
		RequiredTags: []string{"agent"},
	}

	StatsAgentRequestsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_agent_requests_failed",
		Help:         "stats_agent_requests_failed provides total agent requests failed",
		RequiredTags: []string{"agent"},
	}

	StatsAgentTurns = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_agent_turns",
		Help:         "stats_agent_turns provides total model turns made by agent",
		RequiredTags: []string{"agent"},
	}

	StatsAgentToolsDisabled = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_agent_tools_disabled",
		Help:         "stats_agent_tools_disabled provides total requests that reached the steps limit",
		RequiredTags: []string{"agent"},
	}

	StatsAgentMalformedResponses = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_agent_malformed_responses",
		Help:         "stats_agent_malformed_responses provides total malformed LLM responses",
		RequiredTags: []string{"agent"},
	}

	StatsToolCallsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_succeeded",
		Help:         "stats_tool_calls_succeeded provides total tool calls succeeded",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsErrored = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_errored",
		Help:         "stats_tool_calls_errored provides total tool calls that returned error result",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_failed",
		Help:         "stats_tool_calls_failed provides total tool calls failed with transport error",
		RequiredTags: []string{"tool"},
	}
)

// Perf
var (
	PerfAgentRequest = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_agent_request",
		Help:         "perf_agent_request provides duration of agent request",
		RequiredTags: []string{"agent"},
	}

	PerfLLMCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_llm_call",
		Help:         "perf_llm_call provides duration of LLM call",
		RequiredTags: []string{"agent", "model"},
	}

	PerfToolCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_tool_call",
		Help:         "perf_tool_call provides duration of tool call",
		RequiredTags: []string{"tool"},
	}
)

// Metrics returns slice of metrics from this repo
// keep sorted by name
var Metrics = []*metrics.Describe{
	&PerfAgentRequest,
	&PerfLLMCall,
	&PerfToolCall,
	&StatsAgentMalformedResponses,
	&StatsAgentRequestsFailed,
	&StatsAgentRequestsSucceeded,
	&StatsAgentToolsDisabled,
	&StatsAgentTurns,
	&StatsLLMBytesReceived,
	&StatsLLMBytesSent,
	&StatsLLMInputTokens,
	&StatsLLMMessagesSent,
	&StatsLLMOutputTokens,
	&StatsLLMTotalTokens,
	&StatsToolCallsErrored,
	&StatsToolCallsFailed,
	&StatsToolCallsSucceeded,
}
