package metricskey

import (
	"sort"
	"testing"

	"github.com/effective-security/metrics"
	"github.com/stretchr/testify/assert"
)

func TestMetricsDefinitions(t *testing.T) {
	allMetrics := []*metrics.Describe{
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

	for _, m := range allMetrics {
		assert.NotEmpty(t, m.Name, "Metric name should not be empty")
		assert.NotEmpty(t, m.Help, "Metric help text should not be empty")
		assert.NotEmpty(t, m.RequiredTags, "Metric should have required tags")
	}

	assert.Equal(t, len(allMetrics), len(Metrics), "Metrics slice should contain all defined metrics")

	isSorted := sort.SliceIsSorted(Metrics, func(i, j int) bool {
		return Metrics[i].Name < Metrics[j].Name
	})
	assert.True(t, isSorted, "Metrics slice should be sorted by name")

	seen := make(map[string]bool)
	for _, m := range Metrics {
		assert.False(t, seen[m.Name], "Metric name should be unique: %s", m.Name)
		seen[m.Name] = true
	}

	t.Run("Agent metrics have agent tag", func(t *testing.T) {
		agentMetrics := []*metrics.Describe{
			&StatsLLMMessagesSent,
			&StatsLLMBytesSent,
			&StatsLLMBytesReceived,
			&StatsAgentRequestsSucceeded,
			&StatsAgentRequestsFailed,
			&StatsAgentMalformedResponses,
			&StatsAgentTurns,
			&PerfLLMCall,
		}
		for _, m := range agentMetrics {
			assert.Contains(t, m.RequiredTags, "agent", "Agent metric should have agent tag: %s", m.Name)
		}
	})

	t.Run("Tool metrics have tool tag", func(t *testing.T) {
		toolMetrics := []*metrics.Describe{
			&StatsToolCallsSucceeded,
			&StatsToolCallsErrored,
			&StatsToolCallsFailed,
			&PerfToolCall,
		}
		for _, m := range toolMetrics {
			assert.Contains(t, m.RequiredTags, "tool", "Tool metric should have tool tag: %s", m.Name)
		}
	})
}
