package metricskey

import "github.com/effective-security/metrics"

// Stats
var (
	StatsAPIRequests = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_api_requests",
		Help:         "stats_api_requests provides total API requests served",
		RequiredTags: []string{"route", "status"},
	}

	StatsToolCallsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_succeeded",
		Help:         "stats_tool_calls_succeeded provides total tool calls succeeded",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_failed",
		Help:         "stats_tool_calls_failed provides total tool calls failed",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsNotFound = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_not_found",
		Help:         "stats_tool_calls_not_found provides total tool calls not found",
		RequiredTags: []string{"tool"},
	}

	StatsAgentRunsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_agent_runs_succeeded",
		Help:         "stats_agent_runs_succeeded provides total agent runs succeeded",
		RequiredTags: []string{"agent"},
	}

	StatsAgentRunsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_agent_runs_failed",
		Help:         "stats_agent_runs_failed provides total agent runs failed",
		RequiredTags: []string{"agent"},
	}

	StatsLLMMessagesSent = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_messages_sent",
		Help:         "stats_llm_messages_sent provides total messages sent to LLM",
		RequiredTags: []string{"agent", "model"},
	}

	StatsLLMParseErrors = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_parse_errors",
		Help:         "stats_llm_parse_errors provides total LLM response parse errors",
		RequiredTags: []string{"agent"},
	}

	StatsUpstreamCallsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_upstream_calls_failed",
		Help:         "stats_upstream_calls_failed provides total upstream provider calls failed",
		RequiredTags: []string{"provider"},
	}
)

// Perf
var (
	PerfAgentRun = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_agent_run",
		Help:         "perf_agent_run provides duration of agent run",
		RequiredTags: []string{"agent"},
	}

	PerfToolCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_tool_call",
		Help:         "perf_tool_call provides duration of tool call",
		RequiredTags: []string{"tool"},
	}

	PerfUpstreamCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_upstream_call",
		Help:         "perf_upstream_call provides duration of upstream provider call",
		RequiredTags: []string{"provider"},
	}
)

// Metrics returns slice of metrics from this repo
// keep sorted by name
var Metrics = []*metrics.Describe{
	&PerfAgentRun,
	&PerfToolCall,
	&PerfUpstreamCall,
	&StatsAPIRequests,
	&StatsAgentRunsFailed,
	&StatsAgentRunsSucceeded,
	&StatsLLMMessagesSent,
	&StatsLLMParseErrors,
	&StatsToolCallsFailed,
	&StatsToolCallsNotFound,
	&StatsToolCallsSucceeded,
	&StatsUpstreamCallsFailed,
}
