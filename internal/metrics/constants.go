package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Progression metric names
const (
	MetricNameXPAwarded          = "xp_awarded_total"
	MetricNameXPAwards           = "xp_awards_total"
	MetricNameLevelUps           = "level_ups_total"
	MetricNameMilestonesReached  = "milestones_reached_total"
	MetricNameLevelCapReached    = "level_cap_reached_total"
	MetricNameClaimsRejected     = "reward_claims_rejected_total"
	MetricNameLeaderboardRefresh = "leaderboard_refresh_duration_seconds"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Progression metric help text
const (
	HelpTextXPAwarded          = "Total experience points granted, by reward source"
	HelpTextXPAwards           = "Total number of XP grants, by reward source"
	HelpTextLevelUps           = "Total number of level ups"
	HelpTextMilestonesReached  = "Total number of milestone levels reached, by tier"
	HelpTextLevelCapReached    = "Total number of awards that resolved to the maximum level"
	HelpTextClaimsRejected     = "Total number of daily or weekly claims rejected in the same period"
	HelpTextLeaderboardRefresh = "Leaderboard refresh latency in seconds"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
	LabelType   = "type"
	LabelSource = "source"
	LabelTier   = "tier"
)

// PathUnmatched labels requests that did not match any route
const PathUnmatched = "unmatched"

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgPayloadDecodeFailed = "Failed to decode event payload for metrics"
	LogMsgMetricsRecorded     = "Metrics recorded for event"
)
