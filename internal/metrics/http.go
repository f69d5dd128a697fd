package metrics

import (
	"strconv"
	"time"
)

// RecordHTTPRequest records metrics for an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, status int, duration time.Duration) {
	m.safeExecute("RecordHTTPRequest", func() {
		statusStr := strconv.Itoa(status)
		m.HTTPRequestsTotal.WithLabelValues(method, endpoint, statusStr).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	})
}

// categorizeStatus groups HTTP status codes into categories
func categorizeStatus(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}

// RecordHTTPRequestCategorized records metrics with status category instead of exact code.
// Keeps label cardinality low for high-traffic deployments.
func (m *Metrics) RecordHTTPRequestCategorized(method, endpoint string, status int, duration time.Duration) {
	m.safeExecute("RecordHTTPRequestCategorized", func() {
		category := categorizeStatus(status)
		m.HTTPRequestsTotal.WithLabelValues(method, endpoint, category).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	})
}

// ShouldSkipEndpoint returns true for endpoints that should not be tracked
func ShouldSkipEndpoint(path string) bool {
	skipPaths := []string{
		"/metrics",
		"/health",
		"/favicon.ico",
	}

	for _, skip := range skipPaths {
		if path == skip {
			return true
		}
	}
	return false
}
