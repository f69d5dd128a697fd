package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func getTestMetrics() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry(), nil)
}

// TestMetricsInitialization tests that all metrics are properly initialized
func TestMetricsInitialization(t *testing.T) {
	m := getTestMetrics()

	// Test that all metrics are non-nil
	if m.HTTPRequestsTotal == nil {
		t.Error("HTTPRequestsTotal should not be nil")
	}
	if m.HTTPRequestDuration == nil {
		t.Error("HTTPRequestDuration should not be nil")
	}
	if m.DBConnectionsOpen == nil {
		t.Error("DBConnectionsOpen should not be nil")
	}
	if m.DBConnectionsInUse == nil {
		t.Error("DBConnectionsInUse should not be nil")
	}
	if m.DBConnectionsIdle == nil {
		t.Error("DBConnectionsIdle should not be nil")
	}
	if m.DBConnectionsMax == nil {
		t.Error("DBConnectionsMax should not be nil")
	}
	if m.DBConnectionWaitTotal == nil {
		t.Error("DBConnectionWaitTotal should not be nil")
	}
	if m.DBConnectionWaitDuration == nil {
		t.Error("DBConnectionWaitDuration should not be nil")
	}
	if m.DBQueryDuration == nil {
		t.Error("DBQueryDuration should not be nil")
	}
	if m.DBQueryErrors == nil {
		t.Error("DBQueryErrors should not be nil")
	}
	if m.MutationsTotal == nil {
		t.Error("MutationsTotal should not be nil")
	}
	if m.WipRejectionsTotal == nil {
		t.Error("WipRejectionsTotal should not be nil")
	}
	if m.WSConnections == nil {
		t.Error("WSConnections should not be nil")
	}
	if m.WSEventsPublished == nil {
		t.Error("WSEventsPublished should not be nil")
	}
	if m.WSSlowConsumerDropped == nil {
		t.Error("WSSlowConsumerDropped should not be nil")
	}
	if m.ProjectsTotal == nil {
		t.Error("ProjectsTotal should not be nil")
	}
	if m.BoardsTotal == nil {
		t.Error("BoardsTotal should not be nil")
	}
	if m.OpenItemsTotal == nil {
		t.Error("OpenItemsTotal should not be nil")
	}
	if m.OpenTimeEntries == nil {
		t.Error("OpenTimeEntries should not be nil")
	}
	if m.BoardCreatedTotal == nil {
		t.Error("BoardCreatedTotal should not be nil")
	}
	if m.ItemCreatedTotal == nil {
		t.Error("ItemCreatedTotal should not be nil")
	}
}

// TestMetricNamingConvention verifies all registered metric names use snake_case
// and carry the service namespace prefix
func TestMetricNamingConvention(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewWithRegistry(registry, nil)

	// Touch labeled vecs so they show up in Gather
	m.HTTPRequestsTotal.WithLabelValues("GET", "/test", "200").Inc()
	m.HTTPRequestDuration.WithLabelValues("GET", "/test").Observe(0.1)
	m.DBQueryDuration.WithLabelValues("select", "boards").Observe(0.01)
	m.DBQueryErrors.WithLabelValues("select", "boards").Inc()
	m.MutationsTotal.WithLabelValues("move_item", "success").Inc()
	m.WSEventsPublished.WithLabelValues("item_moved").Inc()
	m.ItemCreatedTotal.WithLabelValues("bug").Inc()

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}

	if len(families) == 0 {
		t.Fatal("Expected at least one metric family")
	}

	for _, mf := range families {
		name := mf.GetName()

		if !strings.HasPrefix(name, namespace+"_") {
			t.Errorf("Metric '%s' is missing the '%s_' namespace prefix", name, namespace)
		}

		for _, ch := range name {
			if !(ch >= 'a' && ch <= 'z') && !(ch >= '0' && ch <= '9') && ch != '_' {
				t.Errorf("Metric '%s' contains non-snake_case character %q", name, ch)
				break
			}
		}

		if mf.GetHelp() == "" {
			t.Errorf("Metric '%s' has an empty help description", name)
		}
	}
}

func TestCategorizeStatus(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{200, "2xx"},
		{201, "2xx"},
		{301, "3xx"},
		{400, "4xx"},
		{404, "4xx"},
		{409, "4xx"},
		{500, "5xx"},
		{503, "5xx"},
		{100, "unknown"},
	}

	for _, tt := range tests {
		if got := categorizeStatus(tt.status); got != tt.want {
			t.Errorf("categorizeStatus(%d) = %s, want %s", tt.status, got, tt.want)
		}
	}
}

func TestShouldSkipEndpoint(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/metrics", true},
		{"/health", true},
		{"/favicon.ico", true},
		{"/api/v1/projects", false},
		{"/ws/boards/abc", false},
	}

	for _, tt := range tests {
		if got := ShouldSkipEndpoint(tt.path); got != tt.want {
			t.Errorf("ShouldSkipEndpoint(%s) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
