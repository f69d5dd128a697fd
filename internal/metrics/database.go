package metrics

import (
	"database/sql"
	"strings"
	"time"
)

// UpdateDBStats updates database connection pool metrics. Anything but a
// sql.DBStats value is ignored.
func (m *Metrics) UpdateDBStats(statsInterface interface{}) {
	m.safeExecute("UpdateDBStats", func() {
		stats, ok := statsInterface.(sql.DBStats)
		if !ok {
			return
		}
		m.DBConnectionsOpen.Set(float64(stats.OpenConnections))
		m.DBConnectionsInUse.Set(float64(stats.InUse))
		m.DBConnectionsIdle.Set(float64(stats.Idle))
		m.DBConnectionsMax.Set(float64(stats.MaxOpenConnections))
		m.DBConnectionWaitTotal.Add(float64(stats.WaitCount))
		m.DBConnectionWaitDuration.Add(stats.WaitDuration.Seconds())
	})
}

// RecordDBQuery records metrics for a database query
func (m *Metrics) RecordDBQuery(operation, table string, duration time.Duration, err error) {
	m.safeExecute("RecordDBQuery", func() {
		op := normalizeOperation(operation)
		m.DBQueryDuration.WithLabelValues(op, table).Observe(duration.Seconds())
		if err != nil {
			m.DBQueryErrors.WithLabelValues(op, table).Inc()
		}
	})
}

// normalizeOperation normalizes SQL operation names to lowercase standard forms
func normalizeOperation(operation string) string {
	op := strings.ToLower(strings.TrimSpace(operation))
	switch {
	case strings.HasPrefix(op, "select"), op == "query":
		return "select"
	case strings.HasPrefix(op, "insert"), op == "create":
		return "insert"
	case strings.HasPrefix(op, "update"):
		return "update"
	case strings.HasPrefix(op, "delete"):
		return "delete"
	default:
		return "other"
	}
}
