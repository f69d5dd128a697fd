package metrics

// RecordMutation increments the mutation counter for an operation and its result
func (m *Metrics) RecordMutation(operation, result string) {
	m.safeExecute("RecordMutation", func() {
		m.MutationsTotal.WithLabelValues(operation, result).Inc()
	})
}

// IncrementWipRejection counts a mutation refused by a column WIP limit
func (m *Metrics) IncrementWipRejection() {
	m.safeExecute("IncrementWipRejection", func() {
		m.WipRejectionsTotal.Inc()
	})
}

// IncrementWSConnections increments the live session gauge
func (m *Metrics) IncrementWSConnections() {
	m.safeExecute("IncrementWSConnections", func() {
		m.WSConnections.Inc()
	})
}

// DecrementWSConnections decrements the live session gauge
func (m *Metrics) DecrementWSConnections() {
	m.safeExecute("DecrementWSConnections", func() {
		m.WSConnections.Dec()
	})
}

// RecordEventPublished counts an event fanned out to a board group
func (m *Metrics) RecordEventPublished(eventType string) {
	m.safeExecute("RecordEventPublished", func() {
		m.WSEventsPublished.WithLabelValues(eventType).Inc()
	})
}

// IncrementSlowConsumerDropped counts a session evicted for a full send buffer
func (m *Metrics) IncrementSlowConsumerDropped() {
	m.safeExecute("IncrementSlowConsumerDropped", func() {
		m.WSSlowConsumerDropped.Inc()
	})
}

// IncrementBoardCreated increments board creation counter
func (m *Metrics) IncrementBoardCreated() {
	m.safeExecute("IncrementBoardCreated", func() {
		m.BoardCreatedTotal.Inc()
	})
}

// IncrementItemCreated increments the item creation counter for a variant ("bug" or "feature")
func (m *Metrics) IncrementItemCreated(variant string) {
	m.safeExecute("IncrementItemCreated", func() {
		m.ItemCreatedTotal.WithLabelValues(variant).Inc()
	})
}

// SetProjectsTotal sets total active projects gauge
func (m *Metrics) SetProjectsTotal(count int64) {
	m.safeExecute("SetProjectsTotal", func() {
		m.ProjectsTotal.Set(float64(count))
	})
}

// SetBoardsTotal sets total boards gauge
func (m *Metrics) SetBoardsTotal(count int64) {
	m.safeExecute("SetBoardsTotal", func() {
		m.BoardsTotal.Set(float64(count))
	})
}

// SetOpenItemsTotal sets the non-archived work item gauge
func (m *Metrics) SetOpenItemsTotal(count int64) {
	m.safeExecute("SetOpenItemsTotal", func() {
		m.OpenItemsTotal.Set(float64(count))
	})
}

// SetOpenTimeEntries sets the running time entry gauge
func (m *Metrics) SetOpenTimeEntries(count int64) {
	m.safeExecute("SetOpenTimeEntries", func() {
		m.OpenTimeEntries.Set(float64(count))
	})
}
