package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncExports(board string)
	ObserveExportMessages(board string, messages int)
	ObserveExportDuration(duration float64)
	IncImports(board string)
	AddPlayersImported(board string, n int)
	AddPlayersDropped(board string, n int)
	AddPlayersSkipped(board string, n int)
	IncChatMessagesSent()
	IncChatMessagesFailed()
	SetStartupTime(duration float64)
}

// MetricsStore keeps running totals in the database so they survive restarts.
type MetricsStore interface {
	Increment(key string)
	Add(key string, n int)
	GetAll() (map[string]int, error)
}
