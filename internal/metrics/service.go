package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tierboard_exports_total",
			Help: "The total number of leaderboard exports.",
		}, []string{"board"}),
		ExportMessages: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tierboard_export_messages",
			Help:    "The number of chat messages an export was split into.",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
		}, []string{"board"}),
		ExportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tierboard_export_duration_seconds",
			Help:    "The duration of loading, rendering and chunking a board.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		Imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tierboard_imports_total",
			Help: "The total number of leaderboard imports.",
		}, []string{"board"}),
		PlayersImported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tierboard_players_imported_total",
			Help: "The total number of players written by imports.",
		}, []string{"board"}),
		PlayersDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tierboard_players_dropped_total",
			Help: "Players left out of an export because their rank was unknown.",
		}, []string{"board"}),
		PlayersSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tierboard_players_skipped_total",
			Help: "Players an import could not write, for an invalid rating or a repeated name.",
		}, []string{"board"}),
		ChatMessagesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tierboard_chat_messages_sent_total",
			Help: "The total number of leaderboard messages posted to chat.",
		}),
		ChatMessagesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tierboard_chat_messages_failed_total",
			Help: "The total number of leaderboard messages that failed to post.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tierboard_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.Exports,
		s.ExportMessages,
		s.ExportDuration,
		s.Imports,
		s.PlayersImported,
		s.PlayersDropped,
		s.PlayersSkipped,
		s.ChatMessagesSent,
		s.ChatMessagesFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncExports(board string) {
	s.Exports.WithLabelValues(board).Inc()
}

func (s *Service) ObserveExportMessages(board string, messages int) {
	s.ExportMessages.WithLabelValues(board).Observe(float64(messages))
}

func (s *Service) ObserveExportDuration(duration float64) {
	s.ExportDuration.Observe(duration)
}

func (s *Service) IncImports(board string) {
	s.Imports.WithLabelValues(board).Inc()
}

func (s *Service) AddPlayersImported(board string, n int) {
	s.PlayersImported.WithLabelValues(board).Add(float64(n))
}

func (s *Service) AddPlayersDropped(board string, n int) {
	s.PlayersDropped.WithLabelValues(board).Add(float64(n))
}

func (s *Service) AddPlayersSkipped(board string, n int) {
	s.PlayersSkipped.WithLabelValues(board).Add(float64(n))
}

func (s *Service) IncChatMessagesSent() {
	s.ChatMessagesSent.Inc()
}

func (s *Service) IncChatMessagesFailed() {
	s.ChatMessagesFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
