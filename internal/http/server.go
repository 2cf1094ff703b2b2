package http

import (
	"net/http"

	"github.com/mauv0809/tierboard/internal/board"
	"github.com/mauv0809/tierboard/internal/config"
	"github.com/mauv0809/tierboard/internal/metrics"
	"github.com/mauv0809/tierboard/internal/notifier"
	"github.com/mauv0809/tierboard/internal/processor"
	"github.com/mauv0809/tierboard/internal/pubsub"
)

func NewServer(store board.BoardStore, counters metrics.MetricsStore, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, processor *processor.Processor, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Store:          store,
		Counters:       counters,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Processor:      processor,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(s.MyHandler(), requestLogger, paramsMiddleware, authMiddleware)
	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/stats", Chain(s.StatsHandler(), requestLogger, paramsMiddleware))

	s.Router.Handle("GET /api/players/{board}", Chain(s.ListPlayersHandler(), requestLogger, paramsMiddleware))
	s.Router.Handle("POST /api/players/{board}", Chain(s.AddPlayerHandler(), requestLogger, paramsMiddleware))
	s.Router.Handle("PUT /api/players/{board}/{name}", Chain(s.UpdatePlayerHandler(), requestLogger, paramsMiddleware))
	s.Router.Handle("DELETE /api/players/{board}/{name}", Chain(s.RemovePlayerHandler(), requestLogger, paramsMiddleware))
	s.Router.Handle("DELETE /api/players/{board}/delete-all", Chain(s.DeleteAllHandler(), requestLogger, paramsMiddleware))
	s.Router.Handle("POST /api/players/{board}/swap", Chain(s.SwapPositionsHandler(), requestLogger, paramsMiddleware))

	s.Router.Handle("GET /api/leaderboards/overall/export", Chain(s.ExportOverallHandler(), requestLogger, paramsMiddleware))
	s.Router.Handle("GET /api/leaderboards/{board}/export", Chain(s.ExportHandler(), requestLogger, paramsMiddleware))
	s.Router.Handle("GET /api/leaderboards/{board}/exports", Chain(s.ExportHistoryHandler(), requestLogger, paramsMiddleware))
	s.Router.Handle("POST /api/leaderboards/{board}/import", Chain(s.ImportHandler(), requestLogger, paramsMiddleware))
	s.Router.Handle("POST /api/leaderboards/{board}/publish", Chain(s.PublishHandler(), requestLogger, paramsMiddleware))

	s.Router.Handle("POST /pubsub/publish-leaderboard", Chain(s.PublishLeaderboardPushHandler(), requestLogger, paramsMiddleware))
	s.Router.Handle("POST /slack/command/leaderboard", Chain(s.LeaderboardCommandHandler(), requestLogger, paramsMiddleware, s.slackVerifier))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
