package http

import (
	"net/http"

	"github.com/mauv0809/tierboard/internal/board"
	"github.com/mauv0809/tierboard/internal/config"
	"github.com/mauv0809/tierboard/internal/leaderboard"
	"github.com/mauv0809/tierboard/internal/metrics"
	"github.com/mauv0809/tierboard/internal/notifier"
	"github.com/mauv0809/tierboard/internal/processor"
	"github.com/mauv0809/tierboard/internal/pubsub"
)

type Server struct {
	Store          board.BoardStore
	Counters       metrics.MetricsStore
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Processor      *processor.Processor
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}

type swapRequest struct {
	Name1 string `json:"name1"`
	Name2 string `json:"name2"`
}

type importRequest struct {
	Text    string               `json:"text"`
	Players []leaderboard.Player `json:"players"`
}

type errorResponse struct {
	Error string `json:"error"`
}
