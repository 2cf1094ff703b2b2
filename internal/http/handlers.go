package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tierboard/internal/board"
	"github.com/mauv0809/tierboard/internal/leaderboard"
	"github.com/mauv0809/tierboard/internal/processor"
	"github.com/mauv0809/tierboard/internal/pubsub"
	"github.com/slack-go/slack"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response to JSON", "error", err)
	}
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, board.ErrUnknownBoard), errors.Is(err, board.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, board.ErrDuplicateName):
		return http.StatusConflict
	case errors.Is(err, board.ErrInvalidRank),
		errors.Is(err, board.ErrInvalidStars),
		errors.Is(err, board.ErrEmptyName),
		errors.Is(err, processor.ErrNothingRecognized),
		errors.Is(err, processor.ErrNoPlayers):
		return http.StatusBadRequest
	case errors.Is(err, processor.ErrNoNotifier):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error("Request failed", "error", err)
		writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}
	return true
}

func boardFromPath(r *http.Request) leaderboard.Kind {
	return leaderboard.Kind(strings.ToLower(r.PathValue("board")))
}

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// StatsHandler returns the running totals kept in the database.
func (s *Server) StatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counters, err := s.Counters.GetAll()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, counters)
	}
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Store.GetPlayers(boardFromPath(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, players)
	}
}

func (s *Server) AddPlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p leaderboard.Player
		if !decodeBody(w, r, &p) {
			return
		}
		kind := boardFromPath(r)
		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would add player", "board", kind, "name", p.Name)
			writeJSON(w, http.StatusOK, board.Player{Player: p})
			return
		}
		added, err := s.Store.AddPlayer(kind, p)
		if err != nil {
			writeError(w, err)
			return
		}
		log.Info("Player added", "board", kind, "name", added.Name)
		writeJSON(w, http.StatusCreated, added)
	}
}

func (s *Server) UpdatePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p leaderboard.Player
		if !decodeBody(w, r, &p) {
			return
		}
		kind := boardFromPath(r)
		oldName := r.PathValue("name")
		if p.Name == "" {
			p.Name = oldName
		}
		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would update player", "board", kind, "name", oldName)
			writeJSON(w, http.StatusOK, board.Player{Player: p})
			return
		}
		updated, err := s.Store.UpdatePlayer(kind, oldName, p)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func (s *Server) RemovePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind := boardFromPath(r)
		name := r.PathValue("name")
		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would remove player", "board", kind, "name", name)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if err := s.Store.RemovePlayer(kind, name); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) DeleteAllHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind := boardFromPath(r)
		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would delete all players", "board", kind)
			writeJSON(w, http.StatusOK, map[string]int{"deleted": 0})
			return
		}
		n, err := s.Store.DeleteAll(kind)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"deleted": n})
	}
}

func (s *Server) SwapPositionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req swapRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Name1 == "" || req.Name2 == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "name1 and name2 are required"})
			return
		}
		kind := boardFromPath(r)
		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would swap players", "board", kind, "name1", req.Name1, "name2", req.Name2)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if err := s.Store.SwapPositions(kind, req.Name1, req.Name2); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ExportHandler renders a board. With format=text the messages are joined
// for display, otherwise the chunked result is returned as JSON.
func (s *Server) ExportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := s.Processor.Export(boardFromPath(r))
		if err != nil {
			writeError(w, err)
			return
		}
		if r.URL.Query().Get("format") == "text" {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, res.Text())
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func (s *Server) ExportOverallHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messages, err := s.Processor.ExportOverall()
		if err != nil {
			writeError(w, err)
			return
		}
		if r.URL.Query().Get("format") == "text" {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, leaderboard.Join(messages))
			return
		}
		writeJSON(w, http.StatusOK, map[string][]string{"messages": messages})
	}
}

func (s *Server) ExportHistoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		records, err := s.Store.RecentExports(boardFromPath(r), limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, records)
	}
}

// ImportHandler replaces a board from exported text or a list of players.
func (s *Server) ImportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req importRequest
		if !decodeBody(w, r, &req) {
			return
		}
		kind := boardFromPath(r)
		dryRun := isDryRunFromContext(r)

		var (
			res processor.ImportResult
			err error
		)
		if strings.TrimSpace(req.Text) != "" {
			res, err = s.Processor.Import(kind, req.Text, dryRun)
		} else {
			res, err = s.Processor.ImportPlayers(kind, req.Players, dryRun)
		}
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func (s *Server) PublishHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := s.Processor.RequestPublish(r.Context(), boardFromPath(r), isDryRunFromContext(r))
		if err != nil {
			writeError(w, err)
			return
		}
		status := http.StatusOK
		if res.Queued {
			status = http.StatusAccepted
		}
		writeJSON(w, status, res)
	}
}

// PublishLeaderboardPushHandler receives publish requests pushed by pubsub.
func (s *Server) PublishLeaderboardPushHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		env, raw, err := pubsub.ReadPush(r.Body)
		if err != nil {
			log.Error("Failed to read pubsub push", "error", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Debug("Received publish message", "subscription", env.Subscription, "id", env.Message.ID)

		if _, err := s.Processor.HandlePublishMessage(r.Context(), raw); err != nil {
			log.Error("Failed to publish leaderboard", "error", err)
			http.Error(w, "Failed to publish leaderboard", statusFor(err))
			return
		}
		w.Write([]byte("OK"))
	}
}

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg any) {
	slackMsg, ok := msg.(slack.Message)
	if !ok {
		http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
		log.Error("Failed to cast message to slack.Message")
		return
	}
	writeJSON(w, http.StatusOK, slackMsg)
}

// LeaderboardCommandHandler returns a handler for the /leaderboard Slack command.
// The text names the board ("classic" by default); "publish <board>" posts it
// to the channel instead.
func (s *Server) LeaderboardCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cmd, err := slack.SlashCommandParse(r)
		if err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		log.Info("Received leaderboard command", "user", cmd.UserName, "text", cmd.Text)

		fields := strings.Fields(strings.ToLower(cmd.Text))
		publish := len(fields) > 0 && fields[0] == "publish"
		if publish {
			fields = fields[1:]
		}
		kind := leaderboard.Classic
		if len(fields) > 0 {
			k, ok := leaderboard.ParseKind(fields[0])
			if !ok {
				msg, _ := s.Notifier.FormatNoticeResponse(fmt.Sprintf("Unknown leaderboard *%s*. Try `classic` or `ffa`.", fields[0]))
				respondWithSlackMsg(w, msg)
				return
			}
			kind = k
		}

		if publish {
			res, err := s.Processor.RequestPublish(r.Context(), kind, isDryRunFromContext(r))
			text := fmt.Sprintf("Posting the %s leaderboard (%d messages).", kind, res.Messages)
			if res.Queued {
				text = fmt.Sprintf("The %s leaderboard will be posted shortly.", kind)
			}
			if err != nil {
				log.Error("Failed to publish from slash command", "error", err)
				text = "Sorry, the leaderboard could not be posted."
			}
			msg, _ := s.Notifier.FormatNoticeResponse(text)
			respondWithSlackMsg(w, msg)
			return
		}

		res, err := s.Processor.Export(kind)
		if err != nil {
			http.Error(w, "Failed to export leaderboard", http.StatusInternalServerError)
			log.Error("Failed to export leaderboard", "error", err)
			return
		}
		msg, err := s.Notifier.FormatLeaderboardResponse(kind, res.Messages)
		if err != nil {
			http.Error(w, "Failed to format leaderboard", http.StatusInternalServerError)
			log.Error("Failed to format leaderboard", "error", err)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}
