package http

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/mauv0809/tierboard/internal/board"
	"github.com/mauv0809/tierboard/internal/config"
	"github.com/mauv0809/tierboard/internal/database"
	"github.com/mauv0809/tierboard/internal/leaderboard"
	"github.com/mauv0809/tierboard/internal/metrics"
	"github.com/mauv0809/tierboard/internal/notifier"
	slacknotifier "github.com/mauv0809/tierboard/internal/notifier/slack"
	"github.com/mauv0809/tierboard/internal/processor"
	"github.com/mauv0809/tierboard/internal/pubsub"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSlackSigningSecret = "test-signing-secret"

// setupTestServer initializes a new server with an in-memory database. Chat
// posting goes to the returned mock notifier.
func setupTestServer(t *testing.T, slackSigningSecret string, ps pubsub.PubSubClient) (*Server, *notifier.Mock) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(teardown)

	store := board.New(db)
	counters := metrics.New(db)
	cfg := config.Config{Slack: config.SlackConfig{SigningSecret: slackSigningSecret}}

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)
	chat := notifier.NewMock()
	proc := processor.New(store, chat, metricsSvc, ps, processor.WithCounters(counters))
	formatter := slacknotifier.NewNotifier("", "C123", metricsSvc)

	server := NewServer(store, counters, metricsSvc, metricsHandler, cfg, formatter, proc, ps)
	return server, chat
}

func do(t *testing.T, s *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	return rr
}

// createSlackCommandRequest creates an http.Request suitable for testing Slack slash commands,
// including the necessary signature and timestamp headers for verification.
func createSlackCommandRequest(t *testing.T, targetURL string, form url.Values, signingSecret string) *http.Request {
	t.Helper()

	body := form.Encode()
	req := httptest.NewRequest(http.MethodPost, targetURL, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	timestamp := time.Now().Unix()
	req.Header.Set("X-Slack-Request-Timestamp", strconv.FormatInt(timestamp, 10))

	baseString := fmt.Sprintf("v0:%d:%s", timestamp, body)
	h := hmac.New(sha256.New, []byte(signingSecret))
	h.Write([]byte(baseString))
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(h.Sum(nil)))

	return req
}

func TestHealthCheckHandler(t *testing.T) {
	server, _ := setupTestServer(t, "", nil)

	rr := do(t, server, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")
	assert.Equal(t, "OK!", rr.Body.String(), "handler returned unexpected body")
}

func TestMetricsEndpoint(t *testing.T) {
	server, _ := setupTestServer(t, "", nil)

	do(t, server, http.MethodGet, "/api/leaderboards/classic/export", nil)
	rr := do(t, server, http.MethodGet, "/metrics", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `tierboard_exports_total{board="classic"} 1`)
}

func TestPlayerHandlers(t *testing.T) {
	server, _ := setupTestServer(t, "", nil)

	t.Run("add", func(t *testing.T) {
		rr := do(t, server, http.MethodPost, "/api/players/classic", leaderboard.Player{Name: "Big Ann", Rank: "S High"})
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		var added board.Player
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &added))
		assert.Equal(t, "Big Ann", added.Name)
		assert.Equal(t, 15.0, added.Points)

		rr = do(t, server, http.MethodPost, "/api/players/classic", leaderboard.Player{Name: "Bob", Rank: "A Mid"})
		require.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("add errors", func(t *testing.T) {
		rr := do(t, server, http.MethodPost, "/api/players/classic", leaderboard.Player{Name: "Big Ann", Rank: "A Mid"})
		assert.Equal(t, http.StatusConflict, rr.Code)

		rr = do(t, server, http.MethodPost, "/api/players/classic", leaderboard.Player{Name: "Cid", Rank: "Legend"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "invalid rank")

		rr = do(t, server, http.MethodPost, "/api/players/duel", leaderboard.Player{Name: "Cid", Rank: "A Mid"})
		assert.Equal(t, http.StatusNotFound, rr.Code)

		rr = do(t, server, http.MethodPost, "/api/players/classic", "{not json")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("dry run add writes nothing", func(t *testing.T) {
		rr := do(t, server, http.MethodPost, "/api/players/classic?dry_run=true", leaderboard.Player{Name: "Ghost", Rank: "A Mid"})
		require.Equal(t, http.StatusOK, rr.Code)

		players, err := server.Store.GetPlayers(leaderboard.Classic)
		require.NoError(t, err)
		assert.Len(t, players, 2)
	})

	t.Run("list", func(t *testing.T) {
		rr := do(t, server, http.MethodGet, "/api/players/classic", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var players []board.Player
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &players))
		require.Len(t, players, 2)
		assert.Equal(t, "Big Ann", players[0].Name)
	})

	t.Run("update keeps the name from the path", func(t *testing.T) {
		rr := do(t, server, http.MethodPut, "/api/players/classic/Bob", leaderboard.Player{Rank: "A+ High"})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var updated board.Player
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
		assert.Equal(t, "Bob", updated.Name)
		assert.Equal(t, "A+ High", updated.Rank)

		rr = do(t, server, http.MethodPut, "/api/players/classic/Nobody", leaderboard.Player{Rank: "A Mid"})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("swap", func(t *testing.T) {
		rr := do(t, server, http.MethodPost, "/api/players/classic/swap", swapRequest{Name1: "Big Ann", Name2: "Bob"})
		require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

		players, err := server.Store.GetPlayers(leaderboard.Classic)
		require.NoError(t, err)
		assert.Equal(t, "Bob", players[0].Name)

		rr = do(t, server, http.MethodPost, "/api/players/classic/swap", swapRequest{Name1: "Bob"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("remove", func(t *testing.T) {
		rr := do(t, server, http.MethodDelete, "/api/players/classic/Big%20Ann", nil)
		assert.Equal(t, http.StatusNoContent, rr.Code)

		rr = do(t, server, http.MethodDelete, "/api/players/classic/Big%20Ann", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("delete all", func(t *testing.T) {
		rr := do(t, server, http.MethodDelete, "/api/players/classic/delete-all", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"deleted":1}`, rr.Body.String())
	})
}

func TestExportAndImportHandlers(t *testing.T) {
	server, _ := setupTestServer(t, "", nil)
	text := "# 5 Stars :5_star:\n## 1 - [Ann](http://a)\n\n# 4 Stars :4_star:\n## 2 - Bob"

	t.Run("import text", func(t *testing.T) {
		rr := do(t, server, http.MethodPost, "/api/leaderboards/ffa/import", importRequest{Text: text})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var res processor.ImportResult
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
		assert.Equal(t, 2, res.Imported)
	})

	t.Run("export text round trips", func(t *testing.T) {
		rr := do(t, server, http.MethodGet, "/api/leaderboards/ffa/export?format=text", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, text, rr.Body.String())
	})

	t.Run("export json", func(t *testing.T) {
		rr := do(t, server, http.MethodGet, "/api/leaderboards/ffa/export", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var res leaderboard.Result
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
		assert.Equal(t, leaderboard.FFA, res.Kind)
		assert.Equal(t, []string{text}, res.Messages)
	})

	t.Run("history only lists publishes", func(t *testing.T) {
		history := func() []board.ExportRecord {
			rr := do(t, server, http.MethodGet, "/api/leaderboards/ffa/exports?limit=5", nil)
			require.Equal(t, http.StatusOK, rr.Code)
			var records []board.ExportRecord
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &records))
			return records
		}
		assert.Empty(t, history(), "exports above were previews")

		rr := do(t, server, http.MethodPost, "/api/leaderboards/ffa/publish", nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		records := history()
		require.Len(t, records, 1)
		assert.True(t, records[0].Published)
		assert.Equal(t, 1, records[0].Messages)
	})

	t.Run("dry run import leaves the board alone", func(t *testing.T) {
		rr := do(t, server, http.MethodPost, "/api/leaderboards/ffa/import?dry_run=true", importRequest{
			Players: []leaderboard.Player{{Name: "Zed", Stars: 1}},
		})
		require.Equal(t, http.StatusOK, rr.Code)

		players, err := server.Store.GetPlayers(leaderboard.FFA)
		require.NoError(t, err)
		assert.Len(t, players, 2)
	})

	t.Run("nothing recognised", func(t *testing.T) {
		rr := do(t, server, http.MethodPost, "/api/leaderboards/ffa/import", importRequest{Text: "just chatting"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("empty player list", func(t *testing.T) {
		rr := do(t, server, http.MethodPost, "/api/leaderboards/classic/import", importRequest{})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("overall", func(t *testing.T) {
		_, err := server.Store.AddPlayer(leaderboard.Classic, leaderboard.Player{Name: "Ann", Rank: "S Mid"})
		require.NoError(t, err)

		rr := do(t, server, http.MethodGet, "/api/leaderboards/overall/export?format=text", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "# Overall Leaderboard\n\n## 1 - Ann | :5_star: 5 Stars / :STier: S Mid", rr.Body.String())
	})

	t.Run("stats", func(t *testing.T) {
		rr := do(t, server, http.MethodGet, "/api/stats", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var counters map[string]int
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &counters))
		assert.Equal(t, 1, counters[metrics.KeyImports])
		assert.Equal(t, 2, counters[metrics.KeyPlayersImported])
	})
}

func TestPublishHandler(t *testing.T) {
	t.Run("inline", func(t *testing.T) {
		server, chat := setupTestServer(t, "", nil)
		_, err := server.Store.AddPlayer(leaderboard.FFA, leaderboard.Player{Name: "Ann", Stars: 2})
		require.NoError(t, err)

		rr := do(t, server, http.MethodPost, "/api/leaderboards/ffa/publish?dry_run=true", nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		require.Len(t, chat.SendLeaderboardCalls, 1)
		assert.True(t, chat.SendLeaderboardCalls[0].DryRun)
		assert.Equal(t, []string{"# 2 Stars :2_star:\n## 1 - Ann"}, chat.SendLeaderboardCalls[0].Messages)
	})

	t.Run("queued", func(t *testing.T) {
		ps := pubsub.NewMock()
		server, chat := setupTestServer(t, "", ps)

		rr := do(t, server, http.MethodPost, "/api/leaderboards/classic/publish", nil)
		require.Equal(t, http.StatusAccepted, rr.Code)
		assert.Len(t, ps.SendMessageCalls, 1)
		assert.Empty(t, chat.SendLeaderboardCalls)
	})

	t.Run("unknown board", func(t *testing.T) {
		server, _ := setupTestServer(t, "", nil)
		rr := do(t, server, http.MethodPost, "/api/leaderboards/duel/publish", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestPublishLeaderboardPushHandler(t *testing.T) {
	ps := pubsub.NewMock()
	server, chat := setupTestServer(t, "", ps)

	body, err := pubsub.EncodePush("sub", pubsub.PublishLeaderboardMessage{Board: "classic"})
	require.NoError(t, err)

	rr := do(t, server, http.MethodPost, "/pubsub/publish-leaderboard", string(body))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "OK", rr.Body.String())
	require.Len(t, chat.SendLeaderboardCalls, 1)
	assert.Equal(t, leaderboard.Classic, chat.SendLeaderboardCalls[0].Kind)

	rr = do(t, server, http.MethodPost, "/pubsub/publish-leaderboard", "nope")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLeaderboardCommandHandler(t *testing.T) {
	server, chat := setupTestServer(t, testSlackSigningSecret, nil)
	_, err := server.Store.AddPlayer(leaderboard.FFA, leaderboard.Player{Name: "Ann", Stars: 4.5})
	require.NoError(t, err)

	t.Run("shows the board", func(t *testing.T) {
		form := url.Values{}
		form.Set("command", "/leaderboard")
		form.Set("text", "ffa")
		req := createSlackCommandRequest(t, "/slack/command/leaderboard", form, testSlackSigningSecret)

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Contains(t, rr.Body.String(), "FFA Leaderboard")
		assert.Contains(t, rr.Body.String(), "## 1 - Ann")
		assert.Contains(t, rr.Body.String(), `"response_type":"in_channel"`)
	})

	t.Run("unknown board", func(t *testing.T) {
		form := url.Values{}
		form.Set("text", "duel")
		req := createSlackCommandRequest(t, "/slack/command/leaderboard", form, testSlackSigningSecret)

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Unknown leaderboard")
	})

	t.Run("publish", func(t *testing.T) {
		form := url.Values{}
		form.Set("text", "publish ffa")
		req := createSlackCommandRequest(t, "/slack/command/leaderboard", form, testSlackSigningSecret)

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Posting the ffa leaderboard")
		require.Len(t, chat.SendLeaderboardCalls, 1)
	})

	t.Run("bad signature", func(t *testing.T) {
		form := url.Values{}
		form.Set("text", "ffa")
		req := createSlackCommandRequest(t, "/slack/command/leaderboard", form, "wrong-secret")

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
