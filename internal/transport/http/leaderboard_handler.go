package http

import (
	"encoding/json"
	"net/http"

	"calquiz-service/internal/app"
	"go.uber.org/zap"
)

// LeaderboardHandler serves the local high-score list as JSON.
type LeaderboardHandler struct {
	service *app.GameService
	log     *zap.Logger
}

func NewLeaderboardHandler(service *app.GameService, log *zap.Logger) *LeaderboardHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &LeaderboardHandler{service: service, log: log}
}

func (h *LeaderboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	records, err := h.service.Leaderboard(r.Context())
	if err != nil {
		h.log.Error("load leaderboard", zap.Error(err))
		http.Error(w, "leaderboard unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(records); err != nil {
		h.log.Debug("write leaderboard", zap.Error(err))
	}
}

// NewMux wires the game endpoints.
func NewMux(service *app.GameService, log *zap.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", NewWSHandler(service, log).ServeWS)
	mux.Handle("/leaderboard", NewLeaderboardHandler(service, log))
	return mux
}
