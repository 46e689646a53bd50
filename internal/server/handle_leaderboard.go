package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/keydash/keydash/internal/race"
)

// LeaderboardResponse is the global top-N standings.
type LeaderboardResponse struct {
	Players []race.LeaderboardEntry `json:"players"`
}

// StatsResponse aggregates the public counters shown on the landing
// page. AverageWPM is null until at least one race has been recorded.
type StatsResponse struct {
	PlayerCount int      `json:"playerCount"`
	AverageWPM  *float64 `json:"averageWPM"`
}

func handleLeaderboard(logger *slog.Logger, store LeaderboardStore, defaultLimit int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > 100 {
				writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
				return
			}
			limit = n
		}

		players, err := store.TopPlayers(r.Context(), limit)
		if err != nil {
			logger.Error("loading leaderboard failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if players == nil {
			players = []race.LeaderboardEntry{}
		}
		writeJSON(w, http.StatusOK, LeaderboardResponse{Players: players})
	}
}

func handleStats(logger *slog.Logger, store LeaderboardStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := store.PlayerCount(r.Context())
		if err != nil {
			logger.Error("counting players failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp := StatsResponse{PlayerCount: count}
		avg, err := store.AverageSpeed(r.Context())
		switch {
		case err == nil:
			resp.AverageWPM = &avg
		case !errors.Is(err, ErrNotFound):
			logger.Error("averaging speed failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
