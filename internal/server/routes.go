package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, opts Options) {
	broker := NewBroker()
	registry := NewRegistry(logger, opts.Store, broker, opts.LeaderboardLimit)

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Keydash API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, opts.DB))

	// Realtime race channel.
	r.Get("/ws", handleWS(logger, registry, broker))

	r.Get("/api/paragraphs", handleParagraph(logger, opts.Words))
	r.Get("/api/leaderboard", handleLeaderboard(logger, opts.Store, opts.LeaderboardLimit))
	r.Get("/api/stats", handleStats(logger, opts.Store))

	if opts.SPADir != "" {
		if info, err := os.Stat(opts.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", opts.SPADir)
			r.NotFound(handleSPA(opts.SPADir))
		}
	}
}
