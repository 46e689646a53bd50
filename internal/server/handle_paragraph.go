package server

import (
	"log/slog"
	"net/http"

	"github.com/keydash/keydash/internal/words"
)

// ParagraphResponse carries the reference text for a race.
type ParagraphResponse struct {
	Words []string `json:"words"`
}

// handleParagraph serves the words for the next race. Upstream provider
// failures degrade to the fixed fallback sentence instead of an error,
// so a race can always begin.
func handleParagraph(logger *slog.Logger, provider *words.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := provider.Paragraph(r.Context())
		if err != nil {
			logger.Warn("paragraph provider failed, using fallback", "error", err)
		}
		writeJSON(w, http.StatusOK, ParagraphResponse{Words: list})
	}
}
