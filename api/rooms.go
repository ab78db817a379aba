package api

import (
	"net/http"

	"giftExchangeServer/db"
	"giftExchangeServer/logger"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// PresenceResponse lists the players with a live session.
type PresenceResponse struct {
	GameID string   `json:"game_id"`
	Online []string `json:"online"`
}

/* =========================
   LISTING & PRESENCE
========================= */

// HandleListGames returns a summary of every game.
// GET /games
func (h *Handler) HandleListGames(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, h.reg.Games())
}

// HandleGetPresence returns which players hold a live session right now.
// Presence is best-effort: without Redis the list is empty, never an error.
// GET /game/{id}/presence
func (h *Handler) HandleGetPresence(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]
	if _, ok := h.reg.Get(gameID); !ok {
		sendError(w, http.StatusNotFound, "game not found")
		return
	}

	online, err := db.GetOnlinePlayers(r.Context(), gameID)
	if err != nil {
		logger.Get().Warn("⚠️  Failed to read presence",
			zap.String("game_id", gameID), zap.Error(err))
		online = nil
	}
	if online == nil {
		online = []string{}
	}

	sendJSON(w, http.StatusOK, PresenceResponse{GameID: gameID, Online: online})
}
