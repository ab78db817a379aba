package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"giftExchangeServer/crypto"
	"giftExchangeServer/game"
	"giftExchangeServer/ws"

	"github.com/gorilla/mux"
)

/* =========================
   REQUEST/RESPONSE TYPES
========================= */

// CreateGameResponse carries the new game's id and its host credential.
type CreateGameResponse struct {
	GameID    string `json:"game_id"`
	HostToken string `json:"host_token"`
}

// JoinRequest is the join body.
type JoinRequest struct {
	Name string `json:"name"`
}

// JoinResponse carries the minted player id.
type JoinResponse struct {
	PlayerID string `json:"player_id"`
}

// GiftRequest is the gift submission body.
type GiftRequest struct {
	PlayerID   string `json:"player_id"`
	ProductURL string `json:"product_url"`
	Hint       string `json:"hint"`
	ImageURL   string `json:"image_url,omitempty"`
	Title      string `json:"title,omitempty"`
}

// GiftResponse wraps the stored gift record.
type GiftResponse struct {
	Gift game.Gift `json:"gift"`
}

// ErrorResponse is the error envelope shared by every endpoint.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

/* =========================
   HANDLER & ROUTES
========================= */

// Handler serves the admin API for one registry.
type Handler struct {
	reg           *ws.Registry
	adminPassword string
}

// NewHandler wires the registry and the shared admin secret.
func NewHandler(reg *ws.Registry, adminPassword string) *Handler {
	return &Handler{reg: reg, adminPassword: adminPassword}
}

// Routes mounts every endpoint on a fresh router.
func (h *Handler) Routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/game", h.HandleCreateGame).Methods(http.MethodPost)
	r.HandleFunc("/games", h.HandleListGames).Methods(http.MethodGet)
	r.HandleFunc("/game/{id}/join", h.HandleJoinGame).Methods(http.MethodPost)
	r.HandleFunc("/game/{id}/gift", h.HandleSubmitGift).Methods(http.MethodPost)
	r.HandleFunc("/game/{id}/start", h.HandleStartGame).Methods(http.MethodPost)
	r.HandleFunc("/game/{id}/presence", h.HandleGetPresence).Methods(http.MethodGet)
	r.HandleFunc("/game/{id}", h.HandleGetGame).Methods(http.MethodGet)
	r.HandleFunc("/ws/{id}/{player_id}", ws.ServeWS(h.reg)).Methods(http.MethodGet)
	r.HandleFunc("/api/health", h.HandleHealthCheck).Methods(http.MethodGet)
	return r
}

/* =========================
   GAME ENDPOINTS
========================= */

// HandleCreateGame mints a new game room.
// POST /game
func (h *Handler) HandleCreateGame(w http.ResponseWriter, r *http.Request) {
	password := r.Header.Get("x-admin-password")
	if !crypto.VerifySecret(password, h.adminPassword) {
		sendError(w, http.StatusUnauthorized, "invalid admin password")
		return
	}

	gameID, hostToken := h.reg.CreateGame()

	sendJSON(w, http.StatusCreated, CreateGameResponse{
		GameID:    gameID,
		HostToken: hostToken,
	})
}

// HandleJoinGame adds a player to a game.
// POST /game/{id}/join
func (h *Handler) HandleJoinGame(w http.ResponseWriter, r *http.Request) {
	var req JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		sendError(w, http.StatusBadRequest, "name required")
		return
	}

	room, ok := h.reg.Get(mux.Vars(r)["id"])
	if !ok {
		sendError(w, http.StatusNotFound, "game not found")
		return
	}

	player, err := room.Join(name)
	if err != nil {
		sendError(w, ws.Status(err), err.Error())
		return
	}

	sendJSON(w, http.StatusOK, JoinResponse{PlayerID: player.ID})
}

// HandleSubmitGift records or updates a player's gift.
// POST /game/{id}/gift
func (h *Handler) HandleSubmitGift(w http.ResponseWriter, r *http.Request) {
	var req GiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	room, ok := h.reg.Get(mux.Vars(r)["id"])
	if !ok {
		sendError(w, http.StatusNotFound, "game not found")
		return
	}

	gift, err := room.SubmitGift(ws.GiftSubmission{
		PlayerID:   req.PlayerID,
		ProductURL: req.ProductURL,
		Hint:       req.Hint,
		ImageURL:   req.ImageURL,
		Title:      req.Title,
	})
	if err != nil {
		sendError(w, ws.Status(err), err.Error())
		return
	}

	sendJSON(w, http.StatusOK, GiftResponse{Gift: gift})
}

// HandleStartGame shuffles the turn order and opens play.
// POST /game/{id}/start?seed=12345
func (h *Handler) HandleStartGame(w http.ResponseWriter, r *http.Request) {
	var seed *uint64
	if raw := r.URL.Query().Get("seed"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			sendError(w, http.StatusBadRequest, "invalid seed")
			return
		}
		seed = &parsed
	}

	room, ok := h.reg.Get(mux.Vars(r)["id"])
	if !ok {
		sendError(w, http.StatusNotFound, "game not found")
		return
	}

	result, err := room.Start(r.Header.Get("x-host-token"), seed)
	if err != nil {
		sendError(w, ws.Status(err), err.Error())
		return
	}

	sendJSON(w, http.StatusOK, result)
}

// HandleGetGame returns the public view of one game.
// GET /game/{id}
func (h *Handler) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	room, ok := h.reg.Get(mux.Vars(r)["id"])
	if !ok {
		sendError(w, http.StatusNotFound, "game not found")
		return
	}
	sendJSON(w, http.StatusOK, room.View())
}

/* =========================
   HELPER FUNCTIONS
========================= */

// sendError sends an error response
func sendError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Success: false,
		Error:   message,
	})
}

// sendJSON sends a JSON body with the given status
func sendJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}
