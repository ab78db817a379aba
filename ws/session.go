package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"giftExchangeServer/config"
	"giftExchangeServer/db"
	"giftExchangeServer/logger"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  config.WSReadBufferSize,
	WriteBufferSize: config.WSWriteBufferSize,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// session is one live socket. writeMu guards the connection because both the
// broadcast pump and the read loop's error frames write to it.
type session struct {
	conn     *websocket.Conn
	writeMu  sync.Mutex
	room     *Room
	gameID   string
	playerID string
	log      *zap.Logger
}

// ServeWS returns the handler for GET /ws/{id}/{player_id}. The path names
// the session; there is no further authentication.
func ServeWS(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		gameID := vars["id"]
		playerID := vars["player_id"]

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Get().Warn("❌ WebSocket upgrade failed", zap.Error(err))
			return
		}

		s := &session{
			conn:     conn,
			gameID:   gameID,
			playerID: playerID,
			log:      logger.WithGamePlayer(gameID, playerID),
		}

		room, ok := reg.Get(gameID)
		if !ok {
			s.reject("unknown game")
			return
		}
		if !room.HasPlayer(playerID) {
			s.reject("unknown player")
			return
		}
		s.room = room

		s.run()
	}
}

// reject answers with a single text frame and closes; the session never
// subscribes.
func (s *session) reject(reason string) {
	_ = s.writeText([]byte(reason))
	s.conn.Close()
	s.log.Warn("⚠️  Session rejected", zap.String("reason", reason))
}

func (s *session) writeText(frame []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, frame)
}

// run drives the session to completion: presence, snapshot, write pump,
// read loop.
func (s *session) run() {
	defer s.conn.Close()

	ctx := context.Background()
	if err := db.AddOnlinePlayer(ctx, s.gameID, s.playerID); err != nil {
		s.log.Warn("⚠️  Failed to mark player online", zap.Error(err))
	}
	defer func() {
		if err := db.RemoveOnlinePlayer(ctx, s.gameID, s.playerID); err != nil {
			s.log.Warn("⚠️  Failed to mark player offline", zap.Error(err))
		}
	}()

	view, sub := s.room.Subscribe()
	defer s.room.Unsubscribe(sub.ID)

	stateBytes, err := marshalState(view)
	if err != nil {
		s.log.Error("❌ Failed to marshal initial state", zap.Error(err))
		return
	}
	if err := s.writeText(stateBytes); err != nil {
		return
	}

	s.log.Info("✅ Player connected")
	defer s.log.Info("👋 Player disconnected")

	go s.writePump(sub.Ch)
	s.readLoop()
}

// writePump forwards broadcast frames until the subscription channel closes
// or a write fails. Closing the connection on exit unblocks the read loop.
func (s *session) writePump(ch <-chan []byte) {
	defer s.conn.Close()
	for frame := range ch {
		if err := s.writeText(frame); err != nil {
			return
		}
	}
}

// readLoop decodes inbound action frames and submits them to the room.
// Failures are answered on this socket only, never broadcast.
func (s *session) readLoop() {
	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				s.log.Warn("❌ Read error", zap.Error(err))
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil || msg.Type != "action" || msg.Action == nil {
			_ = s.writeText([]byte("error: invalid action"))
			continue
		}

		if err := s.room.SubmitAction(s.playerID, *msg.Action); err != nil {
			_ = s.writeText([]byte("error: " + err.Error()))
		}
	}
}
