package ws

import (
	"sort"
	"sync"

	"giftExchangeServer/crypto"
	"giftExchangeServer/game"
	"giftExchangeServer/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Registry maps game ids to live rooms. Lookups dominate, so they take the
// read side; only creation and startup restore take the write side.
type Registry struct {
	mu      sync.RWMutex
	rooms   map[string]*Room
	persist func()
}

// NewRegistry builds an empty registry. persist is handed to every room it
// creates; nil disables persistence.
func NewRegistry(persist func()) *Registry {
	return &Registry{
		rooms:   make(map[string]*Room),
		persist: persist,
	}
}

// CreateGame mints a fresh submissions-phase game with its room and host
// token.
func (reg *Registry) CreateGame() (gameID, hostToken string) {
	gameID = uuid.NewString()
	hostToken = crypto.GenerateHostToken()

	room := NewRoom(game.NewGame(gameID, hostToken), reg.persist)

	reg.mu.Lock()
	reg.rooms[gameID] = room
	reg.mu.Unlock()

	if reg.persist != nil {
		reg.persist()
	}
	logger.Get().Info("🆕 Game created", zap.String("game_id", gameID))
	return gameID, hostToken
}

// Get returns the room for a game id.
func (reg *Registry) Get(gameID string) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	room, ok := reg.rooms[gameID]
	return room, ok
}

// Restore installs rooms for games loaded from the snapshot store.
func (reg *Registry) Restore(games map[string]*game.Game) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	for id, g := range games {
		reg.rooms[id] = NewRoom(g, reg.persist)
	}
}

// Snapshot returns a deep copy of every game: ids collected under the read
// lock, records cloned under each room's own lock.
func (reg *Registry) Snapshot() map[string]*game.Game {
	reg.mu.RLock()
	rooms := make(map[string]*Room, len(reg.rooms))
	for id, room := range reg.rooms {
		rooms[id] = room
	}
	reg.mu.RUnlock()

	games := make(map[string]*game.Game, len(rooms))
	for id, room := range rooms {
		games[id] = room.CloneGame()
	}
	return games
}

// Summary is one row of the public game listing.
type Summary struct {
	GameID      string     `json:"game_id"`
	Phase       game.Phase `json:"phase"`
	PlayerCount int        `json:"player_count"`
	GiftCount   int        `json:"gift_count"`
}

// Games lists every game, ordered by game id for stable output.
func (reg *Registry) Games() []Summary {
	reg.mu.RLock()
	rooms := make([]*Room, 0, len(reg.rooms))
	for _, room := range reg.rooms {
		rooms = append(rooms, room)
	}
	reg.mu.RUnlock()

	out := make([]Summary, 0, len(rooms))
	for _, room := range rooms {
		v := room.View()
		out = append(out, Summary{
			GameID:      v.ID,
			Phase:       v.Phase,
			PlayerCount: len(v.Players),
			GiftCount:   len(v.Gifts),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GameID < out[j].GameID })
	return out
}
