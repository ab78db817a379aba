package ws

import (
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"giftExchangeServer/config"
	"giftExchangeServer/crypto"
	"giftExchangeServer/game"
	"giftExchangeServer/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Room owns one game. A single mutex serializes actions, admin mutations and
// subscriber changes, so every subscriber observes broadcast frames in the
// exact order the engine produced them.
type Room struct {
	mu      sync.Mutex
	game    *game.Game
	subs    map[int64]chan []byte
	nextSub int64
	persist func()
	log     *zap.Logger
}

// NewRoom wraps g. persist fires after every successful mutation; nil
// disables persistence.
func NewRoom(g *game.Game, persist func()) *Room {
	return &Room{
		game:    g,
		subs:    make(map[int64]chan []byte),
		persist: persist,
		log:     logger.WithGame(g.ID),
	}
}

// Subscription is one registered broadcast listener.
type Subscription struct {
	ID int64
	Ch <-chan []byte
}

// Subscribe registers a listener and returns the current view from the same
// critical section, so no broadcast can slip between snapshot and
// registration.
func (r *Room) Subscribe() (game.View, Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextSub++
	ch := make(chan []byte, config.BroadcastBuffer)
	r.subs[r.nextSub] = ch
	return r.game.View(), Subscription{ID: r.nextSub, Ch: ch}
}

// Unsubscribe drops a listener and closes its channel, which ends the
// session's write pump.
func (r *Room) Unsubscribe(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ch, ok := r.subs[id]; ok {
		delete(r.subs, id)
		close(ch)
	}
}

// SubmitAction applies one player action and broadcasts the outcome: a state
// frame, then one event frame per emitted event.
func (r *Room) SubmitAction(playerID string, action game.Action) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.game.Phase != game.PhaseInProgress {
		return game.ErrWrongPhase
	}
	if !r.game.HasPlayer(playerID) {
		return game.ErrPlayerNotFound
	}

	events, err := game.Apply(r.game, action)
	if err != nil {
		return err
	}

	r.broadcastUpdate(events)
	r.requestPersist()
	r.log.Info("🎮 Action applied",
		zap.String("player_id", playerID), zap.Int("events", len(events)))
	return nil
}

// Join appends a new player. The name must arrive trimmed and non-empty;
// uniqueness is enforced here.
func (r *Room) Join(name string) (game.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.game.HasPlayerNamed(name) {
		return game.Player{}, errNameTaken
	}

	p := game.Player{
		ID:       uuid.NewString(),
		Name:     name,
		JoinedAt: time.Now().UnixMilli(),
	}
	r.game.Players = append(r.game.Players, p)

	r.requestPersist()
	r.log.Info("🙋 Player joined",
		zap.String("player_id", p.ID), zap.String("name", name))
	return p, nil
}

// GiftSubmission is the payload of a gift upsert.
type GiftSubmission struct {
	PlayerID   string
	ProductURL string
	Hint       string
	ImageURL   string
	Title      string
}

// SubmitGift creates or updates the player's gift while submissions are
// open. Resubmitting keeps the gift id and overwrites the descriptive
// fields.
func (r *Room) SubmitGift(sub GiftSubmission) (game.Gift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.game.Phase != game.PhaseSubmissions {
		return game.Gift{}, errSubmissionsClosed
	}
	if strings.TrimSpace(sub.ProductURL) == "" || strings.TrimSpace(sub.Hint) == "" {
		return game.Gift{}, errGiftFieldsRequired
	}
	if !r.game.HasPlayer(sub.PlayerID) {
		return game.Gift{}, errPlayerNotFound
	}

	var gift game.Gift
	if existing := r.game.GiftBySubmitter(sub.PlayerID); existing != nil {
		existing.ProductURL = sub.ProductURL
		existing.Hint = sub.Hint
		existing.ImageURL = sub.ImageURL
		existing.Title = sub.Title
		gift = *existing
	} else {
		gift = game.Gift{
			ID:          uuid.NewString(),
			SubmittedBy: sub.PlayerID,
			ProductURL:  sub.ProductURL,
			Hint:        sub.Hint,
			ImageURL:    sub.ImageURL,
			Title:       sub.Title,
			State:       game.GiftUnopened,
		}
		r.game.Gifts = append(r.game.Gifts, gift)
	}

	r.requestPersist()
	r.log.Info("🎁 Gift submitted",
		zap.String("player_id", sub.PlayerID), zap.String("gift_id", gift.ID))
	return gift, nil
}

// StartResult mirrors the start response body.
type StartResult struct {
	Phase        game.Phase `json:"phase"`
	TurnOrder    []string   `json:"turn_order"`
	ActivePlayer string     `json:"active_player,omitempty"`
}

// Start moves the game into play: shuffled turn order, reset gifts, cleared
// history. A caller-supplied seed reproduces the same order on every run;
// without one the order comes from OS entropy.
func (r *Room) Start(hostToken string, seed *uint64) (StartResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if hostToken == "" {
		return StartResult{}, errHostTokenRequired
	}
	if !crypto.VerifySecret(hostToken, r.game.HostToken) {
		return StartResult{}, errInvalidHostToken
	}
	if r.game.Phase != game.PhaseSubmissions {
		return StartResult{}, errAlreadyStarted
	}
	if len(r.game.Players) == 0 {
		return StartResult{}, errNoPlayers
	}
	for _, p := range r.game.Players {
		if r.game.GiftBySubmitter(p.ID) == nil {
			return StartResult{}, errGiftsMissing
		}
	}

	order := make([]string, len(r.game.Players))
	for i, p := range r.game.Players {
		order[i] = p.ID
	}
	var rng *rand.Rand
	if seed != nil {
		rng = game.NewSeededRNG(*seed)
	} else {
		rng = game.NewEntropyRNG()
	}
	game.ShuffleIDs(order, rng)

	for i := range r.game.Gifts {
		gift := &r.game.Gifts[i]
		gift.State = game.GiftUnopened
		gift.OpenedBy = ""
		gift.HeldBy = ""
		gift.StolenCount = 0
	}

	r.game.Phase = game.PhaseInProgress
	r.game.TurnOrder = order
	r.game.CurrentTurn = 0
	r.game.ActivePlayer = order[0]
	r.game.History = []game.Event{}

	r.requestPersist()
	r.log.Info("🚀 Game started", zap.Strings("turn_order", order))

	return StartResult{
		Phase:        r.game.Phase,
		TurnOrder:    append([]string(nil), order...),
		ActivePlayer: r.game.ActivePlayer,
	}, nil
}

// View returns the public projection.
func (r *Room) View() game.View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.View()
}

// HasPlayer reports membership by player id.
func (r *Room) HasPlayer(playerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.HasPlayer(playerID)
}

// CloneGame returns a deep copy of the full record for the persister.
func (r *Room) CloneGame() *game.Game {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.Clone()
}

// broadcastUpdate publishes the post-action state frame followed by each
// event frame. Caller holds the lock.
func (r *Room) broadcastUpdate(events []game.Event) {
	stateBytes, err := marshalState(r.game.View())
	if err != nil {
		r.log.Error("❌ Failed to marshal state frame", zap.Error(err))
		return
	}
	r.publish(stateBytes)

	for _, ev := range events {
		eventBytes, err := marshalEvent(ev)
		if err != nil {
			r.log.Error("❌ Failed to marshal event frame", zap.Error(err))
			continue
		}
		r.publish(eventBytes)
	}
}

// publish fans one frame out without ever blocking the action pipeline. A
// subscriber whose buffer is full misses the frame; reconnecting yields a
// fresh snapshot. Caller holds the lock.
func (r *Room) publish(frame []byte) {
	for id, ch := range r.subs {
		select {
		case ch <- frame:
		default:
			r.log.Warn("⚠️  Subscriber buffer full, dropping frame",
				zap.Int64("subscriber", id))
		}
	}
}

func (r *Room) requestPersist() {
	if r.persist != nil {
		r.persist()
	}
}
