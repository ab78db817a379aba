package game

// ============================================
// PHASES & GIFT STATES
// ============================================

// Phase is the lifecycle stage of a game.
type Phase string

const (
	// PhaseLobby is reserved in the wire format; games are created directly
	// in PhaseSubmissions and never pass through it.
	PhaseLobby       Phase = "lobby"
	PhaseSubmissions Phase = "submissions"
	PhaseInProgress  Phase = "in_progress"
	PhaseFinished    Phase = "finished"
)

// GiftState tracks whether a gift has been unwrapped yet.
type GiftState string

const (
	GiftUnopened GiftState = "unopened"
	GiftOpened   GiftState = "opened"
)

// ============================================
// CORE RECORDS
// ============================================

// Player is a participant in one game. JoinedAt is unix milliseconds and
// advisory only.
type Player struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	JoinedAt int64  `json:"joined_at"`
}

// Gift is one submitted present. HeldBy/OpenedBy are empty until the gift is
// opened; StolenCount never exceeds MaxStealCount.
type Gift struct {
	ID          string    `json:"id"`
	SubmittedBy string    `json:"submitted_by"`
	ProductURL  string    `json:"product_url"`
	Hint        string    `json:"hint"`
	ImageURL    string    `json:"image_url,omitempty"`
	Title       string    `json:"title,omitempty"`
	OpenedBy    string    `json:"opened_by,omitempty"`
	HeldBy      string    `json:"held_by,omitempty"`
	StolenCount int       `json:"stolen_count"`
	State       GiftState `json:"state"`
}

// ============================================
// EVENTS
// ============================================

// EventType names the things that can happen during a round.
type EventType string

const (
	EventGiftOpened   EventType = "gift_opened"
	EventGiftStolen   EventType = "gift_stolen"
	EventTurnChanged  EventType = "turn_changed"
	EventGameFinished EventType = "game_finished"
)

// Event is one entry of a game's history. Payload fields are populated
// per type: gift_opened uses PlayerID+GiftID, gift_stolen uses From+To+GiftID,
// turn_changed uses PlayerID, game_finished carries nothing.
type Event struct {
	Type     EventType `json:"type"`
	PlayerID string    `json:"player_id,omitempty"`
	GiftID   string    `json:"gift_id,omitempty"`
	From     string    `json:"from,omitempty"`
	To       string    `json:"to,omitempty"`
}

func GiftOpenedEvent(playerID, giftID string) Event {
	return Event{Type: EventGiftOpened, PlayerID: playerID, GiftID: giftID}
}

func GiftStolenEvent(from, to, giftID string) Event {
	return Event{Type: EventGiftStolen, From: from, To: to, GiftID: giftID}
}

func TurnChangedEvent(playerID string) Event {
	return Event{Type: EventTurnChanged, PlayerID: playerID}
}

func GameFinishedEvent() Event {
	return Event{Type: EventGameFinished}
}

// ============================================
// ACTIONS
// ============================================

// ActionTarget identifies who acts on which gift.
type ActionTarget struct {
	PlayerID string `json:"player_id"`
	GiftID   string `json:"gift_id"`
}

// Action is a player's move. Exactly one branch must be set.
type Action struct {
	ChooseGift *ActionTarget `json:"choose_gift,omitempty"`
	StealGift  *ActionTarget `json:"steal_gift,omitempty"`
}

// ============================================
// GAME
// ============================================

// Game is the full state of one exchange, including the fields that never
// leave the server (HostToken, History, CurrentTurn).
type Game struct {
	ID           string   `json:"id"`
	HostToken    string   `json:"host_token"`
	Players      []Player `json:"players"`
	Gifts        []Gift   `json:"gifts"`
	Phase        Phase    `json:"phase"`
	TurnOrder    []string `json:"turn_order"`
	CurrentTurn  int      `json:"current_turn"`
	ActivePlayer string   `json:"active_player,omitempty"`
	History      []Event  `json:"history"`
}

// NewGame returns an empty game in the submissions phase. Slices are
// allocated so the record serializes with [] rather than null.
func NewGame(id, hostToken string) *Game {
	return &Game{
		ID:        id,
		HostToken: hostToken,
		Players:   []Player{},
		Gifts:     []Gift{},
		Phase:     PhaseSubmissions,
		TurnOrder: []string{},
		History:   []Event{},
	}
}

// HasPlayer reports membership by player id.
func (g *Game) HasPlayer(playerID string) bool {
	for _, p := range g.Players {
		if p.ID == playerID {
			return true
		}
	}
	return false
}

// HasPlayerNamed reports whether any player already uses name.
func (g *Game) HasPlayerNamed(name string) bool {
	for _, p := range g.Players {
		if p.Name == name {
			return true
		}
	}
	return false
}

// GiftBySubmitter returns the gift a player submitted, or nil.
func (g *Game) GiftBySubmitter(playerID string) *Gift {
	for i := range g.Gifts {
		if g.Gifts[i].SubmittedBy == playerID {
			return &g.Gifts[i]
		}
	}
	return nil
}

func (g *Game) giftIndex(giftID string) int {
	for i := range g.Gifts {
		if g.Gifts[i].ID == giftID {
			return i
		}
	}
	return -1
}

// Clone returns an independent deep copy of the game.
func (g *Game) Clone() *Game {
	dup := *g
	dup.Players = make([]Player, len(g.Players))
	copy(dup.Players, g.Players)
	dup.Gifts = make([]Gift, len(g.Gifts))
	copy(dup.Gifts, g.Gifts)
	dup.TurnOrder = make([]string, len(g.TurnOrder))
	copy(dup.TurnOrder, g.TurnOrder)
	dup.History = make([]Event, len(g.History))
	copy(dup.History, g.History)
	return &dup
}

// ============================================
// PUBLIC VIEW
// ============================================

// View is the projection of a Game that clients may see. HostToken, History
// and CurrentTurn stay server-side.
type View struct {
	ID           string   `json:"id"`
	Phase        Phase    `json:"phase"`
	Players      []Player `json:"players"`
	Gifts        []Gift   `json:"gifts"`
	TurnOrder    []string `json:"turn_order"`
	ActivePlayer string   `json:"active_player,omitempty"`
}

// View builds the client-facing projection with copied slices, so callers can
// hold it outside any lock.
func (g *Game) View() View {
	players := make([]Player, len(g.Players))
	copy(players, g.Players)
	gifts := make([]Gift, len(g.Gifts))
	copy(gifts, g.Gifts)
	order := make([]string, len(g.TurnOrder))
	copy(order, g.TurnOrder)
	return View{
		ID:           g.ID,
		Phase:        g.Phase,
		Players:      players,
		Gifts:        gifts,
		TurnOrder:    order,
		ActivePlayer: g.ActivePlayer,
	}
}
