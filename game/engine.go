package game

import "errors"

// MaxStealCount caps how many times a single gift can change hands.
const MaxStealCount = 3

var (
	ErrWrongPhase          = errors.New("game not in progress")
	ErrNotPlayersTurn      = errors.New("not your turn")
	ErrGiftNotFound        = errors.New("gift not found")
	ErrPlayerNotFound      = errors.New("player not found")
	ErrGiftAlreadyOpened   = errors.New("gift already opened")
	ErrGiftUnopened        = errors.New("gift unopened")
	ErrCannotStealOwnGift  = errors.New("cannot steal your own gift")
	ErrStealLimitReached   = errors.New("gift at steal limit")
	ErrStealBackNotAllowed = errors.New("immediate steal back not allowed")
	ErrInvalidAction       = errors.New("invalid action")
)

// Apply runs one player action against the game. On success the game is
// mutated, the emitted events are appended to its history and returned in
// emission order. On error the game is untouched.
func Apply(g *Game, action Action) ([]Event, error) {
	if g.Phase != PhaseInProgress {
		return nil, ErrWrongPhase
	}

	var actor string
	switch {
	case action.ChooseGift != nil && action.StealGift == nil:
		actor = action.ChooseGift.PlayerID
	case action.StealGift != nil && action.ChooseGift == nil:
		actor = action.StealGift.PlayerID
	default:
		return nil, ErrInvalidAction
	}

	if g.ActivePlayer == "" {
		return nil, ErrInvalidAction
	}
	if g.ActivePlayer != actor {
		return nil, ErrNotPlayersTurn
	}

	var events []Event
	var err error
	if action.ChooseGift != nil {
		events, err = chooseGift(g, action.ChooseGift.PlayerID, action.ChooseGift.GiftID)
	} else {
		events, err = stealGift(g, action.StealGift.PlayerID, action.StealGift.GiftID)
	}
	if err != nil {
		return nil, err
	}

	// Finished once every gift is open and each player holds exactly one.
	if allGiftsOpened(g.Gifts) && allPlayersHoldingOne(g.Players, g.Gifts) {
		g.Phase = PhaseFinished
		events = append(events, GameFinishedEvent())
	}

	g.History = append(g.History, events...)
	return events, nil
}

func chooseGift(g *Game, playerID, giftID string) ([]Event, error) {
	idx := g.giftIndex(giftID)
	if idx < 0 {
		return nil, ErrGiftNotFound
	}
	gift := &g.Gifts[idx]
	if gift.State != GiftUnopened {
		return nil, ErrGiftAlreadyOpened
	}

	gift.State = GiftOpened
	gift.OpenedBy = playerID
	gift.HeldBy = playerID

	events := []Event{GiftOpenedEvent(playerID, giftID)}
	return advanceTurn(g, events), nil
}

func stealGift(g *Game, playerID, giftID string) ([]Event, error) {
	idx := g.giftIndex(giftID)
	if idx < 0 {
		return nil, ErrGiftNotFound
	}
	gift := &g.Gifts[idx]

	holder := gift.HeldBy
	if holder == "" {
		return nil, ErrInvalidAction
	}
	if gift.State != GiftOpened {
		return nil, ErrGiftUnopened
	}
	if holder == playerID {
		return nil, ErrCannotStealOwnGift
	}
	if gift.StolenCount >= MaxStealCount {
		return nil, ErrStealLimitReached
	}
	if immediateStealBack(g.History, playerID, holder) {
		return nil, ErrStealBackNotAllowed
	}

	gift.StolenCount++
	gift.HeldBy = playerID

	// Forced chain: the victim acts next; the scheduled turn does not advance.
	g.ActivePlayer = holder
	return []Event{
		GiftStolenEvent(holder, playerID, giftID),
		TurnChangedEvent(holder),
	}, nil
}

// advanceTurn moves to the next scheduled player, or clears the active player
// when the order is exhausted.
func advanceTurn(g *Game, events []Event) []Event {
	next := g.CurrentTurn + 1
	if next < len(g.TurnOrder) {
		g.CurrentTurn = next
		g.ActivePlayer = g.TurnOrder[next]
		return append(events, TurnChangedEvent(g.ActivePlayer))
	}
	g.ActivePlayer = ""
	return events
}

// immediateStealBack reports whether the previous action was target stealing
// this actor's gift. Every steal appends a turn_changed entry right after the
// gift_stolen one, so the scan skips bookkeeping events and judges the most
// recent gift event only.
func immediateStealBack(history []Event, actor, target string) bool {
	for i := len(history) - 1; i >= 0; i-- {
		switch history[i].Type {
		case EventTurnChanged, EventGameFinished:
			continue
		case EventGiftStolen:
			return history[i].From == actor && history[i].To == target
		default:
			return false
		}
	}
	return false
}

func allGiftsOpened(gifts []Gift) bool {
	for _, g := range gifts {
		if g.State != GiftOpened {
			return false
		}
	}
	return true
}

func allPlayersHoldingOne(players []Player, gifts []Gift) bool {
	held := make(map[string]int, len(players))
	for _, g := range gifts {
		if g.HeldBy != "" {
			held[g.HeldBy]++
		}
	}
	for _, p := range players {
		if held[p.ID] != 1 {
			return false
		}
	}
	return true
}
