package ws

import (
	"sort"
	"testing"

	"giftExchangeServer/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGameInstallsRoom(t *testing.T) {
	reg := NewRegistry(nil)

	gameID, hostToken := reg.CreateGame()
	assert.NotEmpty(t, gameID)
	assert.Len(t, hostToken, 64, "host token is 32 random bytes hex-encoded")

	room, ok := reg.Get(gameID)
	require.True(t, ok)
	view := room.View()
	assert.Equal(t, gameID, view.ID)
	assert.Equal(t, game.PhaseSubmissions, view.Phase)
	assert.Empty(t, view.Players)
}

func TestGetUnknownGame(t *testing.T) {
	reg := NewRegistry(nil)
	_, ok := reg.Get("missing")
	assert.False(t, ok)
}

func TestCreateGameWiresPersistIntoRoom(t *testing.T) {
	calls := 0
	reg := NewRegistry(func() { calls++ })

	gameID, _ := reg.CreateGame()
	assert.Equal(t, 1, calls, "creation itself persists")

	room, ok := reg.Get(gameID)
	require.True(t, ok)
	_, err := room.Join("Ada")
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "room mutations reuse the injected trigger")
}

func TestRestoreInstallsLoadedGames(t *testing.T) {
	loaded := map[string]*game.Game{
		"g-a": game.NewGame("g-a", "token-a"),
		"g-b": game.NewGame("g-b", "token-b"),
	}
	loaded["g-b"].Players = []game.Player{{ID: "p1", Name: "Ada", JoinedAt: 1}}

	reg := NewRegistry(nil)
	reg.Restore(loaded)

	room, ok := reg.Get("g-b")
	require.True(t, ok)
	view := room.View()
	require.Len(t, view.Players, 1)
	assert.Equal(t, "Ada", view.Players[0].Name)
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	reg := NewRegistry(nil)
	gameID, _ := reg.CreateGame()
	room, _ := reg.Get(gameID)
	_, err := room.Join("Ada")
	require.NoError(t, err)

	snap := reg.Snapshot()
	require.Len(t, snap, 1)
	require.Len(t, snap[gameID].Players, 1)

	_, err = room.Join("Joan")
	require.NoError(t, err)

	assert.Len(t, snap[gameID].Players, 1, "snapshot is isolated from later mutations")
}

func TestGamesListsSortedSummaries(t *testing.T) {
	reg := NewRegistry(nil)
	firstID, _ := reg.CreateGame()
	secondID, _ := reg.CreateGame()

	room, _ := reg.Get(firstID)
	p, err := room.Join("Ada")
	require.NoError(t, err)
	_, err = room.SubmitGift(GiftSubmission{PlayerID: p.ID, ProductURL: "u", Hint: "h"})
	require.NoError(t, err)

	games := reg.Games()
	require.Len(t, games, 2)

	wantOrder := []string{firstID, secondID}
	sort.Strings(wantOrder)
	assert.Equal(t, wantOrder[0], games[0].GameID)
	assert.Equal(t, wantOrder[1], games[1].GameID)

	for _, s := range games {
		switch s.GameID {
		case firstID:
			assert.Equal(t, 1, s.PlayerCount)
			assert.Equal(t, 1, s.GiftCount)
		case secondID:
			assert.Equal(t, 0, s.PlayerCount)
			assert.Equal(t, 0, s.GiftCount)
		}
		assert.Equal(t, game.PhaseSubmissions, s.Phase)
	}
}
