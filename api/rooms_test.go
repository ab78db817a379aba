package api

import (
	"encoding/json"
	"net/http"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListGamesReturnsSortedSummaries(t *testing.T) {
	router := testRouter()

	rec := doJSON(t, router, http.MethodGet, "/games", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())

	firstID, _ := createGame(t, router)
	secondID, _ := createGame(t, router)
	joinGame(t, router, firstID, "alice")
	joinGame(t, router, firstID, "bob")

	rec = doJSON(t, router, http.MethodGet, "/games", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summaries []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
	require.Len(t, summaries, 2)

	ids := []string{summaries[0]["game_id"].(string), summaries[1]["game_id"].(string)}
	assert.True(t, sort.StringsAreSorted(ids))
	assert.ElementsMatch(t, []string{firstID, secondID}, ids)

	byID := map[string]map[string]any{
		summaries[0]["game_id"].(string): summaries[0],
		summaries[1]["game_id"].(string): summaries[1],
	}
	assert.Equal(t, float64(2), byID[firstID]["player_count"])
	assert.Equal(t, float64(0), byID[secondID]["player_count"])
	assert.Equal(t, "submissions", byID[firstID]["phase"])
}

func TestPresenceEmptyWithoutRedis(t *testing.T) {
	router := testRouter()
	gameID, _ := createGame(t, router)

	rec := doJSON(t, router, http.MethodGet, "/game/"+gameID+"/presence", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, gameID, body["game_id"])
	assert.Equal(t, []any{}, body["online"])

	rec = doJSON(t, router, http.MethodGet, "/game/unknown/presence", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthReportsBackendStatus(t *testing.T) {
	router := testRouter()

	rec := doJSON(t, router, http.MethodGet, "/api/health", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)

	assert.Equal(t, true, body["success"])
	// Unit tests run without Redis or Postgres configured.
	assert.Contains(t, body["redis"], "error:")
	assert.Contains(t, body["postgres"], "error:")
}
