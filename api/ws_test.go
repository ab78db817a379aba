package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialWS(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readTextFrame(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	return string(raw)
}

func readJSONFrame(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(readTextFrame(t, conn)), &m))
	return m
}

func TestWSSendsStateOnConnect(t *testing.T) {
	router := testRouter()
	srv := httptest.NewServer(router)
	defer srv.Close()

	gameID, _ := createGame(t, router)
	alice := joinGame(t, router, gameID, "alice")

	conn := dialWS(t, srv, "/ws/"+gameID+"/"+alice)
	frame := readJSONFrame(t, conn)
	assert.Equal(t, "state", frame["type"])
	assert.Equal(t, gameID, frame["id"])
	assert.Equal(t, "submissions", frame["phase"])
}

func TestWSRejectsUnknownGameAndPlayer(t *testing.T) {
	router := testRouter()
	srv := httptest.NewServer(router)
	defer srv.Close()

	conn := dialWS(t, srv, "/ws/nope/nobody")
	assert.Equal(t, "unknown game", readTextFrame(t, conn))

	gameID, _ := createGame(t, router)
	conn = dialWS(t, srv, "/ws/"+gameID+"/nobody")
	assert.Equal(t, "unknown player", readTextFrame(t, conn))
}

func TestWSActionFlowBroadcastsToAllSessions(t *testing.T) {
	router := testRouter()
	srv := httptest.NewServer(router)
	defer srv.Close()

	gameID, hostToken := createGame(t, router)
	alice := joinGame(t, router, gameID, "alice")
	bob := joinGame(t, router, gameID, "bob")
	for _, pid := range []string{alice, bob} {
		rec := submitGift(t, router, gameID, map[string]string{
			"player_id": pid, "product_url": "https://example.com/" + pid, "hint": "hint",
		})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doJSON(t, router, http.MethodPost, "/game/"+gameID+"/start?seed=1", nil,
		map[string]string{"x-host-token": hostToken})
	require.Equal(t, http.StatusOK, rec.Code)
	active := decodeBody(t, rec)["active_player"].(string)
	inactive := alice
	if active == alice {
		inactive = bob
	}

	activeConn := dialWS(t, srv, "/ws/"+gameID+"/"+active)
	inactiveConn := dialWS(t, srv, "/ws/"+gameID+"/"+inactive)
	readJSONFrame(t, activeConn)
	readJSONFrame(t, inactiveConn)

	// Out-of-turn action errors back on the sender's socket only.
	raw, err := json.Marshal(map[string]any{
		"type": "action",
		"action": map[string]any{
			"choose_gift": map[string]string{"player_id": inactive, "gift_id": "whatever"},
		},
	})
	require.NoError(t, err)
	require.NoError(t, inactiveConn.WriteMessage(websocket.TextMessage, raw))
	assert.Equal(t, "error: not your turn", readTextFrame(t, inactiveConn))

	// Garbage frames error without killing the session.
	require.NoError(t, inactiveConn.WriteMessage(websocket.TextMessage, []byte("not json")))
	assert.Equal(t, "error: invalid action", readTextFrame(t, inactiveConn))

	// Gift ids come from the lobby view.
	rec = doJSON(t, router, http.MethodGet, "/game/"+gameID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var giftID string
	for _, g := range decodeBody(t, rec)["gifts"].([]any) {
		gift := g.(map[string]any)
		if gift["submitted_by"] != active {
			giftID = gift["id"].(string)
		}
	}
	require.NotEmpty(t, giftID)

	raw, err = json.Marshal(map[string]any{
		"type": "action",
		"action": map[string]any{
			"choose_gift": map[string]string{"player_id": active, "gift_id": giftID},
		},
	})
	require.NoError(t, err)
	require.NoError(t, activeConn.WriteMessage(websocket.TextMessage, raw))

	// Both sessions receive the same state frame, then the events.
	for _, conn := range []*websocket.Conn{activeConn, inactiveConn} {
		state := readJSONFrame(t, conn)
		assert.Equal(t, "state", state["type"])

		opened := readJSONFrame(t, conn)
		assert.Equal(t, "event", opened["type"])
		event := opened["event"].(map[string]any)
		assert.Equal(t, "gift_opened", event["type"])
		assert.Equal(t, giftID, event["gift_id"])

		turn := readJSONFrame(t, conn)
		assert.Equal(t, "event", turn["type"])
		assert.Equal(t, "turn_changed", turn["event"].(map[string]any)["type"])
	}
}
