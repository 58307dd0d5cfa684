package api

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// wsReply mirrors WSResponse with the payload left undecoded.
type wsReply struct {
	Type    string          `json:"type"`
	ID      string          `json:"id"`
	Payload json.RawMessage `json:"payload"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

func dial(t *testing.T) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(testServer().Handler())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, typ, id string, payload any) {
	t.Helper()
	msg := map[string]any{"type": typ, "id": id}
	if payload != nil {
		msg["payload"] = payload
	}
	require.NoError(t, conn.WriteJSON(msg))
}

func receive(t *testing.T, conn *websocket.Conn) wsReply {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(30*time.Second)))
	var r wsReply
	require.NoError(t, conn.ReadJSON(&r))
	return r
}

func TestWebSocketPing(t *testing.T) {
	conn := dial(t)
	send(t, conn, "ping", "p1", nil)
	r := receive(t, conn)
	require.Equal(t, "pong", r.Type)
	require.Equal(t, "p1", r.ID)
}

func TestWebSocketEvaluateAndMove(t *testing.T) {
	conn := dial(t)

	send(t, conn, "evaluate", "e1", EvaluateRequest{Position: startID, Player: "o"})
	r := receive(t, conn)
	require.Equal(t, "result", r.Type)
	require.Equal(t, "e1", r.ID)
	var eval EvaluateResponse
	require.NoError(t, json.Unmarshal(r.Payload, &eval))
	require.Equal(t, "o", eval.Player)
	require.NotNil(t, eval.Score)

	send(t, conn, "move", "m1", MoveRequest{Position: startID, Dice: [2]int{5, 2}, Agent: "capture"})
	r = receive(t, conn)
	require.Equal(t, "result", r.Type)
	var mv MoveResponse
	require.NoError(t, json.Unmarshal(r.Payload, &mv))
	require.Equal(t, "Eater", mv.Agent)
	require.Contains(t, mv.Legal, mv.Move)
}

func TestWebSocketMatchStreamsTurns(t *testing.T) {
	conn := dial(t)
	send(t, conn, "match", "g1", MatchRequest{X: "random", O: "capture", Seed: 2})

	turns := 0
	for {
		r := receive(t, conn)
		require.Equal(t, "g1", r.ID)
		if r.Type == "result" {
			var game GameResponse
			require.NoError(t, json.Unmarshal(r.Payload, &game))
			require.Equal(t, turns, game.Turns)
			require.Contains(t, []string{"x", "o"}, game.Winner)
			return
		}
		require.Equal(t, "turn", r.Type, r.Error)
		turns++
	}
}

func TestWebSocketMatchSeries(t *testing.T) {
	conn := dial(t)
	send(t, conn, "match", "s1", MatchRequest{X: "block", O: "random", Games: 3, Seed: 5})

	seen := map[int]bool{}
	for {
		r := receive(t, conn)
		if r.Type == "result" {
			var sum MatchResponse
			require.NoError(t, json.Unmarshal(r.Payload, &sum))
			require.Equal(t, 3, sum.Games)
			require.Equal(t, 3, sum.WinsX+sum.WinsO)
			break
		}
		require.Equal(t, "game", r.Type, r.Error)
		var g GameResponse
		require.NoError(t, json.Unmarshal(r.Payload, &g))
		seen[g.Index] = true
	}
	require.Len(t, seen, 3)
}

func TestWebSocketErrors(t *testing.T) {
	conn := dial(t)
	tests := []struct {
		typ     string
		payload any
		code    string
	}{
		{"dance", nil, "UNKNOWN_TYPE"},
		{"evaluate", "not an object", "INVALID_JSON"},
		{"evaluate", EvaluateRequest{Position: "bad"}, "INVALID_POSITION"},
		{"move", MoveRequest{Position: startID, Dice: [2]int{9, 9}}, "INVALID_DICE"},
		{"match", MatchRequest{Games: -2}, "INVALID_GAMES"},
	}
	for i, tt := range tests {
		id := tt.typ + string(rune('a'+i))
		send(t, conn, tt.typ, id, tt.payload)
		r := receive(t, conn)
		require.Equal(t, "error", r.Type, tt.typ)
		require.Equal(t, id, r.ID)
		require.Equal(t, tt.code, r.Code, r.Error)
	}

	// The connection survives errors.
	send(t, conn, "ping", "after", nil)
	require.Equal(t, "pong", receive(t, conn).Type)
}
