package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSMessage is a request sent over the WebSocket.
type WSMessage struct {
	Type    string          `json:"type"` // "evaluate", "move", "match" or "ping"
	ID      string          `json:"id"`   // echoed in every response to the message
	Payload json.RawMessage `json:"payload"`
}

// WSResponse is a message sent back over the WebSocket. A match request
// is answered by a stream of "turn" (single game) or "game" (series)
// messages followed by one "result".
type WSResponse struct {
	Type    string `json:"type"` // "result", "turn", "game", "error" or "pong"
	ID      string `json:"id,omitempty"`
	Payload any    `json:"payload,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// WSClient is one WebSocket connection. Messages are handled in order;
// responses go through a single writer goroutine.
type WSClient struct {
	ctx      context.Context
	conn     *websocket.Conn
	handlers *Handlers
	sendChan chan WSResponse
}

// WebSocket handles /api/ws.
func (h *Handlers) WebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("websocket-upgrade")
		return
	}
	client := &WSClient{ctx: r.Context(), conn: conn, handlers: h, sendChan: make(chan WSResponse, 256)}
	go client.writePump()
	client.readPump()
}

func (c *WSClient) writePump() {
	defer c.conn.Close()
	for msg := range c.sendChan {
		if err := c.conn.WriteJSON(msg); err != nil {
			log.Debug().Err(err).Msg("websocket-write")
			// Closing ends readPump; drain until it closes sendChan.
			c.conn.Close()
			for range c.sendChan {
			}
			return
		}
	}
}

func (c *WSClient) readPump() {
	defer func() { close(c.sendChan) }()
	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		c.handleMessage(msg)
	}
}

func (c *WSClient) send(resp WSResponse) {
	c.sendChan <- resp
}

func (c *WSClient) sendError(id string, err error) {
	_, code := errorStatus(err)
	c.send(WSResponse{Type: "error", ID: id, Error: err.Error(), Code: code})
}

func (c *WSClient) handleMessage(msg WSMessage) {
	switch msg.Type {
	case "ping":
		c.send(WSResponse{Type: "pong", ID: msg.ID})
	case "evaluate":
		var req EvaluateRequest
		c.run(msg, Fast, &req, func() (any, error) { return c.handlers.evaluate(req) })
	case "move":
		var req MoveRequest
		c.run(msg, Fast, &req, func() (any, error) { return c.handlers.move(req) })
	case "match":
		var req MatchRequest
		c.run(msg, Slow, &req, func() (any, error) { return c.match(msg.ID, req) })
	default:
		c.send(WSResponse{Type: "error", ID: msg.ID, Error: "unknown message type " + msg.Type, Code: "UNKNOWN_TYPE"})
	}
}

// run decodes msg's payload into req, runs fn on a slot of lane l and
// sends its result.
func (c *WSClient) run(msg WSMessage, l Lane, req any, fn func() (any, error)) {
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, req); err != nil {
			c.sendError(msg.ID, errInvalidJSON)
			return
		}
	}
	release, err := c.handlers.acquire(c.ctx, l)
	if err != nil {
		c.sendError(msg.ID, err)
		return
	}
	defer release()

	resp, err := fn()
	if err != nil {
		c.sendError(msg.ID, err)
		return
	}
	c.send(WSResponse{Type: "result", ID: msg.ID, Payload: resp})
}

// match streams a single game turn by turn, or a series game by game.
func (c *WSClient) match(id string, req MatchRequest) (any, error) {
	if err := c.handlers.normalize(&req); err != nil {
		return nil, err
	}
	if req.Games == 1 {
		return c.handlers.playGame(c.ctx, req, func(t TurnResponse) {
			c.send(WSResponse{Type: "turn", ID: id, Payload: t})
		})
	}
	return c.handlers.playSeries(c.ctx, req, func(g GameResponse) {
		c.send(WSResponse{Type: "game", ID: id, Payload: g})
	})
}
