// Package api serves the agents over HTTP/JSON, Server-Sent Events and
// WebSocket.
package api

import (
	"math"

	"github.com/yourusername/bgagents/pkg/game"
	"github.com/yourusername/bgagents/pkg/heuristic"
	"github.com/yourusername/bgagents/pkg/match"
)

// Positions are gnubg position IDs read with Player on roll ("x" or "o",
// default "x").

// EvaluateRequest is the body of POST /api/evaluate.
type EvaluateRequest struct {
	Position string `json:"position"`
	Player   string `json:"player,omitempty"`
}

// MoveRequest is the body of POST /api/move.
type MoveRequest struct {
	Position string `json:"position"`
	Player   string `json:"player,omitempty"`
	Dice     [2]int `json:"dice"`
	Agent    string `json:"agent,omitempty"` // default expectiminimax
	Depth    int    `json:"depth,omitempty"`
	Seed     uint64 `json:"seed,omitempty"`
}

// MatchRequest is the body of POST /api/match.
type MatchRequest struct {
	X        string `json:"x,omitempty"` // agent kind, default expectiminimax
	O        string `json:"o,omitempty"` // agent kind, default capture
	Games    int    `json:"games,omitempty"`
	Depth    int    `json:"depth,omitempty"`
	Seed     uint64 `json:"seed,omitempty"`
	MaxTurns int    `json:"max_turns,omitempty"`
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type HealthResponse struct {
	Status  string         `json:"status"`
	Version string         `json:"version"`
	Agents  []string       `json:"agents"`
	Pool    *PoolStats     `json:"pool,omitempty"`
	Cache   *CacheResponse `json:"cache,omitempty"`
}

type CacheResponse struct {
	Lookups uint64  `json:"lookups"`
	Hits    uint64  `json:"hits"`
	Adds    uint64  `json:"adds"`
	HitRate float64 `json:"hit_rate"`
}

// FeaturesResponse holds the normalised features of one side.
type FeaturesResponse struct {
	Vulnerability float64 `json:"vulnerability"`
	Hitting       float64 `json:"hitting"`
	Blocking      float64 `json:"blocking"`
	BearIn        float64 `json:"bear_in"`
	BearOff       float64 `json:"bear_off"`
}

// EvaluateResponse scores a position for Player. Score is omitted once the
// game is over, since it is infinite there; Winner says who won.
type EvaluateResponse struct {
	Position string           `json:"position"`
	Player   string           `json:"player"`
	Score    *float64         `json:"score,omitempty"`
	Winner   string           `json:"winner,omitempty"`
	Own      FeaturesResponse `json:"own"`
	Opponent FeaturesResponse `json:"opponent"`
}

type MoveResponse struct {
	Position string   `json:"position"`
	Player   string   `json:"player"`
	Dice     [2]int   `json:"dice"`
	Agent    string   `json:"agent"`
	Legal    []string `json:"legal"`
	Move     string   `json:"move"`   // "pass" when no move is legal
	Result   string   `json:"result"` // position after the move, opponent on roll
	Hits     int      `json:"hits"`
}

// TurnResponse is streamed for every turn of a single game.
type TurnResponse struct {
	Number   int    `json:"number"`
	Player   string `json:"player"`
	Dice     [2]int `json:"dice"`
	Move     string `json:"move"`
	Hits     int    `json:"hits"`
	Position string `json:"position"`
}

// GameResponse describes a finished game.
type GameResponse struct {
	Index      int    `json:"index"`
	X          string `json:"x"`
	O          string `json:"o"`
	First      string `json:"first"`
	Winner     string `json:"winner"`
	Turns      int    `json:"turns"`
	HitsX      int    `json:"hits_x"`
	HitsO      int    `json:"hits_o"`
	Transcript string `json:"transcript,omitempty"` // Jellyfish .mat
}

type MatchResponse struct {
	X           string  `json:"x"`
	O           string  `json:"o"`
	Games       int     `json:"games"`
	WinsX       int     `json:"wins_x"`
	WinsO       int     `json:"wins_o"`
	WinRateX    float64 `json:"win_rate_x"`
	WinRateO    float64 `json:"win_rate_o"`
	HitsX       int     `json:"hits_x"`
	HitsO       int     `json:"hits_o"`
	MeanTurns   float64 `json:"mean_turns"`
	StdDevTurns float64 `json:"stddev_turns"`
	MinTurns    int     `json:"min_turns"`
	MaxTurns    int     `json:"max_turns"`
}

func featuresResponse(f heuristic.Features) FeaturesResponse {
	return FeaturesResponse{
		Vulnerability: f.Vulnerability,
		Hitting:       f.Hitting,
		Blocking:      f.Blocking,
		BearIn:        f.BearIn,
		BearOff:       f.BearOff,
	}
}

func finite(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

func turnResponse(t match.Turn) TurnResponse {
	return TurnResponse{
		Number:   t.Number,
		Player:   t.Player.String(),
		Dice:     [2]int{t.Roll.High, t.Roll.Low},
		Move:     t.Move.String(),
		Hits:     t.Hits,
		Position: t.Position,
	}
}

func gameResponse(i int, r match.Result) GameResponse {
	return GameResponse{
		Index:  i,
		X:      r.Agents[game.X],
		O:      r.Agents[game.O],
		First:  r.First.String(),
		Winner: r.Winner.String(),
		Turns:  len(r.Turns),
		HitsX:  r.Hits[game.X],
		HitsO:  r.Hits[game.O],
	}
}

func matchResponse(req MatchRequest, s match.Summary) MatchResponse {
	return MatchResponse{
		X:           req.X,
		O:           req.O,
		Games:       s.Games,
		WinsX:       s.Wins[game.X],
		WinsO:       s.Wins[game.O],
		WinRateX:    s.WinRate[game.X],
		WinRateO:    s.WinRate[game.O],
		HitsX:       s.Hits[game.X],
		HitsO:       s.Hits[game.O],
		MeanTurns:   s.MeanTurns,
		StdDevTurns: s.StdDevTurns,
		MinTurns:    s.MinTurns,
		MaxTurns:    s.MaxTurns,
	}
}
