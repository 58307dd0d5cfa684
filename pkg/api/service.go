package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/yourusername/bgagents/internal/positionid"
	"github.com/yourusername/bgagents/pkg/agent"
	"github.com/yourusername/bgagents/pkg/game"
	"github.com/yourusername/bgagents/pkg/heuristic"
	"github.com/yourusername/bgagents/pkg/match"
)

// MaxDepth is the deepest search a request may ask for.
const MaxDepth = 3

// DefaultMaxGames bounds a match request when Options.MaxGames is 0.
const DefaultMaxGames = 1000

var (
	errBusy          = errors.New("server busy")
	errInvalidJSON   = errors.New("invalid JSON")
	errInvalidQuery  = errors.New("invalid query")
	errInvalidPlayer = errors.New("invalid player")
	errInvalidDice   = errors.New("invalid dice")
	errInvalidDepth  = errors.New("invalid depth")
	errInvalidGames  = errors.New("invalid number of games")
)

// errorStatus maps an error to an HTTP status and a stable error code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, errBusy):
		return http.StatusServiceUnavailable, "SERVER_BUSY"
	case errors.Is(err, errInvalidJSON):
		return http.StatusBadRequest, "INVALID_JSON"
	case errors.Is(err, errInvalidQuery):
		return http.StatusBadRequest, "INVALID_QUERY"
	case errors.Is(err, positionid.ErrInvalidPositionID), errors.Is(err, game.ErrInvalidState):
		return http.StatusBadRequest, "INVALID_POSITION"
	case errors.Is(err, errInvalidPlayer):
		return http.StatusBadRequest, "INVALID_PLAYER"
	case errors.Is(err, errInvalidDice):
		return http.StatusBadRequest, "INVALID_DICE"
	case errors.Is(err, errInvalidDepth):
		return http.StatusBadRequest, "INVALID_DEPTH"
	case errors.Is(err, errInvalidGames):
		return http.StatusBadRequest, "INVALID_GAMES"
	case errors.Is(err, agent.ErrUnknownAgent):
		return http.StatusBadRequest, "UNKNOWN_AGENT"
	case errors.Is(err, match.ErrTurnLimit):
		return http.StatusUnprocessableEntity, "TURN_LIMIT"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "CANCELLED"
	}
	return http.StatusInternalServerError, "INTERNAL"
}

// Options configures Handlers.
type Options struct {
	Version  string
	Pool     *WorkerPool      // nil runs every request immediately
	Cache    *heuristic.Cache // shared by all evaluators, may be nil
	MaxGames int
}

// Handlers serves the API. Every request decodes its own State, so no
// position is shared between goroutines; only the cache is.
type Handlers struct {
	version  string
	pool     *WorkerPool
	cache    *heuristic.Cache
	maxGames int
}

func NewHandlers(opts Options) *Handlers {
	if opts.MaxGames <= 0 {
		opts.MaxGames = DefaultMaxGames
	}
	return &Handlers{
		version:  opts.Version,
		pool:     opts.Pool,
		cache:    opts.Cache,
		maxGames: opts.MaxGames,
	}
}

// acquire takes a pool slot for ctx and returns its release function.
func (h *Handlers) acquire(ctx context.Context, l Lane) (func(), error) {
	if h.pool == nil {
		return func() {}, nil
	}
	if err := h.pool.Acquire(ctx, l); err != nil {
		return nil, fmt.Errorf("%w: %s lane: %v", errBusy, l, err)
	}
	return func() { h.pool.Release(l) }, nil
}

func parseSide(s string) (game.Player, error) {
	if s == "" {
		return game.X, nil
	}
	p, err := game.ParsePlayer(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errInvalidPlayer, s)
	}
	return p, nil
}

func parsePosition(id, side string) (*game.State, game.Player, error) {
	p, err := parseSide(side)
	if err != nil {
		return nil, 0, err
	}
	s, err := game.FromPositionID(id, p)
	if err != nil {
		return nil, 0, err
	}
	return s, p, nil
}

func checkDepth(depth int) error {
	if depth < 0 || depth > MaxDepth {
		return fmt.Errorf("%w: %d, want 0-%d", errInvalidDepth, depth, MaxDepth)
	}
	return nil
}

func (h *Handlers) evaluate(req EvaluateRequest) (EvaluateResponse, error) {
	s, p, err := parsePosition(req.Position, req.Player)
	if err != nil {
		return EvaluateResponse{}, err
	}

	eval := heuristic.NewEvaluator(p, heuristic.WithCache(h.cache))
	resp := EvaluateResponse{
		Position: req.Position,
		Player:   p.String(),
		Score:    finite(eval.Evaluate(s)),
		Own:      featuresResponse(heuristic.Extract(s, p)),
		Opponent: featuresResponse(heuristic.Extract(s, p.Opponent())),
	}
	if w, ok := s.Winner(); ok {
		resp.Winner = w.String()
	}
	return resp, nil
}

func (h *Handlers) move(req MoveRequest) (MoveResponse, error) {
	s, p, err := parsePosition(req.Position, req.Player)
	if err != nil {
		return MoveResponse{}, err
	}
	roll, err := game.NewOutcome(req.Dice[0], req.Dice[1])
	if err != nil {
		return MoveResponse{}, fmt.Errorf("%w: %v", errInvalidDice, err)
	}
	if err := checkDepth(req.Depth); err != nil {
		return MoveResponse{}, err
	}
	kind := req.Agent
	if kind == "" {
		kind = agent.KindExpectiminimax
	}
	a, err := agent.New(kind, p, agent.Config{Depth: req.Depth, Seed: req.Seed, Cache: h.cache})
	if err != nil {
		return MoveResponse{}, err
	}

	legal := s.LegalMoves(roll, p)
	m, err := a.SelectMove(legal, s)
	if err != nil {
		return MoveResponse{}, fmt.Errorf("%s: %w", kind, err)
	}

	resp := MoveResponse{
		Position: req.Position,
		Player:   p.String(),
		Dice:     req.Dice,
		Agent:    agent.Name(a),
		Legal:    make([]string, len(legal)),
		Move:     m.String(),
	}
	for i, l := range legal {
		resp.Legal[i] = l.String()
	}
	after := s.Clone()
	resp.Hits = after.ApplyMove(m, p).Count()
	resp.Result = after.PositionID(p.Opponent())
	return resp, nil
}

// normalize fills in defaults and checks the limits of a match request.
func (h *Handlers) normalize(req *MatchRequest) error {
	if req.X == "" {
		req.X = agent.KindExpectiminimax
	}
	if req.O == "" {
		req.O = agent.KindCapture
	}
	if req.Games == 0 {
		req.Games = 1
	}
	if req.Games < 0 || req.Games > h.maxGames {
		return fmt.Errorf("%w: %d, want 1-%d", errInvalidGames, req.Games, h.maxGames)
	}
	return checkDepth(req.Depth)
}

func (h *Handlers) agentConfig(req MatchRequest) agent.Config {
	return agent.Config{Depth: req.Depth, Seed: req.Seed, Cache: h.cache}
}

// playSeries plays a normalised match request, reporting each game to
// onGame as it finishes. onGame may be called from several goroutines.
func (h *Handlers) playSeries(ctx context.Context, req MatchRequest, onGame func(GameResponse)) (MatchResponse, error) {
	cfg := h.agentConfig(req)
	series := match.SeriesConfig{
		Games:    req.Games,
		Seed:     req.Seed,
		MaxTurns: req.MaxTurns,
	}
	if onGame != nil {
		series.OnGame = func(i int, r match.Result) { onGame(gameResponse(i, r)) }
	}
	sum, err := match.RunSeries(ctx, series, [2]match.Factory{
		match.KindFactory(req.X, cfg),
		match.KindFactory(req.O, cfg),
	})
	if err != nil {
		return MatchResponse{}, err
	}
	return matchResponse(req, sum), nil
}

// playGame plays a single game of a normalised request, reporting every
// turn to onTurn on the calling goroutine.
func (h *Handlers) playGame(ctx context.Context, req MatchRequest, onTurn func(TurnResponse)) (GameResponse, error) {
	cfg := h.agentConfig(req)
	var agents [2]agent.Agent
	for i, kind := range [2]string{req.X, req.O} {
		a, err := agent.New(kind, game.Players[i], cfg)
		if err != nil {
			return GameResponse{}, err
		}
		agents[i] = a
	}

	opts := []match.Option{match.WithSeed(req.Seed), match.WithMaxTurns(req.MaxTurns)}
	if onTurn != nil {
		opts = append(opts, match.WithObserver(func(t match.Turn) { onTurn(turnResponse(t)) }))
	}
	r, err := match.Play(ctx, agents, opts...)
	if err != nil {
		return GameResponse{}, err
	}

	resp := gameResponse(0, r)
	var sb strings.Builder
	if err := match.WriteMAT(&sb, []match.Result{r}); err != nil {
		return GameResponse{}, err
	}
	resp.Transcript = sb.String()
	return resp, nil
}
