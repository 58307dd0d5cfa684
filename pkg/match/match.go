// Package match plays games between agents and summarises series of them.
package match

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"github.com/yourusername/bgagents/pkg/agent"
	"github.com/yourusername/bgagents/pkg/game"
)

// DefaultMaxTurns bounds a game when no limit is configured.
const DefaultMaxTurns = 1000

var (
	// ErrIllegalMove is returned when an agent picks a move that is not
	// one of the legal moves it was offered.
	ErrIllegalMove = errors.New("match: illegal move")
	// ErrStateChanged is returned when an agent hands back the position
	// in a different state than it received it.
	ErrStateChanged = errors.New("match: agent modified the position")
	// ErrTurnLimit is returned when a game is still running after the
	// configured number of turns.
	ErrTurnLimit = errors.New("match: turn limit reached")
)

// Turn records one roll and the move played for it.
type Turn struct {
	Number   int
	Player   game.Player
	Roll     game.Outcome
	Move     game.Move // nil when the player had to pass
	Legal    int       // number of legal moves offered
	Hits     int
	Position string // position ID after the move, opponent on roll
}

// Pass reports whether the player could not move.
func (t Turn) Pass() bool { return len(t.Move) == 0 }

// Result is the record of a finished (or interrupted) game.
type Result struct {
	Agents [2]string // display names, indexed by player
	First  game.Player
	Winner game.Player
	Turns  []Turn
	Final  game.State
	Hits   [2]int
	Passes [2]int
}

// Finished reports whether the final position has a winner.
func (r Result) Finished() bool {
	_, ok := r.Final.Winner()
	return ok
}

type config struct {
	rng      *rand.Rand
	maxTurns int
	start    *game.State
	observer func(Turn)
	logger   zerolog.Logger
}

// Option configures Play.
type Option func(*config)

// WithRand sets the source of dice rolls and of the starting player.
func WithRand(rng *rand.Rand) Option {
	return func(c *config) {
		c.rng = rng
	}
}

// WithSeed seeds a fresh source of dice rolls.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithMaxTurns overrides DefaultMaxTurns.
func WithMaxTurns(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxTurns = n
		}
	}
}

// WithStart plays from a copy of s instead of the opening position.
func WithStart(s *game.State) Option {
	return func(c *config) {
		c.start = s
	}
}

// WithObserver calls fn after every turn, on the goroutine running Play.
func WithObserver(fn func(Turn)) Option {
	return func(c *config) {
		c.observer = fn
	}
}

// WithLogger replaces the global logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// Play runs one game between agents, indexed by the player each controls,
// until someone has borne off all checkers. The starting player is drawn
// from the game's random source. The context is checked between turns.
//
// On error the returned Result holds the game up to the failing turn.
func Play(ctx context.Context, agents [2]agent.Agent, opts ...Option) (Result, error) {
	cfg := config{
		maxTurns: DefaultMaxTurns,
		logger:   log.Logger,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.rng == nil {
		cfg.rng = rand.New(rand.NewSource(rand.Uint64()))
	}

	s := game.NewState()
	if cfg.start != nil {
		if err := cfg.start.Validate(); err != nil {
			return Result{}, fmt.Errorf("start position: %w", err)
		}
		s = cfg.start.Clone()
	}

	toMove := game.Player(cfg.rng.Intn(2))
	res := Result{First: toMove}
	for _, p := range game.Players {
		res.Agents[p] = agent.Name(agents[p])
	}

	for n := 1; !s.IsTerminal(); n++ {
		if err := ctx.Err(); err != nil {
			res.Final = *s
			return res, err
		}
		if n > cfg.maxTurns {
			res.Final = *s
			return res, fmt.Errorf("%w: %d turns", ErrTurnLimit, cfg.maxTurns)
		}

		t, err := playTurn(s, agents[toMove], toMove, game.Roll(cfg.rng))
		if err != nil {
			res.Final = *s
			return res, fmt.Errorf("turn %d (%s, %s): %w", n, toMove, res.Agents[toMove], err)
		}
		t.Number = n
		res.Turns = append(res.Turns, t)
		res.Hits[toMove] += t.Hits
		if t.Pass() {
			res.Passes[toMove]++
		}

		cfg.logger.Trace().
			Int("turn", n).
			Str("player", toMove.String()).
			Str("roll", t.Roll.String()).
			Str("move", t.Move.String()).
			Int("hits", t.Hits).
			Msg("turn")
		if cfg.observer != nil {
			cfg.observer(t)
		}
		toMove = toMove.Opponent()
	}

	res.Winner, _ = s.Winner()
	res.Final = *s
	cfg.logger.Debug().
		Str("winner", res.Winner.String()).
		Str("agent", res.Agents[res.Winner]).
		Int("turns", len(res.Turns)).
		Msg("game-finished")
	return res, nil
}

// playTurn asks a for its move on roll, checks it and plays it on s.
func playTurn(s *game.State, a agent.Agent, p game.Player, roll game.Outcome) (Turn, error) {
	legal := s.LegalMoves(roll, p)
	before := *s
	m, err := a.SelectMove(legal, s)
	if err != nil {
		return Turn{}, err
	}
	if *s != before {
		*s = before
		return Turn{}, ErrStateChanged
	}
	if !isLegal(m, legal) {
		return Turn{}, fmt.Errorf("%w: %v for %v", ErrIllegalMove, m, roll)
	}

	caps := s.ApplyMove(m, p)
	return Turn{
		Player:   p,
		Roll:     roll,
		Move:     m,
		Legal:    len(legal),
		Hits:     caps.Count(),
		Position: s.PositionID(p.Opponent()),
	}, nil
}

func isLegal(m game.Move, legal []game.Move) bool {
	if len(legal) == 0 {
		return len(m) == 0
	}
	for _, l := range legal {
		if l.Equal(m) {
			return true
		}
	}
	return false
}
