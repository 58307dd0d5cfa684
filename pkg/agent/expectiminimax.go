package agent

import (
	"math"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/bgagents/pkg/game"
)

const (
	// DefaultDepth is the search depth used when none is configured.
	DefaultDepth = 1

	// BranchLimit is the largest number of moves a node may branch into
	// before the search stops there and scores the position statically.
	BranchLimit = 10
)

// Expectiminimax looks ahead through alternating decision nodes and dice
// chance nodes, scoring leaves from its own player's point of view.
type Expectiminimax struct {
	player game.Player
	depth  int
	scorer Scorer
	logger zerolog.Logger
}

// Option configures an Expectiminimax agent.
type Option func(*Expectiminimax)

// WithDepth sets the search depth in plies. Depth 0 and 1 both score each
// candidate move statically.
func WithDepth(depth int) Option {
	return func(a *Expectiminimax) {
		if depth >= 0 {
			a.depth = depth
		}
	}
}

// WithLogger replaces the global logger.
func WithLogger(l zerolog.Logger) Option {
	return func(a *Expectiminimax) {
		a.logger = l
	}
}

// NewExpectiminimax returns a search agent for p. A nil scorer is
// accepted, but every search will then fail with ErrNoEvaluator.
func NewExpectiminimax(p game.Player, scorer Scorer, opts ...Option) *Expectiminimax {
	a := &Expectiminimax{
		player: p,
		depth:  DefaultDepth,
		scorer: scorer,
		logger: log.Logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Expectiminimax) Name() string { return "ExpectiMinMax" }

// Depth returns the configured search depth.
func (a *Expectiminimax) Depth() int { return a.depth }

// SelectMove plays each candidate on s, scores the opponent's reply with
// a chance node, undoes it and keeps the best. Ties go to the earlier
// move. With more than BranchLimit candidates each is scored statically.
func (a *Expectiminimax) SelectMove(legal []game.Move, s *game.State) (game.Move, error) {
	if len(legal) == 0 {
		return nil, nil
	}

	depth := a.depth
	if len(legal) > BranchLimit {
		depth = 0
	}

	r := &search{scorer: a.scorer, state: s}
	var best game.Move
	bestValue := math.Inf(-1)
	for _, m := range legal {
		v, err := r.try(m, a.player, func() (float64, error) {
			return r.chance(depth-1, a.player.Opponent(), false)
		})
		if err != nil {
			return nil, err
		}
		if best == nil || v > bestValue {
			best, bestValue = m, v
		}
	}

	a.logger.Debug().
		Str("player", a.player.String()).
		Int("candidates", len(legal)).
		Int("depth", depth).
		Int("nodes", r.nodes).
		Float64("value", bestValue).
		Str("move", best.String()).
		Msg("expectiminimax-select")
	return best, nil
}

// Evaluate runs the search on a single candidate: it plays m on s, returns
// the value of the resulting chance node searched to depth-1 and restores
// s. At depth 0 this is the scorer's value of the position after m.
func (a *Expectiminimax) Evaluate(m game.Move, s *game.State, depth int) (float64, error) {
	r := &search{scorer: a.scorer, state: s}
	return r.try(m, a.player, func() (float64, error) {
		return r.chance(depth-1, a.player.Opponent(), false)
	})
}

// search is the state of one SelectMove call. It borrows the caller's
// state: every move it applies is undone before the call returns.
type search struct {
	scorer Scorer
	state  *game.State
	nodes  int
}

// try applies m for p, runs next and undoes m, whatever next returns.
func (r *search) try(m game.Move, p game.Player, next func() (float64, error)) (float64, error) {
	caps := r.state.ApplyMove(m, p)
	defer r.state.UndoMove(m, p, caps)
	return next()
}

func (r *search) evaluate() (float64, error) {
	if r.scorer == nil {
		return 0, ErrNoEvaluator
	}
	return r.scorer.Evaluate(r.state), nil
}

// chance averages the decision values of toMove's 21 possible rolls,
// weighted by how many of the 36 ordered rolls each stands for. A roll
// with more than BranchLimit plays is scored statically.
func (r *search) chance(depth int, toMove game.Player, maximizing bool) (float64, error) {
	r.nodes++
	if depth <= 0 || r.state.IsTerminal() {
		return r.evaluate()
	}

	expected := 0.0
	for _, o := range game.Outcomes() {
		moves := r.state.LegalMoves(o, toMove)
		d := depth
		if len(moves) > BranchLimit {
			d = 0
		}
		v, err := r.decide(d, toMove, maximizing, moves)
		if err != nil {
			return 0, err
		}
		expected += v * float64(o.Weight())
	}
	return expected / game.TotalWeight, nil
}

// decide picks toMove's best reply among moves: the highest value for the
// root player, the lowest for its opponent. With no moves toMove passes.
func (r *search) decide(depth int, toMove game.Player, maximizing bool, moves []game.Move) (float64, error) {
	r.nodes++
	if depth <= 0 || r.state.IsTerminal() {
		return r.evaluate()
	}
	if len(moves) == 0 {
		// A forced pass, not a max or min over nothing: the other side rolls next.
		return r.chance(depth-1, toMove.Opponent(), !maximizing)
	}

	best := math.Inf(1)
	if maximizing {
		best = math.Inf(-1)
	}
	for _, m := range moves {
		v, err := r.try(m, toMove, func() (float64, error) {
			return r.chance(depth-1, toMove.Opponent(), !maximizing)
		})
		if err != nil {
			return 0, err
		}
		if maximizing {
			best = math.Max(best, v)
		} else {
			best = math.Min(best, v)
		}
	}
	return best, nil
}
