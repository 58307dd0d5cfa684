package heuristic

import (
	"gonum.org/v1/gonum/floats"

	"github.com/yourusername/bgagents/pkg/game"
)

// OwnWeights weight the evaluating player's features.
var OwnWeights = Features{
	Vulnerability: 0.4,
	Hitting:       0.4,
	Blocking:      0.01,
	BearIn:        0.4,
	BearOff:       0.4,
	Terminal:      1,
}

// OpponentWeights weight the opponent's features, which are subtracted.
// Vulnerability does not count for the opponent.
var OpponentWeights = Features{
	Hitting:  0.4,
	Blocking: 0.4,
	BearIn:   0.2,
	BearOff:  0.2,
	Terminal: 1,
}

// Weighted returns the dot product of f and w.
func (f Features) Weighted(w Features) float64 {
	return floats.Dot(f.vector(), w.vector())
}

// Score evaluates s for p: p's weighted features minus the opponent's.
// It is finite unless the game is over, in which case it is +Inf for a
// win and -Inf for a loss.
func Score(s *game.State, p game.Player) float64 {
	own := Extract(s, p).Weighted(OwnWeights)
	opp := Extract(s, p.Opponent()).Weighted(OpponentWeights)
	return own - opp
}

// Evaluator scores positions for a fixed player.
type Evaluator struct {
	player game.Player
	cache  *Cache
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithCache memoises evaluations in c, which may be shared between
// evaluators and goroutines.
func WithCache(c *Cache) Option {
	return func(e *Evaluator) {
		e.cache = c
	}
}

// NewEvaluator returns an evaluator taking p's point of view.
func NewEvaluator(p game.Player, opts ...Option) *Evaluator {
	e := &Evaluator{player: p}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Player returns the side the evaluator scores for.
func (e *Evaluator) Player() game.Player {
	return e.player
}

// Evaluate returns Score(s, e.Player()).
func (e *Evaluator) Evaluate(s *game.State) float64 {
	if e.cache == nil {
		return Score(s, e.player)
	}

	// Borne-off counts follow from the key, so it identifies the position.
	key := s.Key(e.player)
	if v, ok := e.cache.Lookup(key, e.player); ok {
		return v
	}
	v := Score(s, e.player)
	e.cache.Add(key, e.player, v)
	return v
}
