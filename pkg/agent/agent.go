// Package agent implements move selection strategies for backgammon.
//
// Every strategy satisfies Agent. SelectMove receives the legal moves for
// the current roll and the position they apply to; the caller hands the
// state over for the duration of the call and gets it back unchanged.
package agent

import (
	"errors"
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/yourusername/bgagents/pkg/game"
	"github.com/yourusername/bgagents/pkg/heuristic"
)

// Agent chooses a move.
type Agent interface {
	// SelectMove returns one of legal, or nil when legal is empty.
	SelectMove(legal []game.Move, s *game.State) (game.Move, error)
}

// Scorer evaluates positions for the search. *heuristic.Evaluator
// satisfies it.
type Scorer interface {
	Evaluate(s *game.State) float64
}

var (
	// ErrNoEvaluator is returned by a search agent built without a Scorer.
	ErrNoEvaluator = errors.New("agent: search has no evaluator")
	// ErrUnknownAgent is returned by New for an unregistered kind.
	ErrUnknownAgent = errors.New("agent: unknown kind")
)

// Agent kinds accepted by New.
const (
	KindExpectiminimax = "expectiminimax"
	KindCapture        = "capture"
	KindBlock          = "block"
	KindRandom         = "random"
)

// Kinds lists the kinds accepted by New.
var Kinds = []string{KindExpectiminimax, KindCapture, KindBlock, KindRandom}

// Config holds the settings New may need. Fields irrelevant to a kind are
// ignored.
type Config struct {
	Depth int              // search depth, 0 means DefaultDepth
	Seed  uint64           // seed for agents that break ties randomly
	Cache *heuristic.Cache // optional evaluation cache for the search
}

// New builds an agent of the given kind playing p.
func New(kind string, p game.Player, cfg Config) (Agent, error) {
	switch kind {
	case KindExpectiminimax:
		var evalOpts []heuristic.Option
		if cfg.Cache != nil {
			evalOpts = append(evalOpts, heuristic.WithCache(cfg.Cache))
		}
		depth := cfg.Depth
		if depth <= 0 {
			depth = DefaultDepth
		}
		return NewExpectiminimax(p, heuristic.NewEvaluator(p, evalOpts...), WithDepth(depth)), nil
	case KindCapture:
		return NewCapture(p, rand.New(rand.NewSource(cfg.Seed))), nil
	case KindBlock:
		return NewBlock(p), nil
	case KindRandom:
		return NewRandom(p, rand.New(rand.NewSource(cfg.Seed))), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAgent, kind)
}

// Name returns a display name for a, falling back to its type.
func Name(a Agent) string {
	if n, ok := a.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", a)
}
