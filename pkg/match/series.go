package match

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/bgagents/pkg/agent"
	"github.com/yourusername/bgagents/pkg/game"
)

// Factory builds a fresh agent for one game. Every game gets its own
// agents, so agents need not be safe for concurrent use.
type Factory func(p game.Player, seed uint64) (agent.Agent, error)

// KindFactory returns a Factory for agent.New with the given kind.
func KindFactory(kind string, cfg agent.Config) Factory {
	return func(p game.Player, seed uint64) (agent.Agent, error) {
		c := cfg
		c.Seed = seed
		return agent.New(kind, p, c)
	}
}

// SeriesConfig describes a series of independent games.
type SeriesConfig struct {
	Games    int
	Workers  int    // games played at once, 0 means GOMAXPROCS
	Seed     uint64 // game i is seeded with Seed+i
	MaxTurns int

	// OnGame, if set, is called after each game from the goroutine that
	// played it.
	OnGame func(i int, r Result)
}

// Summary aggregates a series.
type Summary struct {
	Games       int
	Wins        [2]int
	WinRate     [2]float64
	Hits        [2]int
	MeanTurns   float64
	StdDevTurns float64
	MinTurns    int
	MaxTurns    int
}

var errNoGames = errors.New("match: series needs at least one game")

// RunSeries plays cfg.Games games between the agents built by factories,
// indexed by player, and summarises them. Games run in parallel on up to
// cfg.Workers goroutines; the first error cancels the rest.
func RunSeries(ctx context.Context, cfg SeriesConfig, factories [2]Factory) (Summary, error) {
	if cfg.Games <= 0 {
		return Summary{}, errNoGames
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, cfg.Games)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < cfg.Games; i++ {
		i := i
		seed := cfg.Seed + uint64(i)
		g.Go(func() error {
			var agents [2]agent.Agent
			for _, p := range game.Players {
				a, err := factories[p](p, seed)
				if err != nil {
					return fmt.Errorf("game %d: %s agent: %w", i, p, err)
				}
				agents[p] = a
			}
			r, err := Play(ctx, agents, WithSeed(seed), WithMaxTurns(cfg.MaxTurns))
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}
			results[i] = r
			if cfg.OnGame != nil {
				cfg.OnGame(i, r)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	sum := Summarize(results)
	log.Debug().
		Int("games", sum.Games).
		Int("wins-x", sum.Wins[game.X]).
		Int("wins-o", sum.Wins[game.O]).
		Float64("mean-turns", sum.MeanTurns).
		Msg("series-finished")
	return sum, nil
}

// Summarize aggregates finished games.
func Summarize(results []Result) Summary {
	sum := Summary{Games: len(results)}
	if len(results) == 0 {
		return sum
	}

	turns := make([]float64, len(results))
	for i, r := range results {
		sum.Wins[r.Winner]++
		sum.Hits[game.X] += r.Hits[game.X]
		sum.Hits[game.O] += r.Hits[game.O]
		turns[i] = float64(len(r.Turns))
	}
	for _, p := range game.Players {
		sum.WinRate[p] = float64(sum.Wins[p]) / float64(sum.Games)
	}
	sum.MeanTurns, sum.StdDevTurns = stat.MeanStdDev(turns, nil)
	if len(turns) < 2 {
		sum.StdDevTurns = 0
	}
	sum.MinTurns = int(floats.Min(turns))
	sum.MaxTurns = int(floats.Max(turns))
	return sum
}
