package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yourusername/bgagents/pkg/game"
	"github.com/yourusername/bgagents/pkg/match"
)

func cmdMatch(args []string, stdout, stderr io.Writer) error {
	c := newCommand("match", stderr)
	x := c.fs.String("x", "", "Agent playing X")
	o := c.fs.String("o", "", "Agent playing O")
	games := c.fs.Int("games", 0, "Number of games")
	workers := c.fs.Int("workers", 0, "Games played at once (0 = one per CPU)")
	seed := c.fs.Uint64("seed", 0, "Seed of the first game")
	maxTurns := c.fs.Int("max-turns", 0, "Turn limit per game")
	depth := c.fs.Int("depth", 0, "Search depth")
	matPath := c.fs.String("mat", "", "Write the games to this .mat file")
	cfg, set, err := c.load(args)
	if err != nil {
		return err
	}

	m := cfg.Match
	for name, apply := range map[string]func(){
		"x":         func() { m.X = *x },
		"o":         func() { m.O = *o },
		"games":     func() { m.Games = *games },
		"workers":   func() { m.Workers = *workers },
		"seed":      func() { m.Seed = *seed },
		"max-turns": func() { m.MaxTurns = *maxTurns },
		"depth":     func() { cfg.Agents.Depth = *depth },
	} {
		if set[name] {
			apply()
		}
	}
	cfg.Match = m
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results := make([]match.Result, m.Games)
	series := match.SeriesConfig{
		Games:    m.Games,
		Workers:  m.Workers,
		Seed:     m.Seed,
		MaxTurns: m.MaxTurns,
		OnGame: func(i int, r match.Result) {
			results[i] = r
			log.Info().
				Int("game", i+1).
				Str("winner", r.Winner.String()).
				Int("turns", len(r.Turns)).
				Msg("game-finished")
		},
	}
	agents := cfg.Agents
	factories := [2]match.Factory{
		match.KindFactory(m.X, agents.AgentConfig()),
		match.KindFactory(m.O, agents.AgentConfig()),
	}

	start := time.Now()
	sum, err := match.RunSeries(ctx, series, factories)
	if err != nil {
		return err
	}
	printSummary(stdout, m.X, m.O, sum, time.Since(start))

	if *matPath != "" {
		f, err := os.Create(*matPath)
		if err != nil {
			return err
		}
		if err := match.WriteMAT(f, results); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Wrote %d games to %s\n", len(results), *matPath)
	}
	return nil
}

func printSummary(w io.Writer, x, o string, sum match.Summary, elapsed time.Duration) {
	fmt.Fprintf(w, "%d games in %.1fs\n", sum.Games, elapsed.Seconds())
	fmt.Fprintf(w, "  %-16s %5s %7s %6s\n", "agent", "wins", "rate", "hits")
	for _, row := range []struct {
		p    game.Player
		kind string
	}{{game.X, x}, {game.O, o}} {
		fmt.Fprintf(w, "  %-16s %5d %6.1f%% %6d\n",
			row.p.String()+" "+row.kind, sum.Wins[row.p], sum.WinRate[row.p]*100, sum.Hits[row.p])
	}
	fmt.Fprintf(w, "  turns: mean %.1f, std dev %.1f, min %d, max %d\n",
		sum.MeanTurns, sum.StdDevTurns, sum.MinTurns, sum.MaxTurns)
}
