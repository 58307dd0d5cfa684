// bgagents plays and inspects backgammon agents from the command line.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/bgagents/internal/config"
	"github.com/yourusername/bgagents/pkg/agent"
	"github.com/yourusername/bgagents/pkg/game"
	"github.com/yourusername/bgagents/pkg/heuristic"
)

var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) && !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) < 1 {
		printUsage(stderr)
		return errUsage
	}

	command, args := args[0], args[1:]
	switch command {
	case "eval":
		return cmdEval(args, stdout, stderr)
	case "move":
		return cmdMove(args, stdout, stderr)
	case "match":
		return cmdMatch(args, stdout, stderr)
	case "external":
		return cmdExternal(args, stdout, stderr)
	case "config":
		return cmdConfig(args, stdout, stderr)
	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	}
	fmt.Fprintf(stderr, "Unknown command: %s\n", command)
	printUsage(stderr)
	return errUsage
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `bgagents - Backgammon move selection agents

Usage: bgagents <command> [options]

Commands:
  eval      Score a position with the heuristic evaluator
  move      Choose a move for a roll with one of the agents
  match     Play a series of games between two agents
  external  Serve gnubg's external player protocol
  config    Print the effective configuration

Use "bgagents <command> -h" for command-specific help.

Positions are gnubg position IDs, e.g. "4HPwATDgc/ABMA", read with the
-player side on roll. Agents: `+strings.Join(agent.Kinds, ", ")+`.`)
}

// command holds the flags shared by every subcommand.
type command struct {
	fs         *flag.FlagSet
	configPath *string
	stderr     io.Writer
}

func newCommand(name string, stderr io.Writer) *command {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return &command{
		fs:         fs,
		configPath: fs.String("config", "", "TOML configuration file"),
		stderr:     stderr,
	}
}

// load parses args, loads the configuration and sets up logging. The
// returned set holds the names of the flags given on the command line,
// which override the configuration.
func (c *command) load(args []string) (config.Config, map[string]bool, error) {
	if err := c.fs.Parse(args); err != nil {
		return config.Config{}, nil, err
	}
	cfg, err := config.Load(*c.configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	if err := cfg.Log.Setup(c.stderr); err != nil {
		return config.Config{}, nil, err
	}
	set := make(map[string]bool)
	c.fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return cfg, set, nil
}

func parseDice(s string) (game.Outcome, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		parts = strings.Split(s, "-")
	}
	if len(parts) != 2 {
		return game.Outcome{}, fmt.Errorf("dice should be in format '3,1' or '3-1'")
	}
	d1, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	d2, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return game.Outcome{}, fmt.Errorf("dice should be in format '3,1' or '3-1'")
	}
	return game.NewOutcome(d1, d2)
}

func parsePosition(id, side string) (*game.State, game.Player, error) {
	p, err := game.ParsePlayer(side)
	if err != nil {
		return nil, 0, err
	}
	s, err := game.FromPositionID(id, p)
	if err != nil {
		return nil, 0, err
	}
	return s, p, nil
}

func cmdEval(args []string, stdout, stderr io.Writer) error {
	c := newCommand("eval", stderr)
	pos := c.fs.String("p", "", "Position ID")
	side := c.fs.String("player", "x", "Side on roll and scored for (x or o)")
	if _, _, err := c.load(args); err != nil {
		return err
	}
	if *pos == "" {
		fmt.Fprintln(stderr, "Usage: bgagents eval -p <positionID> [-player x|o]")
		return errUsage
	}

	s, p, err := parsePosition(*pos, *side)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Score for %s: %+.4f\n", p, heuristic.Score(s, p))
	fmt.Fprintf(stdout, "%-14s %8s %8s\n", "feature", p, p.Opponent())
	own, opp := heuristic.Extract(s, p), heuristic.Extract(s, p.Opponent())
	for _, row := range []struct {
		name     string
		own, opp float64
	}{
		{"vulnerability", own.Vulnerability, opp.Vulnerability},
		{"hitting", own.Hitting, opp.Hitting},
		{"blocking", own.Blocking, opp.Blocking},
		{"bear-in", own.BearIn, opp.BearIn},
		{"bear-off", own.BearOff, opp.BearOff},
	} {
		fmt.Fprintf(stdout, "%-14s %8.4f %8.4f\n", row.name, row.own, row.opp)
	}
	if w, ok := s.Winner(); ok {
		fmt.Fprintf(stdout, "Game over: %s has won\n", w)
	}
	return nil
}

func cmdMove(args []string, stdout, stderr io.Writer) error {
	c := newCommand("move", stderr)
	pos := c.fs.String("p", "", "Position ID")
	dice := c.fs.String("d", "", "Dice roll (e.g., 3,1 or 3-1)")
	side := c.fs.String("player", "x", "Side on roll (x or o)")
	kind := c.fs.String("agent", agent.KindExpectiminimax, "Agent choosing the move")
	depth := c.fs.Int("depth", 0, "Search depth (default from configuration)")
	seed := c.fs.Uint64("seed", 0, "Seed for agents that pick randomly")
	cfg, set, err := c.load(args)
	if err != nil {
		return err
	}
	if *pos == "" || *dice == "" {
		fmt.Fprintln(stderr, "Usage: bgagents move -p <positionID> -d <roll> [-agent kind] [-depth n]")
		return errUsage
	}

	s, p, err := parsePosition(*pos, *side)
	if err != nil {
		return err
	}
	roll, err := parseDice(*dice)
	if err != nil {
		return err
	}
	if set["depth"] {
		cfg.Agents.Depth = *depth
	}
	if set["seed"] {
		cfg.Agents.Seed = *seed
	}

	a, err := agent.New(*kind, p, cfg.Agents.AgentConfig())
	if err != nil {
		return err
	}
	legal := s.LegalMoves(roll, p)
	start := time.Now()
	m, err := a.SelectMove(legal, s)
	if err != nil {
		return err
	}

	if len(legal) == 0 {
		fmt.Fprintf(stdout, "No legal moves for %s (forced to pass)\n", roll)
		return nil
	}
	fmt.Fprintf(stdout, "Legal moves for %s rolling %s:\n", p, roll)
	for i, l := range legal {
		marker := " "
		if l.Equal(m) {
			marker = "*"
		}
		fmt.Fprintf(stdout, " %s %2d. %s\n", marker, i+1, l)
	}
	after := s.Clone()
	after.ApplyMove(m, p)
	fmt.Fprintf(stdout, "%s plays %s (%.1fms)\n", agent.Name(a), m, float64(time.Since(start).Microseconds())/1000)
	fmt.Fprintf(stdout, "Resulting position: %s\n", after.PositionID(p.Opponent()))
	return nil
}

func cmdConfig(args []string, stdout, stderr io.Writer) error {
	c := newCommand("config", stderr)
	cfg, _, err := c.load(args)
	if err != nil {
		return err
	}
	return cfg.Dump(stdout)
}
