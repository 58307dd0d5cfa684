package main

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/yourusername/bgagents/pkg/external"
	"github.com/yourusername/bgagents/pkg/heuristic"
)

func cmdExternal(args []string, stdout, stderr io.Writer) error {
	c := newCommand("external", stderr)
	addr := c.fs.String("addr", "", "Listen address")
	kind := c.fs.String("agent", "", "Agent choosing moves")
	depth := c.fs.Int("depth", 0, "Search depth")
	prompt := c.fs.Bool("prompt", false, `Write "> " before each command`)
	cfg, set, err := c.load(args)
	if err != nil {
		return err
	}

	ext := cfg.External
	if set["addr"] {
		ext.Addr = *addr
	}
	if set["agent"] {
		ext.Agent = *kind
	}
	if set["prompt"] {
		ext.Prompt = *prompt
	}
	if set["depth"] {
		cfg.Agents.Depth = *depth
	}
	cfg.External = ext
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts := external.Options{
		Agent:  ext.Agent,
		Depth:  cfg.Agents.Depth,
		Seed:   cfg.Agents.Seed,
		Prompt: ext.Prompt,
	}
	if cfg.Agents.CacheSize > 0 {
		opts.Cache = heuristic.NewCache(cfg.Agents.CacheSize)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return external.NewServer(opts).ListenAndServe(ctx, ext.Addr)
}
