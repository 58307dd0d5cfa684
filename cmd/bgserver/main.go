// Command bgserver serves the bgagents API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/yourusername/bgagents/internal/config"
	"github.com/yourusername/bgagents/pkg/api"
)

const version = "0.1.0"

func main() {
	configPath := flag.String("config", "", "TOML configuration file")
	addr := flag.String("addr", "", "Address to listen on (overrides the configuration)")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("bgserver v%s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Log.Setup(os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	server := api.NewServer(api.Config{
		Addr:            cfg.Server.Addr,
		FastWorkers:     cfg.Server.FastWorkers,
		SlowWorkers:     cfg.Server.SlowWorkers,
		MaxGames:        cfg.Server.MaxGames,
		CacheSize:       cfg.Agents.CacheSize,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Version:         version,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := server.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server-error")
	}
}
