package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bgagents/pkg/agent"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	require.Equal(t, ":8080", c.Server.Addr)
	require.Equal(t, agent.DefaultDepth, c.Agents.Depth)
	require.Equal(t, agent.KindExpectiminimax, c.Match.X)
	require.Equal(t, agent.KindCapture, c.Match.O)
	require.Equal(t, ":1234", c.External.Addr)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bgagents.toml")
	doc := `
[server]
addr = "127.0.0.1:9000"
shutdown_timeout = "3s"

[agents]
depth = 2
cache_size = 0

[match]
x = "block"
games = 12
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9000", c.Server.Addr)
	require.Equal(t, 3*time.Second, c.Server.ShutdownTimeout)
	require.Equal(t, 2, c.Agents.Depth)
	require.Zero(t, c.Agents.CacheSize)
	require.Nil(t, c.Agents.AgentConfig().Cache)
	require.Equal(t, "block", c.Match.X)
	require.Equal(t, 12, c.Match.Games)

	// Untouched keys keep their defaults.
	require.Equal(t, agent.KindCapture, c.Match.O)
	require.Equal(t, 2, c.Server.SlowWorkers)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, doc string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
		return path
	}

	tests := []struct {
		name string
		path string
		want string
	}{
		{"missing file", filepath.Join(dir, "nope.toml"), "nope.toml"},
		{"syntax", write("syntax.toml", "[server\n"), "syntax.toml"},
		{"unknown key", write("unknown.toml", "[server]\nport = 1\n"), "server.port"},
		{"unknown agent", write("agent.toml", "[match]\no = \"gnubg\"\n"), "match.o"},
		{"unknown external agent", write("external.toml", "[external]\nagent = \"gnubg\"\n"), "external.agent"},
		{"bad level", write("level.toml", "[log]\nlevel = \"loud\"\n"), "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bgagents.toml")
	require.NoError(t, os.WriteFile(path, []byte("[agents]\ndepth = 2\n"), 0o600))

	t.Setenv("BGAGENTS_AGENTS_DEPTH", "3")
	t.Setenv("BGAGENTS_SERVER_ADDR", ":7000")
	t.Setenv("BGAGENTS_MATCH_O", "random")
	t.Setenv("BGAGENTS_LOG_CONSOLE", "false")
	t.Setenv("BGAGENTS_EXTERNAL_PROMPT", "true")

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 3, c.Agents.Depth)
	require.Equal(t, ":7000", c.Server.Addr)
	require.Equal(t, agent.KindRandom, c.Match.O)
	require.False(t, c.Log.Console)
	require.True(t, c.External.Prompt)
}

func TestEnvParseError(t *testing.T) {
	t.Setenv("BGAGENTS_MATCH_GAMES", "many")
	_, err := Load("")
	require.Error(t, err)
	require.True(t, strings.HasPrefix(err.Error(), "parse env:"), err.Error())
}

func TestDumpRoundTrip(t *testing.T) {
	c := Default()
	c.Match.Games = 7
	c.Server.ShutdownTimeout = 90 * time.Second

	var buf bytes.Buffer
	require.NoError(t, c.Dump(&buf))

	var got Config
	require.NoError(t, Decode(&buf, &got))
	require.Equal(t, c, got)
}

func TestLogSetup(t *testing.T) {
	defer func(l zerolog.Logger, lvl zerolog.Level) {
		log.Logger = l
		zerolog.SetGlobalLevel(lvl)
	}(log.Logger, zerolog.GlobalLevel())

	var buf bytes.Buffer
	require.NoError(t, LogConfig{Level: "warn"}.Setup(&buf))
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"message":"shown"`)

	require.Error(t, LogConfig{Level: "loud"}.Setup(&buf))
}
