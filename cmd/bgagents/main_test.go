package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const startID = "4HPwATDgc/ABMA"

func runArgs(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, &stdout, &stderr)
	return stdout.String(), err
}

func TestEval(t *testing.T) {
	out, err := runArgs(t, "eval", "-p", startID)
	require.NoError(t, err)
	require.Contains(t, out, "Score for x:")
	require.Contains(t, out, "blocking")

	_, err = runArgs(t, "eval", "-p", "garbage")
	require.Error(t, err)
	_, err = runArgs(t, "eval")
	require.ErrorIs(t, err, errUsage)
}

func TestMove(t *testing.T) {
	out, err := runArgs(t, "move", "-p", startID, "-d", "3-1", "-player", "o", "-agent", "block")
	require.NoError(t, err)
	require.Contains(t, out, "Close plays")
	require.Contains(t, out, " * ")

	_, err = runArgs(t, "move", "-p", startID, "-d", "7,1")
	require.Error(t, err)
	_, err = runArgs(t, "move", "-p", startID, "-d", "3,1", "-agent", "gnubg")
	require.Error(t, err)
}

func TestMatch(t *testing.T) {
	mat := filepath.Join(t.TempDir(), "games.mat")
	out, err := runArgs(t, "match", "-x", "random", "-o", "block", "-games", "3", "-seed", "8", "-mat", mat)
	require.NoError(t, err)
	require.Contains(t, out, "3 games in")
	require.Contains(t, out, "o block")

	data, err := os.ReadFile(mat)
	require.NoError(t, err)
	require.Contains(t, string(data), " Game 3\n")

	_, err = runArgs(t, "match", "-o", "gnubg")
	require.Error(t, err)
}

func TestConfigCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bgagents.toml")
	require.NoError(t, os.WriteFile(path, []byte("[agents]\ndepth = 2\n"), 0o600))

	out, err := runArgs(t, "config", "-config", path)
	require.NoError(t, err)
	require.Contains(t, out, "depth = 2")
}

func TestUsage(t *testing.T) {
	_, err := runArgs(t)
	require.ErrorIs(t, err, errUsage)
	_, err = runArgs(t, "rollout")
	require.ErrorIs(t, err, errUsage)

	out, err := runArgs(t, "help")
	require.NoError(t, err)
	require.Contains(t, out, "Commands:")
}

func TestExternalRejectsUnknownAgent(t *testing.T) {
	_, err := runArgs(t, "external", "-agent", "gnubg")
	require.Error(t, err)
	require.Contains(t, err.Error(), "external.agent")
}
