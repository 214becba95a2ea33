package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekulkisnek/chi-events-pro/internal/config"
	"github.com/ekulkisnek/chi-events-pro/internal/dataset"
	"github.com/ekulkisnek/chi-events-pro/internal/events"
)

func withTestApp(t *testing.T) {
	t.Helper()
	orig := newApp
	newApp = func() (*App, error) {
		cfg, err := config.Load("")
		if err != nil {
			return nil, err
		}
		return &App{Config: cfg, Logger: zap.NewNop()}, nil
	}
	t.Cleanup(func() { newApp = orig })
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestValidateCommandPasses(t *testing.T) {
	withTestApp(t)
	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, dataset.Write(path, []events.Event{{
		Title:       "Jazz Night",
		DateInfo:    "Sep 21, 2099",
		Location:    "Harris Theater",
		Description: "An evening of live jazz with a rotating quartet.",
		EventURL:    "https://example.test/events/jazz",
	}}))

	out, err := runCommand(t, "validate", "--data", path)
	require.NoError(t, err)
	require.Contains(t, out, `"valid": 1`)
}

func TestValidateCommandFailsBelowThreshold(t *testing.T) {
	withTestApp(t)
	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, dataset.Write(path, []events.Event{
		{Title: "junk"}, {Title: "more junk"},
	}))

	_, err := runCommand(t, "validate", "--data", path)
	require.Error(t, err)
}

func TestExpandSeedsCommand(t *testing.T) {
	withTestApp(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "seeds.txt")
	out := filepath.Join(dir, "expanded.txt")
	require.NoError(t, os.WriteFile(in, []byte("https://do312.com/events\n"), 0o644))

	_, err := runCommand(t, "expand-seeds", "--seeds", in, "--out", out)
	require.NoError(t, err)

	body, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(body), "https://do312.com/events?page=2")
}

func TestConsolidateCommand(t *testing.T) {
	withTestApp(t)
	dir := t.TempDir()
	run := filepath.Join(dir, "run.json")
	out := filepath.Join(dir, "events.json")
	require.NoError(t, dataset.Write(run, []events.Event{{
		Title:       "Jazz Night",
		DateInfo:    "Sep 21, 2099",
		Location:    "Harris Theater",
		Description: "An evening of live jazz with a rotating quartet.",
		EventURL:    "https://example.test/events/jazz",
	}}))

	_, err := runCommand(t, "consolidate", run, "--out", out)
	require.NoError(t, err)

	records, err := dataset.Load(out)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotEmpty(t, records[0].Timestamp)
}
