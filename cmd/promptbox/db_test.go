package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jackzampolin/promptbox/internal/api"
	"github.com/jackzampolin/promptbox/internal/home"
	"github.com/jackzampolin/promptbox/internal/prompts"
)

// runRoot executes the root command with args and returns its stdout.
func runRoot(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("PROMPTBOX_DATABASE_PATH", "")
	t.Cleanup(func() {
		cfgFile, homeDir, outputFormat, exportFile = "", "", "yaml", ""
		api.SetOutputFormat("yaml")
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	return out.String()
}

// seededHome creates a home directory holding a seeded database.
func seededHome(t *testing.T) (string, *home.Dir) {
	t.Helper()
	dir := t.TempDir()
	h, err := home.New(dir)
	require.NoError(t, err)

	store, err := prompts.Open(context.Background(), prompts.OpenConfig{
		Path:   h.DatabasePath(),
		Seed:   true,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	require.NoError(t, store.Close())
	return dir, h
}

func assertSeededExport(t *testing.T, export Export) {
	t.Helper()
	require.Len(t, export.Folders, 3)
	require.Len(t, export.Prompts, 3)

	titles := make([]string, 0, len(export.Prompts))
	for _, p := range export.Prompts {
		titles = append(titles, p.Title)
		require.NotNil(t, p.FolderName, p.Title)
		assert.NotEmpty(t, p.Variables, p.Title)
	}
	assert.ElementsMatch(t, []string{"Blog Post Outline", "Code Review Checklist", "Explain Like I'm 5"}, titles)

	for _, f := range export.Folders {
		assert.Equal(t, int64(1), f.PromptCount, f.Name)
	}
}

func TestDBPath(t *testing.T) {
	t.Run("home default", func(t *testing.T) {
		dir := t.TempDir()
		h, err := home.New(dir)
		require.NoError(t, err)

		out := runRoot(t, "db", "path", "--home", dir)
		assert.Equal(t, h.DatabasePath()+"\n", out)
	})

	t.Run("config override", func(t *testing.T) {
		dir := t.TempDir()
		custom := filepath.Join(dir, "elsewhere", "prompts.db")
		cfg := filepath.Join(dir, "promptbox.yaml")
		require.NoError(t, os.WriteFile(cfg, []byte("database:\n  path: "+custom+"\n"), 0o644))

		out := runRoot(t, "db", "path", "--home", dir, "--config", cfg)
		assert.Equal(t, custom+"\n", out)
	})
}

func TestDBExport(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		dir, _ := seededHome(t)
		out := runRoot(t, "db", "export", "--home", dir)

		var export Export
		require.NoError(t, yaml.Unmarshal([]byte(out), &export))
		assertSeededExport(t, export)
	})

	t.Run("json", func(t *testing.T) {
		dir, _ := seededHome(t)
		out := runRoot(t, "db", "export", "--home", dir, "-o", "json")

		var export Export
		require.NoError(t, json.Unmarshal([]byte(out), &export))
		assertSeededExport(t, export)
	})

	t.Run("json file", func(t *testing.T) {
		dir, _ := seededHome(t)
		file := filepath.Join(dir, "export.json")
		out := runRoot(t, "db", "export", "--home", dir, "--file", file)
		assert.Contains(t, out, "Exported 3 folders and 3 prompts")

		data, err := os.ReadFile(file)
		require.NoError(t, err)
		var export Export
		require.NoError(t, json.Unmarshal(data, &export))
		assertSeededExport(t, export)
	})
}

func TestExportDatabase_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	export, err := exportDatabase(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, export.Folders)
	assert.Empty(t, export.Prompts)
}
