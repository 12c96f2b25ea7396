package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gallerywall/internal/config"
	"gallerywall/internal/settings"
	"gallerywall/internal/ui"
)

// execute runs the command with a fake window and returns the options it received.
func execute(t *testing.T, args ...string) (ui.Options, error) {
	t.Helper()
	var got ui.Options
	cmd := NewRootCmd(func(_ context.Context, opts ui.Options) error {
		got = opts
		return nil
	})
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return got, err
}

func TestFlagsOverrideEverything(t *testing.T) {
	db := t.TempDir()
	folder := t.TempDir()
	store, err := settings.Open(db, nil)
	require.NoError(t, err)
	saved := config.Default()
	saved.Rows, saved.Columns = 5, 5
	saved.FlipFrequency = 7 * time.Second
	require.NoError(t, store.Save(saved))
	require.NoError(t, store.Close())

	yamlPath := filepath.Join(t.TempDir(), "wall.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("rows: 6\nzoom_duration: 3s\n"), 0o644))

	opts, err := execute(t, "--dbpath", db, "--config", yamlPath, "--columns", "2", folder)
	require.NoError(t, err)
	cfg := opts.Config
	assert.Equal(t, folder, cfg.Folder)
	assert.Equal(t, 6, cfg.Rows, "yaml beats saved settings")
	assert.Equal(t, 2, cfg.Columns, "flag beats saved settings")
	assert.Equal(t, 7*time.Second, cfg.FlipFrequency, "saved settings beat defaults")
	assert.Equal(t, 3*time.Second, cfg.ZoomDuration)
	assert.NotNil(t, opts.Store)
}

func TestDefaultsWithoutSources(t *testing.T) {
	opts, err := execute(t, "--dbpath", t.TempDir(), "--no-save", "--fullscreen")
	require.NoError(t, err)
	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, wd, opts.Config.Folder)
	assert.Equal(t, 3, opts.Config.Rows)
	assert.True(t, opts.FullScreen)
	assert.Nil(t, opts.Store)
}

func TestInvalidFlagsRejected(t *testing.T) {
	_, err := execute(t, "--dbpath", t.TempDir(), "--rows", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rows")

	_, err = execute(t, "--dbpath", t.TempDir(), "--folder", "a", "b")
	assert.Error(t, err)
}
