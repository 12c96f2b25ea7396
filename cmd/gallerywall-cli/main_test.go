package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gallerywall/internal/config"
	"gallerywall/internal/settings"
)

func newTestRoot() *cobra.Command {
	return NewRootCmd(func(dbPath string) (*settings.Store, error) {
		return settings.Open(dbPath, nil)
	})
}

// executeCommandC executes a cobra command and captures its output.
// Flag globals are reset to their defaults by NewRootCmd, so pass a fresh root each time.
func executeCommandC(root *cobra.Command, args ...string) (string, string, error) {
	actualStdout := new(bytes.Buffer)
	actualStderr := new(bytes.Buffer)
	root.SetOut(actualStdout)
	root.SetErr(actualStderr)
	root.SetArgs(args)

	err := root.Execute()

	// A failed command skips the post-run hook; release the database lock here.
	if store != nil {
		store.Close()
		store = nil
	}
	return actualStdout.String(), actualStderr.String(), err
}

func TestRootHelp(t *testing.T) {
	stdout, stderr, err := executeCommandC(newTestRoot(), "--help")
	require.NoError(t, err, "stdout: %s, stderr: %s", stdout, stderr)
	assert.Contains(t, stdout, "Usage:")
	assert.Contains(t, stdout, "gallerywall-cli [command]")
}

func TestSettingsCommands(t *testing.T) {
	db := t.TempDir()

	t.Run("show defaults", func(t *testing.T) {
		stdout, stderr, err := executeCommandC(newTestRoot(), "--dbpath", db, "settings", "show")
		require.NoError(t, err, "stderr: %s", stderr)
		assert.Contains(t, stdout, "No saved settings, showing defaults.")
		assert.Regexp(t, `flip_duration\s+2.5s`, stdout)
	})

	t.Run("set", func(t *testing.T) {
		stdout, stderr, err := executeCommandC(newTestRoot(), "--dbpath", db, "settings", "set", "rows", "5")
		require.NoError(t, err, "stderr: %s", stderr)
		assert.Contains(t, stdout, "rows updated.")

		_, _, err = executeCommandC(newTestRoot(), "--dbpath", db, "settings", "set", "zoom_duration", "4s")
		require.NoError(t, err)

		s, err := settings.Open(db, nil)
		require.NoError(t, err)
		cfg, ok, err := s.Load(config.Default())
		require.NoError(t, s.Close())
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 5, cfg.Rows)
		assert.Equal(t, 4*time.Second, cfg.ZoomDuration)
	})

	t.Run("set rejects invalid values", func(t *testing.T) {
		_, _, err := executeCommandC(newTestRoot(), "--dbpath", db, "settings", "set", "rows", "40")
		assert.Error(t, err)
		_, _, err = executeCommandC(newTestRoot(), "--dbpath", db, "settings", "set", "no_such_key", "1")
		assert.ErrorContains(t, err, "unknown setting")
	})

	t.Run("show saved", func(t *testing.T) {
		stdout, _, err := executeCommandC(newTestRoot(), "--dbpath", db, "settings", "show")
		require.NoError(t, err)
		assert.NotContains(t, stdout, "No saved settings")
		assert.Regexp(t, `rows\s+5`, stdout)
	})

	t.Run("reset", func(t *testing.T) {
		stdout, _, err := executeCommandC(newTestRoot(), "--dbpath", db, "settings", "reset")
		require.NoError(t, err)
		assert.Contains(t, stdout, "Settings reset to defaults.")

		stdout, _, err = executeCommandC(newTestRoot(), "--dbpath", db, "settings", "show")
		require.NoError(t, err)
		assert.Regexp(t, `rows\s+3`, stdout)
	})
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))))
}

func TestScanCommand(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 4, 4)
	writePNG(t, filepath.Join(dir, "b.PNG"), 4, 4)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	writePNG(t, filepath.Join(dir, "sub", "c.png"), 4, 4)

	stdout, _, err := executeCommandC(newTestRoot(), "scan", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "a.png")
	assert.Contains(t, stdout, "b.PNG")
	assert.NotContains(t, stdout, "notes.txt")
	assert.NotContains(t, stdout, "c.png")
	assert.Contains(t, stdout, "2 images")

	stdout, _, err = executeCommandC(newTestRoot(), "scan", "--recursive", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "3 images")

	stdout, _, err = executeCommandC(newTestRoot(), "scan", "--ext", ".jpg", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "No images found")

	_, _, err = executeCommandC(newTestRoot(), "scan", filepath.Join(dir, "missing"))
	assert.ErrorContains(t, err, "directory unavailable")
}

func TestProbeCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.png")
	writePNG(t, path, 300, 200)

	stdout, _, err := executeCommandC(newTestRoot(), "probe", "--max-size", "100", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Format:      png")
	assert.Contains(t, stdout, "Dimensions:  100x")

	stdout, _, err = executeCommandC(newTestRoot(), "probe", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Dimensions:  300x200")

	notImage := filepath.Join(dir, "fake.png")
	require.NoError(t, os.WriteFile(notImage, []byte("plain text"), 0o644))
	_, _, err = executeCommandC(newTestRoot(), "probe", notImage)
	assert.ErrorContains(t, err, "not an image")
}
