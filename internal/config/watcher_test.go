package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherDeliversReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "swipekit.toml")

	cfg := DefaultConfig()
	require.NoError(t, cfg.Save(path))

	w, err := NewWatcher(path, 50*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	cfg.Detector.Sensitivity = 1.25
	require.NoError(t, cfg.Save(path))

	select {
	case fresh := <-w.Configs():
		assert.Equal(t, 1.25, fresh.Detector.Sensitivity)
	case err := <-w.Errors():
		t.Fatalf("reload error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload delivered")
	}
}

func TestWatcherRejectsBrokenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "swipekit.toml")
	require.NoError(t, DefaultConfig().Save(path))

	w, err := NewWatcher(path, 50*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("version = \"not a number\"\n"), 0o644))

	select {
	case cfg := <-w.Configs():
		t.Fatalf("broken file produced a config: %+v", cfg)
	case err := <-w.Errors():
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload error delivered")
	}
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "swipekit.toml")
	require.NoError(t, DefaultConfig().Save(path))

	w, err := NewWatcher(path, 50*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x = 1\n"), 0o644))

	select {
	case cfg := <-w.Configs():
		t.Fatalf("sibling write triggered a reload: %+v", cfg)
	case err := <-w.Errors():
		t.Fatalf("sibling write triggered an error: %v", err)
	case <-time.After(500 * time.Millisecond):
	}
}
