// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package config_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"seedling/internal/config"
)

func TestLoadFromFile_Missing(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadFromFile(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)
	require.Equal(t, config.DefaultTrackers, cfg.PageOptions().DefaultTrackers)
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(p, []byte(`
[create]
trackers = ["udp://tracker.example:80"]
max-file-lines = 10

[cleanup]
temp-dir-name = "seedling"
desktop-entries = ["a.desktop", "b.desktop"]
`), 0o600))

	cfg, err := config.LoadFromFile(p)
	require.NoError(t, err)

	require.Equal(t, []string{"udp://tracker.example:80"}, cfg.Create.Trackers)
	require.Equal(t, 10, cfg.PageOptions().MaxFileLines)
	require.Equal(t, 4, cfg.Create.Workers)
	require.Equal(t, "seedling", cfg.Cleanup.TempDirName)
	require.Equal(t, []string{"a.desktop", "b.desktop"}, cfg.Cleanup.DesktopEntries)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	p := filepath.Join(dir, "broken.toml")
	require.NoError(t, os.WriteFile(p, []byte("[create\n"), 0o600))
	_, err := config.LoadFromFile(p)
	require.Error(t, err)

	for _, name := range []string{"../etc", "..", ".", " ", "a/b", `a\b`, "/tmp", `C:\temp`} {
		p = filepath.Join(dir, "escape.toml")
		require.NoError(t, os.WriteFile(p, []byte(fmt.Sprintf("[cleanup]\ntemp-dir-name = %q\n", name)), 0o600))
		_, err = config.LoadFromFile(p)
		require.Error(t, err, name)
	}
}

func TestLoadFromFile_EmptyTempDirName(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(p, []byte("[cleanup]\ntemp-dir-name = \"\"\n"), 0o600))

	cfg, err := config.LoadFromFile(p)
	require.NoError(t, err)
	require.Equal(t, config.Default().Cleanup.TempDirName, cfg.Cleanup.TempDirName)
}
