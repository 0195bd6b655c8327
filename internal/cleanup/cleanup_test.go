// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package cleanup_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"seedling/internal/cleanup"
	"seedling/internal/pkg/sys"
)

type handlers struct {
	err   error
	calls int
}

func (h *handlers) Uninstall() error {
	h.calls++
	return h.err
}

func TestRun_Plan(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config")
	tempPath := filepath.Join(dir, "tmp", "webtorrent")

	require.NoError(t, os.MkdirAll(filepath.Join(configPath, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configPath, "nested", "state.json"), []byte("{}"), 0o600))
	require.NoError(t, os.MkdirAll(tempPath, 0o755))

	h := &handlers{}
	r := cleanup.Run(context.Background(), cleanup.Plan(configPath, tempPath, h))

	require.NoError(t, r.Err)
	require.Equal(t, 3, r.Attempted)
	require.Equal(t, 1, h.calls)
	require.NoDirExists(t, configPath)
	require.NoDirExists(t, tempPath)
}

func TestRun_ContinuesAfterFailure(t *testing.T) {
	t.Parallel()

	var ran []string
	step := func(name string, err error) cleanup.Step {
		return cleanup.Step{Name: name, Run: func() error {
			ran = append(ran, name)
			return err
		}}
	}

	errA := errors.New("a failed")
	errC := errors.New("c failed")

	r := cleanup.Run(context.Background(), []cleanup.Step{
		step("a", errA),
		step("b", nil),
		step("c", errC),
	})

	require.Equal(t, []string{"a", "b", "c"}, ran)
	require.Equal(t, 3, r.Attempted)
	require.Len(t, r.Failures(), 2)
	require.ErrorIs(t, r.Err, errA)
	require.ErrorIs(t, r.Err, errC)
}

func TestRun_MissingPathsAreFine(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	h := &handlers{}

	r := cleanup.Run(context.Background(), cleanup.Plan(filepath.Join(dir, "a"), filepath.Join(dir, "b"), h))
	require.NoError(t, r.Err)
	require.Empty(t, r.Failures())
}

func TestRun_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := &handlers{}
	r := cleanup.Run(ctx, cleanup.Plan(t.TempDir(), t.TempDir(), h))
	require.Equal(t, 0, r.Attempted)
	require.ErrorIs(t, r.Err, context.Canceled)
	require.Zero(t, h.calls)
}

func TestTempPath(t *testing.T) {
	t.Parallel()

	require.Equal(t, filepath.Join(sys.TempRoot(), "webtorrent"), cleanup.TempPath("webtorrent"))
}

func TestNewDesktopHandlers(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")

	h := cleanup.NewDesktopHandlers([]string{"a.desktop"})
	require.Equal(t, filepath.Join("/data", "applications"), h.Dir)
	require.Equal(t, []string{"a.desktop"}, h.Entries)
}

func TestDesktopHandlers(t *testing.T) {
	t.Parallel()

	if !sys.IsLinux {
		t.Skip("desktop entries are only installed on linux")
	}

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.desktop"), nil, 0o600))

	h := cleanup.DesktopHandlers{Dir: dir, Entries: []string{"a.desktop", "missing.desktop"}}
	require.NoError(t, h.Uninstall())
	require.NoFileExists(t, filepath.Join(dir, "a.desktop"))
}
