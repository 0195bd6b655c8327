// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package dispatch_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"seedling/internal/create"
	"seedling/internal/dispatch"
	"seedling/internal/resolve"
)

func request(name string) create.Request {
	return create.Request{
		Name:     name,
		Path:     "/a",
		Files:    []resolve.FileDescriptor{{Name: "foo.jpg", Path: "/a/" + name + "/foo.jpg", Size: 1}},
		Announce: []string{"udp://tracker.example:80"},
		Comment:  "c",
	}
}

func TestDispatcher(t *testing.T) {
	t.Parallel()

	var (
		m    sync.Mutex
		seen []string
	)

	d, err := dispatch.New(dispatch.CreatorFunc(func(ctx context.Context, req create.Request) error {
		m.Lock()
		defer m.Unlock()

		if req.Name == "bad" {
			return errors.New("boom")
		}

		seen = append(seen, req.Name)
		return nil
	}), 2)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	d.Register(reg)

	for _, name := range []string{"a", "b", "bad", "c"} {
		require.NoError(t, d.Dispatch(request(name)))
	}

	d.Close()

	require.ElementsMatch(t, []string{"a", "b", "c"}, seen)

	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP seedling_torrents_created_total creation requests accepted by the creator
# TYPE seedling_torrents_created_total counter
seedling_torrents_created_total 3
# HELP seedling_torrents_failed_total creation requests rejected by the creator
# TYPE seedling_torrents_failed_total counter
seedling_torrents_failed_total 1
# HELP seedling_torrents_in_flight creation requests currently handled by the creator
# TYPE seedling_torrents_in_flight gauge
seedling_torrents_in_flight 0
`), "seedling_torrents_created_total", "seedling_torrents_failed_total", "seedling_torrents_in_flight"))

	require.Error(t, d.Dispatch(request("late")))
}

func TestSpool(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "pending")
	s := dispatch.Spool{Dir: dir}

	require.NoError(t, s.Create(context.Background(), request("a")))
	require.NoError(t, s.Create(context.Background(), request("b")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var names []string
	for _, e := range entries {
		require.True(t, strings.HasSuffix(e.Name(), ".json"), e.Name())

		raw, err := os.ReadFile(filepath.Join(dir, e.Name()))
		require.NoError(t, err)

		var req create.Request
		require.NoError(t, json.Unmarshal(raw, &req))
		names = append(names, req.Name)
		require.Equal(t, request(req.Name), req)
	}

	require.ElementsMatch(t, []string{"a", "b"}, names)
}

func TestSpool_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dir := filepath.Join(t.TempDir(), "pending")
	require.ErrorIs(t, dispatch.Spool{Dir: dir}.Create(ctx, request("a")), context.Canceled)

	_, err := os.Stat(dir)
	require.True(t, os.IsNotExist(err))
}
