// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package resolve_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"seedling/internal/resolve"
)

func TestDir(t *testing.T) {
	t.Parallel()

	for input, expected := range map[string]string{
		"/a/b/c":   "/a/b",
		"/a/b/":    "/a",
		"/a":       "/",
		"/":        "/",
		"a":        ".",
		`C:\a\b`:   `C:\a`,
		`C:\a`:     `C:\`,
		`C:\`:      `C:\`,
		`\\srv\sh`: `\\srv`,
		"/a//b":    "/a",
	} {
		require.Equal(t, expected, resolve.Dir(input), input)
	}
}

func TestBase(t *testing.T) {
	t.Parallel()

	for input, expected := range map[string]string{
		"/a/b/c.txt": "c.txt",
		"/a/b/":      "b",
		"/":          "",
		`C:\`:        "",
		`C:\x\y`:     "y",
		"name":       "name",
	} {
		require.Equal(t, expected, resolve.Base(input), input)
	}
}

func TestRel(t *testing.T) {
	t.Parallel()

	rel, ok := resolve.Rel("/a/b", "/a/b/c/d.txt")
	require.True(t, ok)
	require.Equal(t, "c/d.txt", rel)

	rel, ok = resolve.Rel("/", "/x.txt")
	require.True(t, ok)
	require.Equal(t, "x.txt", rel)

	_, ok = resolve.Rel("/a/b", "/a/bc/d.txt")
	require.False(t, ok)

	_, ok = resolve.Rel("/q", "/a/b")
	require.False(t, ok)
}
