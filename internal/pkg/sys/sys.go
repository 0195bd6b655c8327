// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

// Package sys locates the per-platform directories the client writes to.
package sys

import (
	"os"
	"path/filepath"
	"runtime"
)

const IsLinux = runtime.GOOS == "linux"

// TempRoot is /tmp when it exists, the OS temp directory otherwise.
func TempRoot() string {
	if stat, err := os.Stat("/tmp"); err == nil && stat.IsDir() {
		return "/tmp"
	}

	return os.TempDir()
}

// DataHome is $XDG_DATA_HOME, falling back to ~/.local/share.
// It is "" when neither can be found.
func DataHome() string {
	if d := os.Getenv("XDG_DATA_HOME"); d != "" {
		return d
	}

	h, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(h, ".local", "share")
}
