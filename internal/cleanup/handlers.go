// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package cleanup

import (
	"os"
	"path/filepath"

	"go.uber.org/multierr"

	"seedling/internal/pkg/sys"
)

// DesktopHandlers removes the freedesktop entries that register the client
// for .torrent files and magnet links.
type DesktopHandlers struct {
	// $XDG_DATA_HOME/applications by default
	Dir     string
	Entries []string
}

func NewDesktopHandlers(entries []string) DesktopHandlers {
	return DesktopHandlers{Dir: applicationsDir(), Entries: entries}
}

func applicationsDir() string {
	d := sys.DataHome()
	if d == "" {
		return ""
	}

	return filepath.Join(d, "applications")
}

func (d DesktopHandlers) Uninstall() error {
	if !sys.IsLinux || d.Dir == "" {
		return nil
	}

	var err error
	for _, entry := range d.Entries {
		if e := os.Remove(filepath.Join(d.Dir, entry)); e != nil && !os.IsNotExist(e) {
			err = multierr.Append(err, e)
		}
	}

	return err
}
