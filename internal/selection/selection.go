// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

// Package selection builds a resolve.FileSet from paths given on the command
// line, the same way a file dialog or a drop on the window would.
package selection

import (
	"os"
	"path/filepath"

	"github.com/karrick/godirwalk"
	"github.com/rs/zerolog/log"
	"github.com/trim21/errgo"

	"seedling/internal/pkg/null"
	"seedling/internal/resolve"
)

// FromPaths stats every path. A single directory is treated as a folder
// selection and sets FolderPath; otherwise directories are expanded in place
// and files are taken as they are. Hidden files are kept, the resolver drops them.
func FromPaths(paths []string) (resolve.FileSet, error) {
	var set resolve.FileSet

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return resolve.FileSet{}, errgo.Wrap(err, "failed to resolve "+p)
		}

		stat, err := os.Stat(abs)
		if err != nil {
			return resolve.FileSet{}, errgo.Wrap(err, "failed to stat "+p)
		}

		if !stat.IsDir() {
			set.Files = append(set.Files, describe(abs, stat))
			continue
		}

		if len(paths) == 1 {
			set.FolderPath = null.New(abs)
		}

		files, err := walk(abs)
		if err != nil {
			return resolve.FileSet{}, err
		}

		set.Files = append(set.Files, files...)
	}

	return set, nil
}

func describe(abs string, stat os.FileInfo) resolve.FileDescriptor {
	return resolve.FileDescriptor{
		Name: filepath.Base(abs),
		Path: abs,
		Size: uint64(max(stat.Size(), 0)),
	}
}

func walk(dir string) ([]resolve.FileDescriptor, error) {
	var files []resolve.FileDescriptor

	err := godirwalk.Walk(dir, &godirwalk.Options{
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if !de.IsRegular() {
				return nil
			}

			stat, err := os.Stat(osPathname)
			if err != nil {
				return err
			}

			files = append(files, describe(osPathname, stat))

			return nil
		},
		ErrorCallback: func(osPathname string, err error) godirwalk.ErrorAction {
			log.Warn().Err(err).Str("path", osPathname).Msg("skip unreadable entry")
			return godirwalk.SkipNode
		},
	})
	if err != nil {
		return nil, errgo.Wrap(err, "failed to walk "+dir)
	}

	return files, nil
}
