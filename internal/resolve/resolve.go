// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

// Package resolve derives the metadata of a new torrent from a selection of
// files: where the files have in common, what the torrent is called, and the
// path of every file inside it.
package resolve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"

	"seedling/internal/pkg/null"
)

// ErrEmptySelection is returned when no visible file is left to build a torrent from.
var ErrEmptySelection = errors.New("select at least one file that is not hidden")

const hiddenMarker = "."

type FileDescriptor struct {
	Name string `json:"name" validate:"required" required:"true"`
	Path string `json:"path" validate:"required" required:"true" description:"absolute path on the host"`
	Size uint64 `json:"size"`
}

func (f FileDescriptor) Hidden() bool {
	return strings.HasPrefix(f.Name, hiddenMarker)
}

type FileSet struct {
	// FolderPath is set when the user picked a whole folder instead of loose files.
	FolderPath null.Null[string] `json:"folder_path" description:"folder selected by the user, if any"`
	Files      []FileDescriptor  `json:"files" validate:"dive"`
}

type Metadata struct {
	CommonPrefix  string   `json:"common_prefix"`
	DefaultName   string   `json:"default_name"`
	BasePath      string   `json:"base_path"`
	RelativePaths []string `json:"relative_paths"`
	TotalBytes    uint64   `json:"total_bytes"`
}

// Summary is the one line sanity check shown above the form, like "3 files, 1.2 MB".
func (m Metadata) Summary() string {
	return fmt.Sprintf("%d files, %s", len(m.RelativePaths), humanize.Bytes(m.TotalBytes))
}

// FilterVisible drops dotfiles such as .DS_Store, keeping the order of the rest.
func FilterVisible(set FileSet) FileSet {
	return FileSet{
		FolderPath: set.FolderPath,
		Files: lo.Filter(set.Files, func(item FileDescriptor, _ int) bool {
			return !item.Hidden()
		}),
	}
}

func longestCommonPrefix(a, b string) string {
	n := min(len(a), len(b))

	i := 0
	for i < n && a[i] == b[i] {
		i++
	}

	return a[:i]
}

// CommonPrefix returns the deepest directory containing every path.
//
// The comparison is byte by byte, not segment by segment, so a prefix that ends
// in the middle of a name is moved up to its directory. A single path yields
// its own directory.
func CommonPrefix(paths []string) string {
	if len(paths) == 0 {
		return ""
	}

	prefix := lo.Reduce(paths[1:], func(agg string, item string, _ int) string {
		return longestCommonPrefix(agg, item)
	}, paths[0])

	if !hasTrailingSeparator(prefix) {
		prefix = Dir(prefix)
	}

	return trimTrailing(prefix)
}

// Derive computes the torrent metadata for a selection.
//
// A single file keeps its own name and is added in place from its directory.
// Several files become one folder named after their common directory, which
// is then referenced in place from its parent.
func Derive(set FileSet) (Metadata, error) {
	files := FilterVisible(set).Files
	if len(files) == 0 {
		return Metadata{}, ErrEmptySelection
	}

	var prefix string
	if folder := set.FolderPath.Default(""); folder != "" {
		prefix = trimTrailing(folder)
	} else {
		prefix = CommonPrefix(lo.Map(files, func(item FileDescriptor, _ int) string {
			return item.Path
		}))
	}

	m := Metadata{
		CommonPrefix: prefix,
		TotalBytes: lo.SumBy(files, func(item FileDescriptor) uint64 {
			return item.Size
		}),
	}

	if len(files) == 1 {
		m.DefaultName = files[0].Name
		m.BasePath = prefix
	} else {
		m.DefaultName = Base(prefix)
		m.BasePath = Dir(prefix)
	}

	m.RelativePaths = lo.Map(files, func(item FileDescriptor, _ int) string {
		rel, ok := Rel(prefix, item.Path)
		if !ok || rel == "" {
			return item.Name
		}

		return rel
	})

	return m, nil
}
