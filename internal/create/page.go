// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package create

import (
	"fmt"
	"strings"

	"seedling/internal/resolve"
)

const DefaultMaxFileLines = 100

// Page is everything the "create torrent" view shows.
type Page struct {
	Title     string           `json:"title" required:"true"`
	Info      string           `json:"info" required:"true"`
	Path      string           `json:"path" required:"true"`
	Panel     string           `json:"panel" enum:"expanded,collapsed" required:"true"`
	Toggle    string           `json:"toggle" enum:"Basic,Advanced" required:"true"`
	Trackers  string           `json:"trackers"`
	FileLines []string         `json:"file_lines" required:"true"`
	Metadata  resolve.Metadata `json:"metadata" required:"true"`
}

// ErrorPage is shown instead of Page when nothing but hidden files was selected.
// The only action it offers is cancel.
type ErrorPage struct {
	Title    string   `json:"title"`
	Messages []string `json:"messages"`
}

var EmptySelectionPage = ErrorPage{
	Title: "Create torrent",
	Messages: []string{
		"Sorry, you must select at least one file that is not a hidden file.",
		"Hidden files, starting with a . character, are not included.",
	},
}

type PageOptions struct {
	DefaultTrackers []string
	MaxFileLines    int
}

// NewPage renders the view model for a selection.
// It returns resolve.ErrEmptySelection when EmptySelectionPage should be shown instead.
func NewPage(set resolve.FileSet, form Form, opt PageOptions) (Page, error) {
	if err := Validate(set); err != nil {
		return Page{}, err
	}

	m, err := resolve.Derive(set)
	if err != nil {
		return Page{}, err
	}

	p := Page{
		Title:     strings.TrimSpace("Create torrent " + m.DefaultName),
		Info:      m.Summary(),
		Path:      m.CommonPrefix,
		Panel:     "collapsed",
		Toggle:    "Advanced",
		Trackers:  FormatTrackers(opt.DefaultTrackers),
		FileLines: FileLines(m.RelativePaths, opt.MaxFileLines),
		Metadata:  m,
	}

	if form.ShowAdvanced {
		p.Panel = "expanded"
		p.Toggle = "Basic"
	}

	return p, nil
}

// FileLines truncates the file list for display. The metadata itself always
// keeps every file.
func FileLines(paths []string, limit int) []string {
	if limit <= 0 {
		limit = DefaultMaxFileLines
	}

	if len(paths) <= limit {
		return append([]string{}, paths...)
	}

	lines := make([]string, 0, limit+1)
	lines = append(lines, paths[:limit]...)

	return append(lines, fmt.Sprintf("+ %d more", len(paths)-limit))
}
