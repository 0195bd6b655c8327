// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

// Package cleanup removes every trace the client leaves on the system:
// configuration, temporary files and the .torrent / magnet handlers.
//
// Each step is attempted even when an earlier one failed. Nothing is rolled back.
package cleanup

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/trim21/errgo"
	"go.uber.org/multierr"

	"seedling/internal/pkg/sys"
)

type Step struct {
	Run  func() error
	Name string
}

type Report struct {
	Err       error
	Attempted int
}

// Failures lists the error of every failed step.
func (r Report) Failures() []error {
	return multierr.Errors(r.Err)
}

// Handlers deregisters the OS associations for .torrent files and magnet links.
type Handlers interface {
	Uninstall() error
}

// Run executes every step in order. A canceled ctx stops before the next step.
func Run(ctx context.Context, steps []Step) Report {
	var r Report

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			r.Err = multierr.Append(r.Err, err)
			break
		}

		r.Attempted++

		if err := step.Run(); err != nil {
			log.Warn().Err(err).Str("step", step.Name).Msg("cleanup step failed")
			r.Err = multierr.Append(r.Err, errgo.Wrap(err, step.Name))
			continue
		}

		log.Info().Str("step", step.Name).Msg("cleanup step done")
	}

	return r
}

// TempPath is where the client keeps temporary files, <temp root>/<name>.
func TempPath(name string) string {
	return filepath.Join(sys.TempRoot(), name)
}

func RemoveAll(name, path string) Step {
	return Step{
		Name: name,
		Run: func() error {
			return os.RemoveAll(path)
		},
	}
}

func Uninstall(h Handlers) Step {
	return Step{
		Name: "uninstall handlers",
		Run:  h.Uninstall,
	}
}

// Plan lists the steps of a full cleanup.
func Plan(configPath, tempPath string, h Handlers) []Step {
	return []Step{
		RemoveAll("remove config", configPath),
		RemoveAll("remove temp files", tempPath),
		Uninstall(h),
	}
}
