// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

// Package version describes the running build.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/samber/lo"
)

// Set at build time with -ldflags "-X seedling/internal/version.Ref=...".
var (
	Revision  string
	Ref       string
	BuildDate string
)

// Version is MAJOR.MINOR.PATCH, marked in development builds.
var Version = semver()

func semver() string {
	v := fmt.Sprintf("%d.%d.%d", MAJOR, MINOR, PATCH)
	if Dev {
		v += " (development)"
	}

	return v
}

// Info is what --version, /debug/version and system.version report.
type Info struct {
	Version   string `json:"version" required:"true"`
	Revision  string `json:"revision"`
	Ref       string `json:"ref,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	Tags      string `json:"tags,omitempty"`
	Dev       bool   `json:"dev"`
}

var current = sync.OnceValue(func() Info {
	info := Info{
		Version:   Version,
		Revision:  "<unknown>",
		Ref:       Ref,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		Dev:       Dev,
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		info.Revision, info.Tags = vcs(bi.Settings)
	}

	if Revision != "" {
		info.Revision = Revision
	}

	return info
})

func Current() Info {
	return current()
}

func vcs(settings []debug.BuildSetting) (revision, tags string) {
	revision = "<unknown>"

	var modified bool
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		case "-tags":
			tags = s.Value
		}
	}

	if modified {
		revision += "-modified"
	}

	return revision, tags
}

// Print renders Current as aligned "key: value" lines, empty values left out.
func Print() string {
	return Current().String()
}

func (i Info) String() string {
	rows := lo.Filter([][2]string{
		{"version", i.Version},
		{"ref", i.Ref},
		{"revision", i.Revision},
		{"go version", i.GoVersion},
		{"platform", i.Platform},
		{"build date", i.BuildDate},
		{"build tags", i.Tags},
	}, func(row [2]string, _ int) bool {
		return row[1] != ""
	})

	width := lo.Max(lo.Map(rows, func(row [2]string, _ int) int {
		return len(row[0])
	}))

	return strings.Join(lo.Map(rows, func(row [2]string, _ int) string {
		return fmt.Sprintf("%-*s %s", width+1, row[0]+":", row[1])
	}), "\n")
}
