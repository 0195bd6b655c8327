// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package version

import (
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// FormatBuildInfo lists the toolchain, module dependencies and build
// settings of a binary, one per row.
func FormatBuildInfo(info *debug.BuildInfo) string {
	t := table.NewWriter()
	t.Style().Options = table.OptionsNoBordersAndSeparators

	t.AppendRow(table.Row{"go", info.GoVersion})

	for _, d := range info.Deps {
		row := table.Row{"dep", d.Path, d.Version}
		if d.Replace != nil {
			row = append(row, strings.TrimSpace("=> "+d.Replace.Path+" "+d.Replace.Version))
		}

		t.AppendRow(row)
	}

	for _, s := range info.Settings {
		t.AppendRow(table.Row{"build", quote(s.Key) + "=" + quote(s.Value)})
	}

	return t.Render()
}

func quote(s string) string {
	if strings.ContainsAny(s, "= \t\r\n\"`") {
		return strconv.Quote(s)
	}

	return s
}
