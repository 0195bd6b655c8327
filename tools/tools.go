// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

//go:build tools

// Package tools pins the versions of the linters and test runners used in CI:
// betteralign for struct layout, govulncheck, and gotestsum / tparse for
// readable `go test -json` output.
package tools

import (
	_ "github.com/dkorunic/betteralign/cmd/betteralign"
	_ "github.com/mfridman/tparse"
	_ "golang.org/x/vuln/cmd/govulncheck"
	_ "gotest.tools/gotestsum"
)
