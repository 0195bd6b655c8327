// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package resolve

import (
	"strings"
)

// Paths are handled as plain strings so selections coming from another OS
// resolve the same way on every host. Both '/' and '\' separate segments.

func IsSeparator(c byte) bool {
	return c == '/' || c == '\\'
}

func hasTrailingSeparator(p string) bool {
	return p != "" && IsSeparator(p[len(p)-1])
}

// isRoot reports whether p is "/", "\" or a volume root like `C:\` or "C:".
func isRoot(p string) bool {
	switch len(p) {
	case 1:
		return IsSeparator(p[0])
	case 2:
		return p[1] == ':'
	case 3:
		return p[1] == ':' && IsSeparator(p[2])
	}

	return false
}

// trimTrailing removes trailing separators but never turns a root into "".
func trimTrailing(p string) string {
	for len(p) > 1 && hasTrailingSeparator(p) && !isRoot(p) {
		p = p[:len(p)-1]
	}

	return p
}

func lastSeparator(p string) int {
	return strings.LastIndexAny(p, `/\`)
}

// Dir returns everything before the last segment of p.
//
//	Dir("/a/b/c")   == "/a/b"
//	Dir("/a/b/")    == "/a"
//	Dir(`C:\a\b`)   == `C:\a`
//	Dir("/a")       == "/"
//	Dir("a")        == "."
func Dir(p string) string {
	p = trimTrailing(p)
	if isRoot(p) {
		return p
	}

	i := lastSeparator(p)
	switch {
	case i < 0:
		if len(p) >= 2 && p[1] == ':' {
			return p[:2]
		}
		return "."
	case i == 0:
		return p[:1]
	}

	return trimTrailing(p[:i+1])
}

// Base returns the last segment of p, ignoring trailing separators.
// Roots have no last segment and yield "".
func Base(p string) string {
	p = trimTrailing(p)
	if isRoot(p) {
		return ""
	}

	return p[lastSeparator(p)+1:]
}

// Rel strips prefix from p and drops the separators left at the front.
// The second value is false when p is not inside prefix.
func Rel(prefix, p string) (string, bool) {
	if !strings.HasPrefix(p, prefix) {
		return "", false
	}

	rest := p[len(prefix):]
	if rest != "" && !hasTrailingSeparator(prefix) && !IsSeparator(rest[0]) {
		// "/a/bc" is not inside "/a/b".
		return "", false
	}

	return strings.TrimLeft(rest, `/\`), true
}
