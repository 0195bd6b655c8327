// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package create

import (
	"strings"

	"github.com/samber/lo"
)

// AnnounceList is a BEP 12 tiered tracker list.
type AnnounceList [][]string

// Tiers puts every tracker in a tier of its own, in the given order.
func Tiers(urls []string) AnnounceList {
	return lo.Map(urls, func(item string, _ int) []string {
		return []string{item}
	})
}

// ParseTrackers reads the tracker text area: one url per line, surrounding
// whitespace dropped, blank lines ignored. Order and repeats are kept as typed.
func ParseTrackers(s string) []string {
	return lo.FilterMap(strings.Split(s, "\n"), func(item string, _ int) (string, bool) {
		item = strings.TrimSpace(item)
		return item, item != ""
	})
}

// FormatTrackers is the inverse of ParseTrackers, used to prefill the form.
func FormatTrackers(urls []string) string {
	return strings.Join(urls, "\n")
}
