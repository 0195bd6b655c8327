// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package random

import (
	"github.com/dchest/uniuri"
)

// 64 characters, so every random byte maps to one without bias.
var urlSafeChars = []byte("0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ-_")

// URLSafeStr returns a cryptographically secure string that can be used in
// urls and headers as is, like the generated web secret token.
// entropy = 64^size
func URLSafeStr(size int) string {
	return uniuri.NewLenChars(size, urlSafeChars)
}
