// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package web

import (
	"seedling/internal/web/jsonrpc"
)

// application error codes returned by torrent.* methods
const (
	codeEmptySelection jsonrpc.ErrorCode = 1
	codeInvalidFiles   jsonrpc.ErrorCode = 2
	codeDispatch       jsonrpc.ErrorCode = 3
)
