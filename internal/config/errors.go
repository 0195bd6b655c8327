// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package config

import "errors"

var errInvalidTempDirName = errors.New("`cleanup.temp-dir-name` must be a plain directory name")
