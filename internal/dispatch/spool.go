// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dchest/uniuri"
	"github.com/trim21/errgo"

	"seedling/internal/create"
)

// Spool is the default Creator. It drops every request as a JSON file in a
// directory watched by the creation library. Files appear atomically.
type Spool struct {
	Dir string
}

func (s Spool) Create(ctx context.Context, req create.Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(s.Dir, os.ModePerm); err != nil {
		return errgo.Wrap(err, "failed to create spool directory")
	}

	f, err := os.CreateTemp(s.Dir, ".pending-*")
	if err != nil {
		return errgo.Wrap(err, "failed to create spool file")
	}

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(req); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return errgo.Wrap(err, "failed to write request")
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return errgo.Wrap(err, "failed to write request")
	}

	target := filepath.Join(s.Dir, fmt.Sprintf("%d-%s.json", time.Now().UnixNano(), uniuri.New()))
	if err := os.Rename(f.Name(), target); err != nil {
		_ = os.Remove(f.Name())
		return errgo.Wrap(err, "failed to publish request")
	}

	return nil
}
