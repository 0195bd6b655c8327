// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package web

import (
	"context"
	"errors"

	"github.com/swaggest/usecase"
	"github.com/trim21/errgo"

	"seedling/internal/config"
	"seedling/internal/create"
	"seedling/internal/resolve"
	"seedling/internal/web/jsonrpc"
)

type TorrentSelection struct {
	resolve.FileSet
	create.Form
}

type PreviewTorrentResponse struct {
	Page      *create.Page      `json:"page,omitempty"`
	ErrorPage *create.ErrorPage `json:"error_page,omitempty" description:"set instead of page when only hidden files were selected"`
}

func previewTorrent(h *jsonrpc.Handler, cfg config.Config) {
	u := usecase.NewInteractor[*TorrentSelection, PreviewTorrentResponse](
		func(ctx context.Context, req *TorrentSelection, res *PreviewTorrentResponse) error {
			page, err := create.NewPage(req.FileSet, req.Form, cfg.PageOptions())
			if err != nil {
				if errors.Is(err, resolve.ErrEmptySelection) {
					res.ErrorPage = &create.EmptySelectionPage
					return nil
				}

				return jsonrpc.WithCode(codeInvalidFiles, err)
			}

			res.Page = &page

			return nil
		},
	)
	u.SetName("torrent.preview")
	u.SetTitle("Preview the torrent a selection would create")
	h.Add(u)
}

type CreateTorrentResponse struct {
	Request create.Request `json:"request" required:"true"`
}

func createTorrent(h *jsonrpc.Handler, sink Sink) {
	u := usecase.NewInteractor[*TorrentSelection, CreateTorrentResponse](
		func(ctx context.Context, req *TorrentSelection, res *CreateTorrentResponse) error {
			r, _, err := create.Assemble(req.FileSet, req.Form)
			if err != nil {
				if errors.Is(err, resolve.ErrEmptySelection) {
					return err
				}

				return jsonrpc.WithCode(codeInvalidFiles, err)
			}

			if err := sink.Dispatch(r); err != nil {
				return jsonrpc.WithCode(codeDispatch, errgo.Wrap(err, "failed to create torrent"))
			}

			res.Request = r

			return nil
		},
	)
	u.SetName("torrent.create")
	u.SetTitle("Create a torrent from a selection")
	h.Add(u)
}
