// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package web

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggest/openapi-go"
	"github.com/swaggest/swgui/v5emb"
	"github.com/swaggest/usecase"

	"seedling/internal/config"
	"seedling/internal/create"
	"seedling/internal/resolve"
	"seedling/internal/version"
	"seedling/internal/web/jsonrpc"
	"seedling/internal/web/res"
)

//go:embed description.md
var desc string

const HeaderAuthorization = "Authorization"

const securityScheme = "api-key"

// Sink receives the creation requests built by torrent.create.
type Sink interface {
	Dispatch(req create.Request) error
}

type Options struct {
	Sink     Sink
	Gatherer prometheus.Gatherer
	Token    string
	Config   config.Config
	Debug    bool
}

func New(opt Options) http.Handler {
	apiSchema := jsonrpc.OpenAPI{}
	apiSchema.Reflector().SpecEns().Info.
		WithTitle("JSON-RPC").
		WithVersion(version.Version).
		WithDescription(desc)
	apiSchema.Reflector().SpecEns().
		SetAPIKeySecurity(securityScheme, HeaderAuthorization, openapi.InHeader, "need set api header")

	h := &jsonrpc.Handler{
		OpenAPI:   &apiSchema,
		Validator: create.NewValidator(),
		Security:  securityScheme,
	}

	h.MapError(resolve.ErrEmptySelection, codeEmptySelection)

	r := chi.NewMux()
	r.Use(middleware.Recoverer)

	gatherer := opt.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		res.Text(w, http.StatusOK, ".")
	})

	if opt.Debug {
		info, ok := debug.ReadBuildInfo()
		if ok {
			s := []byte(version.FormatBuildInfo(info))

			r.Get("/debug/version", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("content-type", "text/plain")
				w.WriteHeader(http.StatusOK)
				_, _ = fmt.Fprintln(w, version.Print())
				_, _ = fmt.Fprintln(w)
				_, _ = w.Write(s)
			})
		} else {
			r.Get("/debug/version", func(w http.ResponseWriter, r *http.Request) {
				_, _ = fmt.Fprintln(w, version.Print())
			})
		}

		r.Mount("/debug", middleware.Profiler())
	}

	addPing(h)
	addVersion(h)
	previewTorrent(h, opt.Config)
	createTorrent(h, opt.Sink)

	var auth = func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get(HeaderAuthorization) != opt.Token {
				res.JSON(w, http.StatusUnauthorized, jsonrpc.Response{
					JSONRPC: "2.0",
					Error: &jsonrpc.Error{
						Code:    jsonrpc.CodeInvalidRequest,
						Message: "invalid token",
					},
				})

				return
			}

			next.ServeHTTP(w, r)
		})
	}

	r.With(middleware.NoCache, auth).Handle("POST /json_rpc", h)

	r.Get("/docs/openapi.json", h.OpenAPI.ServeHTTP)
	r.Handle("/docs/*", v5emb.New("seedling", "/docs/openapi.json", "/docs/"))

	return r
}

func addPing(h *jsonrpc.Handler) {
	u := usecase.NewInteractor[*struct{}, struct{}](
		func(ctx context.Context, req *struct{}, res *struct{}) error {
			return nil
		},
	)
	u.SetName("system.ping")
	h.Add(u)
}

func addVersion(h *jsonrpc.Handler) {
	u := usecase.NewInteractor[*struct{}, version.Info](
		func(ctx context.Context, req *struct{}, res *version.Info) error {
			*res = version.Current()
			return nil
		},
	)
	u.SetName("system.version")
	h.Add(u)
}
