// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

// Package dispatch hands creation requests to the torrent creation library
// without blocking the caller.
package dispatch

import (
	"context"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/trim21/errgo"
	"go.uber.org/atomic"

	"seedling/internal/create"
)

// Creator is the contract of the torrent creation library.
type Creator interface {
	Create(ctx context.Context, req create.Request) error
}

type CreatorFunc func(ctx context.Context, req create.Request) error

func (f CreatorFunc) Create(ctx context.Context, req create.Request) error {
	return f(ctx, req)
}

type Dispatcher struct {
	ctx     context.Context
	creator Creator
	pool    *ants.Pool
	cancel  context.CancelFunc

	created prometheus.Counter
	failed  prometheus.Counter

	wg       sync.WaitGroup
	inFlight atomic.Int64
}

func New(c Creator, workers int) (*Dispatcher, error) {
	pool, err := ants.NewPool(max(workers, 1), ants.WithPreAlloc(true))
	if err != nil {
		return nil, errgo.Wrap(err, "failed to create worker pool")
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Dispatcher{
		ctx:     ctx,
		cancel:  cancel,
		creator: c,
		pool:    pool,
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "seedling_torrents_created_total",
			Help: "creation requests accepted by the creator",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "seedling_torrents_failed_total",
			Help: "creation requests rejected by the creator",
		}),
	}, nil
}

func (d *Dispatcher) Register(r prometheus.Registerer) {
	r.MustRegister(d.created, d.failed)
	r.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "seedling_torrents_in_flight",
		Help: "creation requests currently handled by the creator",
	}, func() float64 {
		return float64(d.inFlight.Load())
	}))
}

// Dispatch queues req for the creator and returns once it is scheduled.
// Failures of the creator itself are logged and counted, not returned.
func (d *Dispatcher) Dispatch(req create.Request) error {
	d.wg.Add(1)

	err := d.pool.Submit(func() {
		defer d.wg.Done()

		d.inFlight.Inc()
		defer d.inFlight.Dec()

		if err := d.creator.Create(d.ctx, req); err != nil {
			d.failed.Inc()
			log.Error().Err(err).Str("name", req.Name).Str("path", req.Path).Msg("failed to create torrent")
			return
		}

		d.created.Inc()
		log.Info().Str("name", req.Name).Int("files", len(req.Files)).Msg("torrent creation requested")
	})

	if err != nil {
		d.wg.Done()
		return errgo.Wrap(err, "failed to schedule torrent creation")
	}

	return nil
}

// Close waits for queued requests and stops the workers.
func (d *Dispatcher) Close() {
	d.wg.Wait()
	d.pool.Release()
	d.cancel()
}
