// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package daemon wires the registry, mount manager, supervisor, reaper and
// control socket of the rind init daemon together.
package daemon

import (
	"context"
	"fmt"
	"sync"

	"github.com/bushyice/rind/internal/config"
	"github.com/bushyice/rind/internal/ipc"
	"github.com/bushyice/rind/internal/mount"
	"github.com/bushyice/rind/internal/service"
	"github.com/bushyice/rind/internal/unit"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Option configures a [Daemon].
type Option func(*options)

type options struct {
	syscalls mount.Syscalls
	stdio    service.Stdio
}

// WithMountSyscalls replaces the syscalls used for mounting.
func WithMountSyscalls(syscalls mount.Syscalls) Option {
	return func(o *options) {
		o.syscalls = syscalls
	}
}

// WithStdio replaces the standard streams handed to services.
func WithStdio(stdio service.Stdio) Option {
	return func(o *options) {
		o.stdio = stdio
	}
}

// Daemon is the rind init daemon.
type Daemon struct {
	cfg        config.Config
	logger     *zap.Logger
	registry   *unit.Registry
	mounts     *mount.Manager
	supervisor *service.Supervisor
	reaper     *service.Reaper
	server     *ipc.Server

	// persistMu serializes changes of the enabled set with the rewrite of
	// the enabled file.
	persistMu sync.Mutex
}

// New creates a daemon with an empty registry.
func New(cfg config.Config, logger *zap.Logger, opts ...Option) *Daemon {
	o := options{
		syscalls: mount.HostSyscalls(),
		stdio:    service.InheritStdio(),
	}

	for _, opt := range opts {
		opt(&o)
	}

	registry := unit.NewRegistry()
	supervisor := service.NewSupervisor(logger.Named("supervisor"), o.stdio)

	return &Daemon{
		cfg:        cfg,
		logger:     logger,
		registry:   registry,
		mounts:     mount.New(logger.Named("mount"), o.syscalls),
		supervisor: supervisor,
		reaper: service.NewReaper(
			logger.Named("reaper"),
			registry,
			supervisor,
			cfg.Reaper.Interval,
		),
	}
}

// Registry returns the daemon's registry.
func (d *Daemon) Registry() *unit.Registry {
	return d.registry
}

// Load reads the units directory into the registry.
//
// The directory is read without holding the registry lock. If a descriptor
// is invalid, the units read before it are inserted and the error is
// returned.
func (d *Daemon) Load() error {
	loaded := unit.NewUnits()
	err := unit.LoadDir(loaded, d.cfg.Services.Path)

	d.registry.Write(func(units *unit.Units) {
		for n, u := range loaded.All() {
			units.InsertUnit(n, u)
		}

		for _, n := range loaded.EnabledNames() {
			units.Enable(n)
		}
	})

	d.logger.Info("units loaded",
		zap.String("path", d.cfg.Services.Path),
		zap.Int("units", loaded.Len()),
		zap.Int("enabled", len(loaded.EnabledNames())),
	)

	return err
}

// Boot loads the units, mounts the mounts of the enabled units and starts
// their services.
//
// Errors are logged and do not stop the boot.
func (d *Daemon) Boot() {
	if err := d.Load(); err != nil {
		d.logger.Error("loading units failed", zap.Error(err))
	}

	if err := d.mounts.MountUnits(d.registry); err != nil {
		d.logger.Warn("not all mounts succeeded", zap.Error(err))
	}

	d.supervisor.StartServices(d.registry)
}

// Listen binds the control socket.
func (d *Daemon) Listen() error {
	server, err := ipc.Listen(d.cfg.Control.Socket, d, d.logger.Named("control"))
	if err != nil {
		return fmt.Errorf("control socket: %w", err)
	}

	d.server = server

	return nil
}

// Run runs the reaper, the control server and, if enabled, the units
// directory watcher until the given context is done.
//
// The components run independently. One of them failing does not stop the
// others. Run returns once all of them returned.
func (d *Daemon) Run(ctx context.Context) error {
	if d.server == nil {
		return ErrNotListening
	}

	var eg errgroup.Group

	eg.Go(func() error {
		return d.reaper.Run(ctx)
	})

	eg.Go(func() error {
		return d.server.Serve(ctx)
	})

	if d.cfg.Services.Watch {
		eg.Go(func() error {
			d.watch(ctx)
			return nil
		})
	}

	return eg.Wait()
}
