// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"time"

	"github.com/bushyice/rind/internal/unit"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// signalExitBase is added to the signal number of children that were
// terminated by a signal, like shells do.
const signalExitBase = 128

// Reaper reclaims terminated child processes, records their exit in the
// registry and restarts services that want to be restarted.
type Reaper struct {
	logger     *zap.Logger
	registry   *unit.Registry
	supervisor *Supervisor
	interval   time.Duration
}

// NewReaper creates a [Reaper] that checks for terminated children in the
// given interval.
func NewReaper(
	logger *zap.Logger,
	registry *unit.Registry,
	supervisor *Supervisor,
	interval time.Duration,
) *Reaper {
	return &Reaper{
		logger:     logger,
		registry:   registry,
		supervisor: supervisor,
		interval:   interval,
	}
}

// Run checks for a terminated child once per interval until the given
// context is done.
func (r *Reaper) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		r.ReapOnce()

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// ReapOnce reaps at most one terminated child without blocking. It returns
// true if a child was reaped.
//
// The service tracking the child, if any, is set Exited. If it wants to be
// restarted, it is started again after the registry lock was released and
// acquired again.
func (r *Reaper) ReapOnce() bool {
	var status unix.WaitStatus

	pid, err := unix.Wait4(-1, &status, unix.WNOHANG, nil)
	if err != nil {
		if errors.Is(err, unix.ECHILD) {
			r.logger.Debug("no children")
		} else {
			r.logger.Warn("wait failed", zap.Error(err))
		}

		return false
	}

	if pid <= 0 {
		return false
	}

	code, terminated := exitCode(status)
	if !terminated {
		return true
	}

	restart, found := r.markExited(pid, code)
	if !found {
		r.logger.Debug("reaped untracked child", zap.Int("pid", pid), zap.Int("code", code))
		return true
	}

	if restart != nil {
		r.restart(*restart)
	}

	return true
}

func (r *Reaper) markExited(pid, code int) (*Identity, bool) {
	var (
		restart *Identity
		found   bool
	)

	r.registry.Write(func(units *unit.Units) {
		for unitName, svc := range units.Services() {
			if !svc.Tracks(pid) {
				continue
			}

			process := svc.Process()
			svc.MarkExited(code)
			_ = process.Release()

			r.logger.Info("exited",
				zap.Stringer("unit", unitName),
				zap.String("service", svc.Name),
				zap.Int("pid", pid),
				zap.Int("code", code),
			)

			if svc.Restart {
				restart = &Identity{Unit: unitName, Service: svc.Name}
			}

			found = true

			return
		}
	})

	return restart, found
}

func (r *Reaper) restart(id Identity) {
	r.registry.Write(func(units *unit.Units) {
		svc, found := units.Service(id.Unit, id.Service)
		if !found {
			r.logger.Debug("restart target gone", zap.Stringer("service", id))
			return
		}

		// Control requests may have changed the service in between.
		if svc.State().Kind() != unit.KindExited {
			return
		}

		r.logger.Info("restarting", zap.Stringer("service", id))
		_ = r.supervisor.StartService(svc)
	})
}

func exitCode(status unix.WaitStatus) (int, bool) {
	switch {
	case status.Exited():
		return status.ExitStatus(), true
	case status.Signaled():
		return signalExitBase + int(status.Signal()), true
	default:
		return 0, false
	}
}
