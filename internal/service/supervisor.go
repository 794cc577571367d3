// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service starts and stops unit services and reaps their processes.
package service

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/bushyice/rind/internal/name"
	"github.com/bushyice/rind/internal/unit"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// Identity identifies a service across registry locks.
type Identity struct {
	Unit    name.Name
	Service string
}

func (i Identity) String() string {
	return i.Unit.String() + "@" + i.Service
}

// Stdio are the standard streams handed to spawned processes. Nil streams
// are connected to the null device.
type Stdio struct {
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File
}

// InheritStdio returns the standard streams of the running process.
func InheritStdio() Stdio {
	return Stdio{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// attach sets the non-nil streams on the given command.
func (s Stdio) attach(cmd *exec.Cmd) {
	if s.Stdin != nil {
		cmd.Stdin = s.Stdin
	}

	if s.Stdout != nil {
		cmd.Stdout = s.Stdout
	}

	if s.Stderr != nil {
		cmd.Stderr = s.Stderr
	}
}

// Supervisor spawns and signals service processes.
//
// All methods taking a [unit.Service] must be called while the registry the
// service belongs to is locked for writing.
type Supervisor struct {
	logger *zap.Logger
	stdio  Stdio
}

// NewSupervisor creates a [Supervisor] that spawns processes with the given
// standard streams.
func NewSupervisor(logger *zap.Logger, stdio Stdio) *Supervisor {
	return &Supervisor{
		logger: logger,
		stdio:  stdio,
	}
}

// StartService spawns the process of the given service.
//
// On success the service is Active and tracks the new process. Otherwise it
// is in Error state and the spawn error is returned. The service's state is
// not checked, starting an Active service replaces its tracked process.
func (s *Supervisor) StartService(svc *unit.Service) error {
	logger := s.logger.With(zap.String("service", svc.Name))

	cmd := exec.Command(svc.Exec, svc.Args...)
	s.stdio.attach(cmd)

	if err := cmd.Start(); err != nil {
		svc.MarkError(err.Error())
		logger.Error("spawn failed", zap.String("exec", svc.Exec), zap.Error(err))

		return fmt.Errorf("%w: %s: %w", ErrSpawn, svc.Name, err)
	}

	svc.MarkActive(cmd.Process)
	logger.Info("started", zap.Int("pid", cmd.Process.Pid))

	return nil
}

// Activate starts the given service unless it is Active already, in which
// case [ErrAlreadyActive] is returned.
func (s *Supervisor) Activate(svc *unit.Service) error {
	if svc.State().Kind() == unit.KindActive {
		return fmt.Errorf("%w: %s (pid %d)", ErrAlreadyActive, svc.Name, svc.PID())
	}

	return s.StartService(svc)
}

// StopService sends a termination signal to the tracked process of the given
// service and sets the service Inactive.
//
// If force is true, the process is killed with SIGKILL, otherwise SIGTERM is
// sent. It does not wait for the process to terminate. The terminated process
// is reaped by the [Reaper] and then ignored since the service no longer
// tracks it. Services without tracked process are left untouched. A signal
// error is logged and returned, the service is set Inactive nonetheless.
func (s *Supervisor) StopService(svc *unit.Service, force bool) error {
	process := svc.Process()
	if process == nil {
		return nil
	}

	logger := s.logger.With(
		zap.String("service", svc.Name),
		zap.Int("pid", process.Pid),
		zap.Bool("force", force),
	)

	var err error
	if force {
		err = unix.Kill(process.Pid, unix.SIGKILL)
	} else {
		err = process.Signal(unix.SIGTERM)
	}

	svc.MarkInactive()
	_ = process.Release()

	if err != nil {
		logger.Warn("signal failed", zap.Error(err))
		return fmt.Errorf("signal %s: %w", svc.Name, err)
	}

	logger.Info("stopped")

	return nil
}

// StartServices starts all services of all enabled units.
//
// Services are started regardless of their state. Calling it while services
// are Active spawns a second process for each of them.
func (s *Supervisor) StartServices(registry *unit.Registry) {
	registry.Write(func(units *unit.Units) {
		for _, u := range units.Enabled() {
			for _, svc := range u.Services {
				_ = s.StartService(svc)
			}
		}
	})
}
