// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package mount applies the mounts declared by units.
package mount

import (
	"fmt"
	"os"

	"github.com/bushyice/rind/internal/name"
	"github.com/bushyice/rind/internal/unit"
	"github.com/moby/sys/mountinfo"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

const defaultDirMode = 0o755

// Syscalls are the operations the [Manager] uses to change and inspect the
// mount table.
type Syscalls struct {
	Mount   func(source, target, fsType string, flags uintptr, data string) error
	Unmount func(target string, flags int) error
	Mounted func(target string) (bool, error)
}

// HostSyscalls returns the [Syscalls] operating on the host's mount table.
func HostSyscalls() Syscalls {
	return Syscalls{
		Mount:   unix.Mount,
		Unmount: unix.Unmount,
		Mounted: mountinfo.Mounted,
	}
}

// Manager mounts and unmounts unit mounts.
type Manager struct {
	logger   *zap.Logger
	syscalls Syscalls
}

// New creates a [Manager] using the given syscalls.
func New(logger *zap.Logger, syscalls Syscalls) *Manager {
	return &Manager{
		logger:   logger,
		syscalls: syscalls,
	}
}

// MountTarget mounts the given mount.
//
// If the mount wants its target created, the target directory is created
// first. Failing to create it is not an error. The mount error is logged and
// returned.
func (m *Manager) MountTarget(mnt unit.Mount) error {
	logger := m.logger.With(zap.String("target", mnt.Target))

	if mnt.Create {
		if err := os.MkdirAll(mnt.Target, defaultDirMode); err != nil {
			logger.Debug("create target failed", zap.Error(err))
		}
	}

	source := mnt.Source
	if source == "" {
		source = mnt.FSType
	}

	err := m.syscalls.Mount(source, mnt.Target, mnt.FSType, mnt.Flags.Bits(), mnt.Data)
	if err != nil {
		err = fmt.Errorf("mount %s: %w", mnt.Target, err)
		logger.Warn("mount failed", zap.Error(err))

		return err
	}

	logger.Info("mounted",
		zap.String("source", source),
		zap.String("fstype", mnt.FSType),
		zap.Strings("flags", mnt.Flags.Tokens()),
	)

	return nil
}

// UmountTarget unmounts the given mount if its target is a mount point.
// Errors are logged and otherwise ignored.
func (m *Manager) UmountTarget(mnt unit.Mount) {
	logger := m.logger.With(zap.String("target", mnt.Target))

	mounted, err := m.syscalls.Mounted(mnt.Target)
	if err != nil {
		logger.Debug("mount point check failed", zap.Error(err))
		return
	}

	if !mounted {
		logger.Debug("target not mounted")
		return
	}

	if err := m.syscalls.Unmount(mnt.Target, 0); err != nil {
		logger.Warn("unmount failed", zap.Error(err))
		return
	}

	logger.Info("unmounted")
}

type unitMount struct {
	unit  name.Name
	mount unit.Mount
}

// MountUnits mounts the mounts of all enabled units.
//
// Units are processed in registry order, the mounts of a unit in declaration
// order. The registry is only locked while collecting the mounts. A failing
// mount does not stop the others. If any failed, an [Errors] with all errors
// is returned.
func (m *Manager) MountUnits(registry *unit.Registry) error {
	var mounts []unitMount

	registry.Read(func(units *unit.Units) {
		for n, u := range units.Enabled() {
			for _, mnt := range u.Mounts {
				mounts = append(mounts, unitMount{unit: n, mount: mnt})
			}
		}
	})

	var errs Errors

	for _, um := range mounts {
		if err := m.MountTarget(um.mount); err != nil {
			errs = append(errs, fmt.Errorf("unit %s: %w", um.unit, err))
		}
	}

	if errs != nil {
		return errs
	}

	return nil
}
