// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package daemon

import (
	"fmt"

	"github.com/bushyice/rind/internal/ipc"
	"github.com/bushyice/rind/internal/name"
	"github.com/bushyice/rind/internal/unit"
	"go.uber.org/zap"
)

// Handle implements [ipc.Handler].
//
// Successful requests are answered with a snapshot of the registry after the
// request was applied.
func (d *Daemon) Handle(request ipc.Message) ipc.Message {
	var err error

	switch request.Kind {
	case ipc.KindList:
	case ipc.KindStart, ipc.KindStop, ipc.KindKill:
		err = d.control(request)
	case ipc.KindEnable, ipc.KindDisable:
		err = d.toggle(request)
	case ipc.KindUmount:
		err = d.umount(request)
	default:
		return ipc.Unknown()
	}

	if err != nil {
		d.logger.Warn("request failed",
			zap.String("kind", string(request.Kind)),
			zap.String("payload", request.PayloadString()),
			zap.Error(err),
		)

		return ipc.Errorf("%s: %v", request.Kind, err)
	}

	var reply ipc.Message

	d.registry.Read(func(units *unit.Units) {
		reply, err = ipc.SnapshotMessage(request.Kind, units)
	})

	if err != nil {
		d.logger.Error("snapshot failed", zap.Error(err))
		return ipc.Errorf("%s: %v", request.Kind, err)
	}

	return reply
}

func (d *Daemon) control(request ipc.Message) error {
	if !request.HasPayload() {
		return fmt.Errorf("%w: service qualifier", ipc.ErrMissingPayload)
	}

	qualifier := unit.ParseQualifier(request.PayloadString())

	var err error

	d.registry.Write(func(units *unit.Units) {
		_, svc, found := unit.Lookup(units, qualifier, (*unit.Unit).Service)
		if !found {
			err = fmt.Errorf("%w: service %s", unit.ErrMemberNotFound, qualifier)
			return
		}

		switch request.Kind {
		case ipc.KindStart:
			err = d.supervisor.Activate(svc)
		case ipc.KindStop:
			err = d.supervisor.StopService(svc, false)
		case ipc.KindKill:
			err = d.supervisor.StopService(svc, true)
		}
	})

	return err
}

func (d *Daemon) umount(request ipc.Message) error {
	if !request.HasPayload() {
		return fmt.Errorf("%w: mount qualifier", ipc.ErrMissingPayload)
	}

	qualifier := unit.ParseQualifier(request.PayloadString())

	var (
		mnt   unit.Mount
		found bool
	)

	// Unmount outside of the lock like mounting at boot.
	d.registry.Read(func(units *unit.Units) {
		var member *unit.Mount

		_, member, found = unit.Lookup(units, qualifier, (*unit.Unit).Mount)
		if found {
			mnt = *member
		}
	})

	if !found {
		return fmt.Errorf("%w: mount %s", unit.ErrMemberNotFound, qualifier)
	}

	d.mounts.UmountTarget(mnt)

	return nil
}

// toggle changes the enabled set and persists it. If persisting fails, the
// change is reverted.
func (d *Daemon) toggle(request ipc.Message) error {
	if !request.HasPayload() {
		return fmt.Errorf("%w: unit name", ipc.ErrMissingPayload)
	}

	unitName := name.New(request.PayloadString())

	d.persistMu.Lock()
	defer d.persistMu.Unlock()

	var (
		wasEnabled bool
		names      []name.Name
		err        error
	)

	d.registry.Write(func(units *unit.Units) {
		wasEnabled = units.IsEnabled(unitName)

		err = setEnabled(units, unitName, request.Kind == ipc.KindEnable)
		names = units.EnabledNames()
	})

	if err != nil {
		return err
	}

	if err := unit.SaveEnabled(d.cfg.Services.Path, names); err != nil {
		d.registry.Write(func(units *unit.Units) {
			_ = setEnabled(units, unitName, wasEnabled)
		})

		return fmt.Errorf("save enabled set: %w", err)
	}

	d.logger.Info("enabled set changed",
		zap.String("kind", string(request.Kind)),
		zap.Stringer("unit", unitName),
	)

	return nil
}

func setEnabled(units *unit.Units, unitName name.Name, enabled bool) error {
	if !enabled {
		if !units.Disable(unitName) {
			return fmt.Errorf("%w: %s", ErrNotEnabled, unitName)
		}

		return nil
	}

	if _, exists := units.Unit(unitName); !exists {
		return fmt.Errorf("%w: %s", unit.ErrUnitNotFound, unitName)
	}

	units.Enable(unitName)

	return nil
}
