// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package daemon

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bushyice/rind/internal/name"
	"github.com/bushyice/rind/internal/unit"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// watch reloads descriptors of the units directory when they are written or
// created until the given context is done.
//
// A reloaded unit replaces the loaded one and the runtime state of its
// services is lost. Changes of the enabled file are merged into the enabled
// set. Removed files are ignored. If the watcher can not be set up, the
// failure is logged and watch returns.
func (d *Daemon) watch(ctx context.Context) {
	logger := d.logger.Named("watcher").With(
		zap.String("path", d.cfg.Services.Path),
	)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Error("create watcher failed", zap.Error(err))
		return
	}
	defer watcher.Close()

	if err := watcher.Add(d.cfg.Services.Path); err != nil {
		logger.Error("watching units failed", zap.Error(err))
		return
	}

	logger.Info("watching units")

	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}

			logger.Warn("inotify error", zap.Error(err))
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			d.reload(logger, event)
		}
	}
}

func (d *Daemon) reload(logger *zap.Logger, event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		logger.Debug("ignoring event", zap.Stringer("event", event))
		return
	}

	fileName := filepath.Base(event.Name)
	logger = logger.With(zap.String("file", fileName))

	switch {
	case unit.IsDescriptor(fileName):
		loaded, err := unit.LoadFile(event.Name)
		if err != nil {
			logger.Warn("reload failed", zap.Error(err))
			return
		}

		d.registry.Write(func(units *unit.Units) {
			units.InsertUnit(name.New(fileName), loaded)
		})

		logger.Info("unit reloaded")
	case fileName == unit.EnabledFile:
		data, err := os.ReadFile(event.Name)
		if err != nil {
			logger.Warn("reading enabled file failed", zap.Error(err))
			return
		}

		d.registry.Write(func(units *unit.Units) {
			units.ParseEnabled(string(data))
		})

		logger.Debug("enabled file merged")
	}
}
