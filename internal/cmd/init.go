// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/bushyice/rind/internal/config"
	"github.com/bushyice/rind/internal/daemon"
	"github.com/bushyice/rind/internal/logging"
	"github.com/bushyice/rind/internal/sysinit"
	"go.uber.org/zap"
)

// Exit codes of the init program.
const (
	exitCodeNotPidOne = 127
	exitCodeFailure   = -1
)

func runInit(ctx context.Context, flags *initFlags, cfg config.Config, logger *zap.Logger) error {
	if !flags.NoPidOneCheck {
		if err := sysinit.RequirePidOne(); err != nil {
			return err
		}
	}

	if cfg.Network.Loopback {
		if err := sysinit.ConfigureLoopbackInterface(); err != nil {
			logger.Warn("loopback setup failed", zap.Error(err))
		}
	}

	d := daemon.New(cfg, logger)
	d.Boot()

	if err := d.Listen(); err != nil {
		return err
	}

	if cfg.Shell.Exec != "" {
		pid, err := sysinit.SpawnConsoleShell(cfg.Shell.Exec, cfg.Shell.TTYPath())
		if err != nil {
			logger.Warn("console shell failed", zap.Error(err))
		} else {
			logger.Info("console shell started",
				zap.String("tty", cfg.Shell.TTYPath()),
				zap.Int("pid", pid),
			)
		}
	}

	return d.Run(ctx)
}

// RunInit is the main entry point for the init program. It only returns if
// the daemon could not be started or the given context is done.
func RunInit(ctx context.Context, args []string, stdio IO) int {
	var flags initFlags

	if err := parseArgs(args, &flags, stdio.Stderr); err != nil {
		return handleParseArgsError(err)
	}

	cfg, err := config.Load(flags.configPath())
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "Error [rind-init]: %v\n", err)
		return exitCodeFailure
	}

	logger, err := logging.New(cfg.Log.Level, stdio.Stderr)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "Error [rind-init]: %v\n", err)
		return exitCodeFailure
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := runInit(ctx, &flags, cfg, logger); err != nil {
		logger.Error("init failed", zap.Error(err))

		if errors.Is(err, sysinit.ErrNotPidOne) {
			return exitCodeNotPidOne
		}

		return exitCodeFailure
	}

	return 0
}
