// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/bushyice/rind/internal/ipc"
	"github.com/bushyice/rind/internal/logging"
	"go.uber.org/zap"
)

// IO provides input and output details for the command.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func handleParseArgsError(err error) int {
	// [ErrHelp] is returned when help is requested. So exit without error
	// in this case.
	if errors.Is(err, ErrHelp) {
		return 0
	}

	return -1
}

func runCtl(flags *ctlFlags, stdout io.Writer, logger *zap.Logger) error {
	request := flags.request()

	logger.Debug("sending request",
		zap.String("socket", flags.Socket),
		zap.String("kind", string(request.Kind)),
		zap.String("payload", request.PayloadString()),
	)

	reply, err := ipc.Send(flags.Socket, request)
	if err != nil {
		return err
	}

	if err := reply.Err(); err != nil {
		return err
	}

	snapshot, err := reply.Snapshot()
	if err != nil {
		return err
	}

	units, err := snapshot.Registry()
	if err != nil {
		return err
	}

	act, _ := flags.action()

	switch act {
	case actionStart, actionStop:
		return writeService(stdout, units, flags.qualifier())
	default:
		return writeList(stdout, units, flags.Unit)
	}
}

// Run is the main entry point for the control client.
func Run(args []string, cfg IO) int {
	var flags ctlFlags

	if err := parseArgs(args, &flags, cfg.Stderr); err != nil {
		return handleParseArgsError(err)
	}

	level := "warn"
	if flags.Debug {
		level = "debug"
	}

	logger, err := logging.New(level, cfg.Stderr)
	if err != nil {
		fmt.Fprintf(cfg.Stderr, "Error [rind]: %v\n", err)
		return -1
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := runCtl(&flags, cfg.Stdout, logger); err != nil {
		logger.Error(err.Error())
		return -1
	}

	return 0
}
