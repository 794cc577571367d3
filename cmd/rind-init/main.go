// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Command rind-init is the rind init daemon. It is supposed to run as PID 1.
package main

import (
	"context"
	"os"

	"github.com/bushyice/rind/internal/cmd"
)

func main() {
	os.Exit(cmd.RunInit(context.Background(), os.Args, cmd.IO{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}))
}
