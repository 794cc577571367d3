// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Command rind controls the rind init daemon.
package main

import (
	"os"

	"github.com/bushyice/rind/internal/cmd"
)

func main() {
	os.Exit(cmd.Run(os.Args, cmd.IO{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}))
}
