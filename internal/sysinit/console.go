// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysinit

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

// SpawnConsoleShell starts the given shell in a new session with the terminal
// at ttyPath as controlling terminal and standard streams.
//
// It does not wait for the shell. The shell is a child of the calling process
// and must be reaped by it. The PID of the shell is returned.
func SpawnConsoleShell(shell, ttyPath string) (int, error) {
	tty, err := os.OpenFile(ttyPath, os.O_RDWR, 0)
	if err != nil {
		return 0, fmt.Errorf("open tty: %w", err)
	}
	defer tty.Close()

	cmd := exec.Command(shell)
	cmd.Stdin = tty
	cmd.Stdout = tty
	cmd.Stderr = tty
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid:  true,
		Setctty: true,
		// Stdin of the child.
		Ctty: 0,
	}

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start shell: %w", err)
	}

	pid := cmd.Process.Pid
	_ = cmd.Process.Release()

	return pid, nil
}
