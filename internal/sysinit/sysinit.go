// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package sysinit provides system setup helpers for the init process.
package sysinit

import (
	"errors"
	"fmt"
	"os"

	"github.com/vishvananda/netlink"
)

// LoopbackInterface is the name of the loopback network interface.
const LoopbackInterface = "lo"

// ErrNotPidOne is returned if the process is expected to be run as PID 1
// but is not.
var ErrNotPidOne = errors.New("process does not have ID 1")

// IsPidOne returns true if the running process has PID 1.
func IsPidOne() bool {
	return os.Getpid() == 1
}

// RequirePidOne returns [ErrNotPidOne] if the running process does not have
// PID 1.
func RequirePidOne() error {
	if !IsPidOne() {
		return ErrNotPidOne
	}

	return nil
}

// SetInterfaceUp brings the network interface with the given name up.
func SetInterfaceUp(name string) error {
	link, err := netlink.LinkByName(name)
	if err != nil {
		return fmt.Errorf("find interface %s: %w", name, err)
	}

	if err := netlink.LinkSetUp(link); err != nil {
		return fmt.Errorf("set interface %s up: %w", name, err)
	}

	return nil
}

// ConfigureLoopbackInterface brings the loopback interface up.
//
// Kernel should configure address already automatically.
func ConfigureLoopbackInterface() error {
	return SetInterfaceUp(LoopbackInterface)
}
