// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package unit

import (
	"fmt"
	"slices"

	"golang.org/x/sys/unix"
	"gopkg.in/yaml.v3"
)

// mountFlagTokens are the flag tokens accepted in mount descriptors.
var mountFlagTokens = map[string]uintptr{
	"MS_RDONLY":      unix.MS_RDONLY,
	"MS_NOSUID":      unix.MS_NOSUID,
	"MS_NODEV":       unix.MS_NODEV,
	"MS_NOEXEC":      unix.MS_NOEXEC,
	"MS_RELATIME":    unix.MS_RELATIME,
	"MS_BIND":        unix.MS_BIND,
	"MS_REC":         unix.MS_REC,
	"MS_PRIVATE":     unix.MS_PRIVATE,
	"MS_SHARED":      unix.MS_SHARED,
	"MS_SLAVE":       unix.MS_SLAVE,
	"MS_STRICTATIME": unix.MS_STRICTATIME,
	"MS_LAZYTIME":    unix.MS_LAZYTIME,
}

// Mount is a file system mount declared by a unit.
//
// Empty Source, FSType and Data are passed as empty strings to mount(2),
// except for Source which defaults to the FSType.
type Mount struct {
	Source string     `yaml:"source,omitempty"`
	Target string     `yaml:"target"`
	FSType string     `yaml:"fstype,omitempty"`
	Flags  MountFlags `yaml:"flags,omitempty"`
	Data   string     `yaml:"data,omitempty"`
	Create bool       `yaml:"create,omitempty"`
}

// MountFlags is a set of mount(2) flags that keeps the tokens it was created
// from.
type MountFlags struct {
	tokens []string
	bits   uintptr
}

// ParseMountFlags resolves the given tokens into [MountFlags]. It fails with
// [ErrUnknownMountFlag] for unknown tokens.
func ParseMountFlags(tokens ...string) (MountFlags, error) {
	var flags MountFlags

	for _, token := range tokens {
		bit, exists := mountFlagTokens[token]
		if !exists {
			return MountFlags{}, fmt.Errorf("%w: %s", ErrUnknownMountFlag, token)
		}

		flags.bits |= bit

		if !slices.Contains(flags.tokens, token) {
			flags.tokens = append(flags.tokens, token)
		}
	}

	return flags, nil
}

// Bits returns the flags as used by mount(2).
func (f MountFlags) Bits() uintptr {
	return f.bits
}

// Tokens returns the tokens the flags were created from.
func (f MountFlags) Tokens() []string {
	return slices.Clone(f.tokens)
}

// IsZero returns true if no flag is set. It is used for omitempty.
func (f MountFlags) IsZero() bool {
	return len(f.tokens) == 0
}

// MarshalYAML implements [yaml.Marshaler].
func (f MountFlags) MarshalYAML() (any, error) {
	return f.tokens, nil
}

// UnmarshalYAML implements [yaml.Unmarshaler].
func (f *MountFlags) UnmarshalYAML(node *yaml.Node) error {
	var tokens []string
	if err := node.Decode(&tokens); err != nil {
		return err
	}

	flags, err := ParseMountFlags(tokens...)
	if err != nil {
		return err
	}

	*f = flags

	return nil
}
