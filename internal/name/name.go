// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package name provides the immutable identifier used to key units in the
// registry and on the wire.
package name

import (
	"hash/fnv"
	"unsafe"
)

// Name is an immutable string with a precomputed hash.
//
// The zero value is the empty name. Names are comparable and can be used as
// map keys directly.
type Name struct {
	hash uint64
	str  string
}

// New creates a new [Name] for the given string.
func New(s string) Name {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))

	return Name{
		hash: h.Sum64(),
		str:  s,
	}
}

// String returns the underlying string.
func (n Name) String() string {
	return n.str
}

// Hash returns the precomputed hash of the name.
func (n Name) Hash() uint64 {
	return n.hash
}

// IsZero returns true for the empty name.
func (n Name) IsZero() bool {
	return n.str == ""
}

// Equal reports whether both names carry the same string.
//
// Names sharing the same backing storage are equal without comparing the
// bytes.
func (n Name) Equal(other Name) bool {
	if len(n.str) == len(other.str) &&
		unsafe.StringData(n.str) == unsafe.StringData(other.str) {
		return true
	}

	return n.hash == other.hash && n.str == other.str
}

// MarshalText implements [encoding.TextMarshaler].
func (n Name) MarshalText() ([]byte, error) {
	return []byte(n.str), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (n *Name) UnmarshalText(text []byte) error {
	*n = New(string(text))
	return nil
}
