// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package unit

import (
	"strings"

	"github.com/bushyice/rind/internal/name"
)

// qualifierSeparator separates the unit name from the member name.
const qualifierSeparator = "@"

// Qualifier identifies a unit component either as "unit@member", scoped to
// the named unit, or as bare "member", matching the first unit that contains
// such a member.
type Qualifier struct {
	Unit   name.Name
	Member string
	scoped bool
}

// ParseQualifier parses the given string into a [Qualifier]. The string is
// split at the first "@".
func ParseQualifier(s string) Qualifier {
	unitName, member, scoped := strings.Cut(s, qualifierSeparator)
	if !scoped {
		return Qualifier{Member: s}
	}

	return Qualifier{
		Unit:   name.New(unitName),
		Member: member,
		scoped: true,
	}
}

// Scoped returns true if the qualifier names an explicit unit.
func (q Qualifier) Scoped() bool {
	return q.scoped
}

// String implements [fmt.Stringer].
func (q Qualifier) String() string {
	if !q.scoped {
		return q.Member
	}

	return q.Unit.String() + qualifierSeparator + q.Member
}

// FindFunc reports whether the given unit contains a member of type T with the
// given name. The accessor methods of [Unit] can be used as method
// expressions, like (*Unit).Service.
type FindFunc[T any] func(unit *Unit, member string) (T, bool)

// Lookup resolves the qualifier to a component using the given [FindFunc].
//
// It returns the name of the unit the component was found in. Bare
// qualifiers are matched against all units, enabled or not, in lexicographic
// order.
func Lookup[T any](units *Units, q Qualifier, find FindFunc[T]) (name.Name, T, bool) {
	var zero T

	if q.scoped {
		unit, exists := units.Unit(q.Unit)
		if !exists {
			return name.Name{}, zero, false
		}

		member, found := find(unit, q.Member)
		if !found {
			return name.Name{}, zero, false
		}

		return q.Unit, member, true
	}

	for n, unit := range units.All() {
		if member, found := find(unit, q.Member); found {
			return n, member, true
		}
	}

	return name.Name{}, zero, false
}
