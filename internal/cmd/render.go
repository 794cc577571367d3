// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"io"

	"github.com/bushyice/rind/internal/name"
	"github.com/bushyice/rind/internal/unit"
)

func writeUnit(w io.Writer, n name.Name, u *unit.Unit, enabled, detailed bool) {
	fmt.Fprintf(w, "%s: %d services, %d mounts", n, len(u.Services), len(u.Mounts))

	if enabled {
		fmt.Fprint(w, " (enabled)")
	}

	fmt.Fprintln(w)

	if !detailed {
		return
	}

	for _, svc := range u.Services {
		fmt.Fprintf(w, "  service %s: %s\n", svc.Name, svc.State())
	}

	for _, mnt := range u.Mounts {
		fmt.Fprintf(w, "  mount %s: %s\n", mnt.Target, mnt.FSType)
	}
}

// writeList writes a summary line for every unit. If filter is given, only
// the named unit is written including its services and mounts.
func writeList(w io.Writer, units *unit.Units, filter string) error {
	if filter == "" {
		for n, u := range units.All() {
			writeUnit(w, n, u, units.IsEnabled(n), false)
		}

		return nil
	}

	n := name.New(filter)

	u, exists := units.Unit(n)
	if !exists {
		return fmt.Errorf("%w: %s", unit.ErrUnitNotFound, filter)
	}

	writeUnit(w, n, u, units.IsEnabled(n), true)

	return nil
}

// writeService writes the state of the service the qualifier resolves to.
func writeService(w io.Writer, units *unit.Units, qualifier unit.Qualifier) error {
	unitName, svc, found := unit.Lookup(units, qualifier, (*unit.Unit).Service)
	if !found {
		return fmt.Errorf("%w: service %s", unit.ErrMemberNotFound, qualifier)
	}

	fmt.Fprintf(w, "%s@%s: %s\n", unitName, svc.Name, svc.State())

	return nil
}
