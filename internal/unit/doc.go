// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package unit provides the declarative unit model, its descriptor format and
// the registry holding all loaded units and their runtime state.
//
// A unit bundles services, sockets and mounts. Units are read from a directory
// of YAML descriptors, one file per unit, with the file name as unit name:
//
//	service:
//	  - name: getty
//	    exec: /sbin/agetty
//	    args: [tty2, linux]
//	    restart: true
//	mount:
//	  - target: /run
//	    fstype: tmpfs
//	    flags: [MS_NOSUID, MS_NODEV]
//	    create: true
//
// The optional ".enabled" file in the same directory lists the names of the
// units that are activated at boot, one per line.
//
// All shared state lives in one [Registry]. Mutation happens only through
// [Registry.Write], reads through [Registry.Read].
package unit
