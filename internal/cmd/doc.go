// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cmd provides the entry points of the rind control client and the
// rind init program. It handles flag parsing, error handling, and output
// handling.
package cmd
