// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package unit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bushyice/rind/internal/name"
	"github.com/gofrs/flock"
)

// EnabledFile is the name of the file in the units directory that lists the
// enabled units.
const EnabledFile = ".enabled"

const enabledFileMode = 0o644

// descriptorExtensions are the file extensions of unit descriptors.
var descriptorExtensions = []string{".yaml", ".yml"}

// IsDescriptor returns true if the given file name has a descriptor file
// extension.
func IsDescriptor(fileName string) bool {
	ext := filepath.Ext(fileName)
	for _, descExt := range descriptorExtensions {
		if ext == descExt {
			return true
		}
	}

	return false
}

// LoadFile reads and parses the descriptor at the given path. All services of
// the returned unit are Inactive.
func LoadFile(path string) (*Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DescriptorError{Path: path, Err: err}
	}

	unit, err := Parse(data)
	if err != nil {
		return nil, &DescriptorError{Path: path, Err: err}
	}

	unit.resetRuntime()

	return unit, nil
}

// LoadDir loads all unit descriptors and the enabled file from the given
// directory into the given [Units].
//
// The unit name is the descriptor's file name. Files are processed in
// lexicographic order. The scan stops at the first error; units loaded before
// stay loaded.
func LoadDir(units *Units, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read units dir: %w", err)
	}

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}

		path := filepath.Join(dir, entry.Name())

		switch {
		case IsDescriptor(entry.Name()):
			unit, err := LoadFile(path)
			if err != nil {
				return err
			}

			units.InsertUnit(name.New(entry.Name()), unit)
		case entry.Name() == EnabledFile:
			data, err := os.ReadFile(path)
			if err != nil {
				return &DescriptorError{Path: path, Err: err}
			}

			units.ParseEnabled(string(data))
		}
	}

	return nil
}

// SaveEnabled writes the given names as enabled file into the given
// directory.
//
// The file is written while holding an exclusive lock on a sibling lock file
// so concurrent writers do not interleave.
func SaveEnabled(dir string, names []name.Name) error {
	path := filepath.Join(dir, EnabledFile)

	fileLock := flock.New(path + ".lock")
	if err := fileLock.Lock(); err != nil {
		return fmt.Errorf("lock enabled file: %w", err)
	}

	defer func() {
		_ = fileLock.Unlock()
	}()

	lines := make([]string, len(names))
	for idx, n := range names {
		lines[idx] = n.String()
	}

	content := strings.Join(lines, "\n")
	if content != "" {
		content += "\n"
	}

	if err := os.WriteFile(path, []byte(content), enabledFileMode); err != nil {
		return fmt.Errorf("write enabled file: %w", err)
	}

	return nil
}
