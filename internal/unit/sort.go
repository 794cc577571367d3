// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package unit

import (
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/bushyice/rind/internal/name"
)

// sortedKeys returns the keys of the given map in lexicographic order.
func sortedKeys[V any](m map[name.Name]V) []name.Name {
	return slices.SortedFunc(maps.Keys(m), func(a, b name.Name) int {
		return strings.Compare(a.String(), b.String())
	})
}

// sortedMap returns an iterator that iterates the given map in lexicographic
// order of the keys. Keys removed while iterating are skipped.
func sortedMap[V any](m map[name.Name]V) iter.Seq2[name.Name, V] {
	return func(yield func(name.Name, V) bool) {
		for _, key := range sortedKeys(m) {
			value, exists := m[key]
			if !exists {
				continue
			}

			if !yield(key, value) {
				return
			}
		}
	}
}
