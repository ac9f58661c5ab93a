// Package sequence allocates the dense per-scope counters behind
// human-readable reference numbers. Allocation is a single atomic increment
// on the backend, so concurrent creates never observe the same value.
package sequence

import (
	"context"
	"fmt"
	"strings"
	"unicode"
)

// Key scopes a counter. Type is the record family, Partition the optional
// geographic code, Year the issuing year (zero when the scheme is not
// year-scoped). Each distinct key counts independently from 1.
type Key struct {
	Type      string
	Partition string
	Year      int
}

// String returns the canonical backend key, e.g. "seq:cmrf:GUN:2026".
func (k Key) String() string {
	parts := []string{"seq", k.Type}
	if k.Partition != "" {
		parts = append(parts, k.Partition)
	}
	if k.Year != 0 {
		parts = append(parts, fmt.Sprintf("%d", k.Year))
	}
	return strings.Join(parts, ":")
}

// Generator hands out the next value for a key. Implementations must be safe
// for concurrent use and must never return the same value twice for one key.
type Generator interface {
	Next(ctx context.Context, key Key) (int64, error)
}

// Format renders a counter value as the zero-padded suffix used in
// reference numbers.
func Format(n int64) string {
	return fmt.Sprintf("%06d", n)
}

// PartitionCode derives the three-letter partition code from a place name,
// e.g. "Guntur" becomes "GUN". Names without three usable letters fall back
// to "GEN" so allocation never fails on odd input.
func PartitionCode(name string) string {
	var letters []rune
	for _, r := range name {
		if unicode.IsLetter(r) {
			letters = append(letters, unicode.ToUpper(r))
			if len(letters) == 3 {
				return string(letters)
			}
		}
	}
	return "GEN"
}
