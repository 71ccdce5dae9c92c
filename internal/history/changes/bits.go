// Package changes computes which logical fields differ between two snapshots
// of the same entity. Each snapshot type has its own fixed-width flag set; the
// field list is closed so flags are bit constants, not string keys.
//
// Identity fields (AlertID, QualificationID, InductionID, task reference and
// type) never change between two snapshots of one entity and are not diffed.
package changes

import (
	"math/bits"
	"strings"
)

type flagSet interface {
	~uint32
}

func hasAll[T flagSet](s, f T) bool { return f != 0 && s&f == f }

func hasAny[T flagSet](s, mask T) bool { return s&mask != 0 }

func count[T flagSet](s T) int { return bits.OnesCount32(uint32(s)) }

// split returns each set bit as its own value, lowest bit first.
func split[T flagSet](s T) []T {
	out := make([]T, 0, count(s))
	for v := uint32(s); v != 0; v &= v - 1 {
		out = append(out, T(v&-v))
	}
	return out
}

func describe[T flagSet](s T, names []string) string {
	if s == 0 {
		return "None"
	}
	parts := make([]string, 0, count(s))
	for _, f := range split(s) {
		idx := bits.TrailingZeros32(uint32(f))
		if idx < len(names) {
			parts = append(parts, names[idx])
		} else {
			parts = append(parts, "Unknown")
		}
	}
	return strings.Join(parts, "|")
}
