package utils

import (
	"strconv"
	"strings"
)

// ParseUintList converts raw id tokens into unsigned integers with a
// tolerant parse: tokens that are empty or not plain non-negative decimal
// numbers are silently dropped rather than treated as errors. Duplicates are
// collapsed, preserving first occurrence order.
//
// Example:
//
//	ids := utils.ParseUintList([]string{"1", "abc", "2", "1"}) // [1 2]
func ParseUintList(tokens []string) []uint {
	out := make([]uint, 0, len(tokens))
	seen := make(map[uint]struct{}, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		n, err := strconv.ParseUint(tok, 10, 64)
		if err != nil {
			continue
		}
		id := uint(n)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
