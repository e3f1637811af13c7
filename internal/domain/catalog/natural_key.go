package catalog

import (
	"sort"
	"strings"
)

// NaturalKey is the sort key derived from an item code: the code split into
// its string prefix and trailing numeric sequence. "250822_BB_12" becomes
// {Prefix: "250822_BB", Number: 12}; a code without a trailing digit run
// keeps the whole string as prefix with Number 0.
type NaturalKey struct {
	Prefix string
	Number int
}

// ParseNaturalKey extracts the natural sort key from an item code.
// The trailing run of ASCII digits, optionally preceded by a single '_' or
// '-', is split off as the numeric suffix. Pure and O(len(s)).
func ParseNaturalKey(s string) NaturalKey {
	end := len(s)
	i := end
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == end {
		// no trailing digits
		return NaturalKey{Prefix: s, Number: 0}
	}
	n := 0
	for j := i; j < end; j++ {
		n = n*10 + int(s[j]-'0')
	}
	prefix := s[:i]
	if len(prefix) > 0 && (prefix[len(prefix)-1] == '_' || prefix[len(prefix)-1] == '-') {
		prefix = prefix[:len(prefix)-1]
	}
	return NaturalKey{Prefix: prefix, Number: n}
}

// Compare returns -1, 0 or 1 ordering k before, equal to, or after other.
// Prefixes compare lexicographically, numbers numerically, so "..._2" sorts
// before "..._10".
func (k NaturalKey) Compare(other NaturalKey) int {
	if c := strings.Compare(k.Prefix, other.Prefix); c != 0 {
		return c
	}
	switch {
	case k.Number < other.Number:
		return -1
	case k.Number > other.Number:
		return 1
	}
	return 0
}

// CompareCodes orders two raw item codes by their natural keys.
func CompareCodes(a, b string) int {
	return ParseNaturalKey(a).Compare(ParseNaturalKey(b))
}

// SortByCode sorts any slice of entities that expose an item code through
// the given accessor, in natural code order. The sort is stable so entries
// with identical codes keep their relative order.
func SortByCode[T any](items []T, code func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		return CompareCodes(code(items[i]), code(items[j])) < 0
	})
}
