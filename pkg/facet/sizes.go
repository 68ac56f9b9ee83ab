package facet

import (
	"slices"
	"strings"
)

var canonicalSizes = []string{"XS", "S", "M", "L", "XL", "2XL", "3XL", "4XL", "Free Size"}

func sizeRank(size string) int {
	return slices.Index(canonicalSizes, size)
}

// SortSizes orders sizes the way they are printed on a size chart. Sizes outside
// the chart go last, alphabetically.
func SortSizes(sizes []string) []string {
	ret := slices.Clone(sizes)
	slices.SortStableFunc(ret, func(a, b string) int {
		ra, rb := sizeRank(a), sizeRank(b)
		switch {
		case ra >= 0 && rb >= 0:
			return ra - rb
		case ra >= 0:
			return -1
		case rb >= 0:
			return 1
		}
		return strings.Compare(a, b)
	})
	return ret
}
