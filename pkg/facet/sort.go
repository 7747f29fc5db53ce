package facet

import (
	"sort"
	"strings"
)

// SortOptions orders options by label with numeric-aware comparison, so
// "9" sorts before "17" and "35x12.50R17" groups sensibly.
func SortOptions(options []Option) {
	sort.SliceStable(options, func(i, j int) bool {
		return naturalLess(options[i].Label, options[j].Label)
	})
}

func naturalLess(a, b string) bool {
	for a != "" && b != "" {
		aChunk, aNum, aRest := chunk(a)
		bChunk, bNum, bRest := chunk(b)
		if aNum && bNum {
			if len(aChunk) != len(bChunk) {
				// strip leading zeros before comparing magnitudes
				at := strings.TrimLeft(aChunk, "0")
				bt := strings.TrimLeft(bChunk, "0")
				if len(at) != len(bt) {
					return len(at) < len(bt)
				}
				if at != bt {
					return at < bt
				}
			} else if aChunk != bChunk {
				return aChunk < bChunk
			}
		} else if aChunk != bChunk {
			return aChunk < bChunk
		}
		a, b = aRest, bRest
	}
	return a == "" && b != ""
}

// chunk splits off the leading run of digits or non-digits.
func chunk(s string) (string, bool, string) {
	isDigit := s[0] >= '0' && s[0] <= '9'
	for i := 1; i < len(s); i++ {
		d := s[i] >= '0' && s[i] <= '9'
		if d != isDigit {
			return s[:i], isDigit, s[i:]
		}
	}
	return s, isDigit, ""
}
