package barcode

import "github.com/vertgenlab/gonomics/dna"

// BaseMatch reports whether two bases agree. N matches any base.
func BaseMatch(a, b dna.Base) bool {
	return a == b || a == dna.N || b == dna.N
}

// Mismatches counts the positions where a and b disagree, comparing the
// first min(len(a), len(b)) bases. Counting stops once limit is exceeded,
// so any return value above limit only means "too many".
func Mismatches(a, b []dna.Base, limit int) int {
	if len(b) < len(a) {
		a = a[:len(b)]
	}
	var mm int
	for i := range a {
		if !BaseMatch(a[i], b[i]) {
			mm++
			if mm > limit {
				return mm
			}
		}
	}
	return mm
}

// Search scans every start position of seq for pattern with at most
// maxMismatch substitutions and returns the occurrence with the fewest
// mismatches, the leftmost one on ties.
func Search(seq, pattern []dna.Base, maxMismatch int) (Hit, bool) {
	best := Hit{Errors: -1}
	if len(pattern) == 0 {
		return best, false
	}
	limit := maxMismatch
	for pos := 0; pos+len(pattern) <= len(seq); pos++ {
		mm := Mismatches(seq[pos:pos+len(pattern)], pattern, limit)
		if mm > limit {
			continue
		}
		best = Hit{Start: pos, End: pos + len(pattern), Errors: mm}
		if mm == 0 {
			break
		}
		limit = mm - 1
	}
	return best, best.Errors >= 0
}
