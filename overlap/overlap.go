// Package overlap finds the relative position of the two mates of a pair
// when the sequenced fragment is shorter than the reads, so that each mate
// reads into the other mate's start.
package overlap

import (
	"github.com/dasnellings/tagTools/barcode"
	"github.com/dasnellings/tagTools/pair"
	"github.com/vertgenlab/gonomics/dna"
	"golang.org/x/exp/slices"
)

// Aligner proposes alignments for a pair and accepts them only if the
// overlapping parts of the two mates agree.
type Aligner struct {
	Matcher      *barcode.Matcher
	SeedLen      int     // bases taken from the 3' end of a mate as seed
	SeedMismatch int     // substitutions allowed when placing the seed
	Identity     float64 // largest accepted fraction of mismatches in the overlap
}

// AlignUsingSeed reverse-complements the last SeedLen bases of mate 1 and
// looks for them in mate 0, then does the same with the roles swapped. A
// hit is extended to a gapless alignment and kept if the mates are
// similar. It reports whether p was aligned by this call.
func (a *Aligner) AlignUsingSeed(p *pair.Pair) bool {
	if p.IsAligned() {
		return false
	}
	trial := p.Copy()
	if h, ok := a.findSeed(trial.Seq(1), trial.Seq(0)); ok {
		// last base of mate 1 found at h.Start on mate 0
		trial.Align(0, h.Start, trial.Last(1))
	} else if h, ok = a.findSeed(trial.Seq(0), trial.Seq(1)); ok {
		trial.Align(1, h.Start, trial.Last(0))
	}
	return a.alignIfSimilar(p, trial)
}

// AlignUsingPattern looks for the reverse complement of a mate 1 technical
// sequence in mate 0. Mate 1's own technical sequence must already be
// trimmed: the base just before the hit then lies on mate 1's first base.
// It reports whether p was aligned by this call.
func (a *Aligner) AlignUsingPattern(p *pair.Pair) bool {
	if p.IsAligned() {
		return false
	}
	trial := p.Copy()
	if h, ok := a.Matcher.ReverseComplementSearch(trial.Seq(0)); ok && h.Len() >= a.SeedLen {
		trial.Align(0, h.Start-1, 0)
	}
	return a.alignIfSimilar(p, trial)
}

func (a *Aligner) findSeed(from, in []dna.Base) (barcode.Hit, bool) {
	n := len(from) - a.SeedLen
	if n < 0 {
		n = 0
	}
	seed := slices.Clone(from[n:])
	dna.ReverseComplement(seed)
	return barcode.Search(in, seed, a.SeedMismatch)
}

// alignIfSimilar copies the alignment of trial onto p if the overlapping
// parts of trial's mates are similar enough.
func (a *Aligner) alignIfSimilar(p, trial *pair.Pair) bool {
	if !trial.IsAligned() {
		return false
	}
	trial.TrimOverhangs()
	o0 := trial.Overlap(0)
	o1 := slices.Clone(trial.Overlap(1))
	dna.ReverseComplement(o1)
	d, ok := Distance(o0, o1)
	if !ok || d > a.Identity {
		return false
	}
	// 3' trimming leaves 5' coordinates alone, so the alignment of base 0
	// carries over to the untrimmed pair
	p.Align(0, 0, trial.AlignedTo(0, 0))
	return true
}

// Distance returns the fraction of positions at which x and y differ. ok is
// false when the sequences are empty or differ in length.
func Distance(x, y []dna.Base) (d float64, ok bool) {
	if len(x) == 0 || len(x) != len(y) {
		return 0, false
	}
	var mm int
	for i := range x {
		if x[i] != y[i] {
			mm++
		}
	}
	return float64(mm) / float64(len(x)), true
}
