// Package barcode locates the technical sequences at the 5' end of each
// mate, extracts the sample barcode in front of them, and searches for
// technical sequences read through from the other end of short fragments.
package barcode

import (
	"github.com/pkg/errors"
	"github.com/vertgenlab/gonomics/dna"
	"golang.org/x/exp/slices"
)

// Tn5 mosaic end and the two mate 2 primer variants used by iPool-Seq libraries.
const (
	Tn5MosaicEnd   string = "AGATGTGTATAAGAGACAG"
	Mate2Primer    string = "CTGTGGTATCCTGTGGCGATC"
	Mate2PrimerAlt string = "CTGTGGTATCCTGTGGCGTGAGTGGC"
)

// ErrNoMatch is returned when no filler/barcode/technical sequence
// combination fits a read within the mismatch limit.
var ErrNoMatch = errors.New("no technical sequence match")

// Layout is the structure expected at the 5' end of a mate:
//
//	<0..Filler bases> <BarcodeLen bases> <one of Sequences> || <insert>
//
// Everything before || is trimmed. Barcode bases may be any call.
type Layout struct {
	Filler     int
	BarcodeLen int
	Sequences  []string
}

type compiled struct {
	filler     int
	barcodeLen int
	seqs       [][]dna.Base
}

// Matcher matches reads against one Layout per mate, allowing up to
// MaxMismatch substitutions in the technical sequence. N in either the read
// or the technical sequence matches anything.
type Matcher struct {
	mates       [2]compiled
	rcMate1     [][]dna.Base
	maxMismatch int
}

// Result describes a successful 5' match.
type Result struct {
	Trim    int    // length of the matched prefix, filler + barcode + technical sequence
	Filler  int    // number of filler bases
	Barcode string // barcode bases, empty when the layout has none
	Variant int    // index of the matched technical sequence in Layout.Sequences
	Errors  int    // mismatches in the technical sequence
}

// Hit is an occurrence found by an unanchored search.
type Hit struct {
	Start   int
	End     int
	Errors  int
	Variant int
	Partial bool // the pattern runs off the end of the read
}

// Len is the number of read bases covered by the hit.
func (h Hit) Len() int { return h.End - h.Start }

// NewMatcher compiles the layouts of mate 0 and mate 1.
func NewMatcher(mate0, mate1 Layout, maxMismatch int) *Matcher {
	m := &Matcher{maxMismatch: maxMismatch}
	for i, l := range [2]Layout{mate0, mate1} {
		m.mates[i] = compiled{filler: l.Filler, barcodeLen: l.BarcodeLen}
		for _, s := range l.Sequences {
			m.mates[i].seqs = append(m.mates[i].seqs, dna.StringToBases(s))
		}
	}
	for _, s := range m.mates[1].seqs {
		rc := slices.Clone(s)
		dna.ReverseComplement(rc)
		m.rcMate1 = append(m.rcMate1, rc)
	}
	return m
}

// MatchMate0 matches the 5' layout of mate 0.
func (m *Matcher) MatchMate0(seq []dna.Base) (Result, error) {
	return m.Match(0, seq)
}

// MatchMate1 matches the 5' layout of mate 1.
func (m *Matcher) MatchMate1(seq []dna.Base) (Result, error) {
	return m.Match(1, seq)
}

// Match anchors the layout of the given mate at the start of seq and tries
// every filler length and technical sequence. The combination with the
// fewest mismatches wins; ties go to the earlier technical sequence, then
// the shorter filler.
func (m *Matcher) Match(mate int, seq []dna.Base) (Result, error) {
	c := &m.mates[mate]
	best := Result{Errors: -1}
	for v, ts := range c.seqs {
		for f := 0; f <= c.filler; f++ {
			start := f + c.barcodeLen
			end := start + len(ts)
			if end > len(seq) {
				break
			}
			limit := m.maxMismatch
			if best.Errors >= 0 && best.Errors-1 < limit {
				limit = best.Errors - 1
			}
			mm := Mismatches(seq[start:end], ts, limit)
			if mm > limit {
				continue
			}
			best = Result{Trim: end, Filler: f, Variant: v, Errors: mm}
			if c.barcodeLen > 0 {
				best.Barcode = dna.BasesToString(seq[f:start])
			}
		}
	}
	if best.Errors < 0 {
		return best, errors.Wrapf(ErrNoMatch, "mate %d", mate+1)
	}
	return best, nil
}

// ReverseComplementSearch looks for the reverse complement of any mate 1
// technical sequence anywhere in seq. A complete occurrence is preferred;
// otherwise the longest occurrence that runs off the end of seq is
// returned, so that read-through into a truncated technical sequence is
// still found.
func (m *Matcher) ReverseComplementSearch(seq []dna.Base) (Hit, bool) {
	best := Hit{Errors: -1}
	for v, p := range m.rcMate1 {
		h, ok := Search(seq, p, m.maxMismatch)
		if ok && (best.Errors < 0 || h.Errors < best.Errors || (h.Errors == best.Errors && h.Start < best.Start)) {
			h.Variant = v
			best = h
		}
	}
	if best.Errors >= 0 {
		return best, true
	}
	for v, p := range m.rcMate1 {
		h, ok := searchPartial(seq, p, m.maxMismatch)
		if ok && (best.Errors < 0 || h.Len() > best.Len() || (h.Len() == best.Len() && h.Errors < best.Errors)) {
			h.Variant = v
			best = h
		}
	}
	return best, best.Errors >= 0
}

// searchPartial finds the earliest start from which the rest of seq
// matches a prefix of pattern, for starts where the full pattern no
// longer fits.
func searchPartial(seq, pattern []dna.Base, maxMismatch int) (Hit, bool) {
	from := len(seq) - len(pattern) + 1
	if from < 0 {
		from = 0
	}
	for start := from; start < len(seq); start++ {
		n := len(seq) - start
		if mm := Mismatches(seq[start:], pattern[:n], maxMismatch); mm <= maxMismatch {
			return Hit{Start: start, End: len(seq), Errors: mm, Partial: true}, true
		}
	}
	return Hit{}, false
}
