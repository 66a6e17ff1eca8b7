// Package pair holds a forward/reverse read pair whose mates can be trimmed
// independently while keeping track of how the two mates line up on the
// fragment they were sequenced from.
package pair

import (
	"log"

	"github.com/pkg/errors"
	"github.com/vertgenlab/gonomics/dna"
	"github.com/vertgenlab/gonomics/numbers"
	"golang.org/x/exp/slices"
)

var (
	// ErrLengthMismatch is returned when a mate's bases and qualities differ in length.
	ErrLengthMismatch = errors.New("sequence and quality lengths differ")

	// ErrInconsistent is raised (as a panic) when the alignment bookkeeping
	// contradicts itself. It always indicates a bug.
	ErrInconsistent = errors.New("internal inconsistency in pair alignment")
)

// anchor is the position on mate 0 that is aligned to the last base of
// mate 1. Mate 1 is read in the opposite direction, so mate 1's index
// last(1)-k sits on mate 0's index start+k.
type anchor struct {
	start int
	set   bool
}

// Pair stores the two mates of an Illumina read pair. Mate 0 and mate 1
// come from opposite strands of the same fragment. Bases and qualities are
// always trimmed together, and once the pair is aligned every trim keeps
// the alignment valid.
type Pair struct {
	seq    [2][]dna.Base
	qual   [2][]uint8
	anchor anchor
}

// New returns an unaligned pair.
func New(seq0 []dna.Base, qual0 []uint8, seq1 []dna.Base, qual1 []uint8) (*Pair, error) {
	if len(seq0) != len(qual0) {
		return nil, errors.Wrapf(ErrLengthMismatch, "mate 1 has %d bases and %d qualities", len(seq0), len(qual0))
	}
	if len(seq1) != len(qual1) {
		return nil, errors.Wrapf(ErrLengthMismatch, "mate 2 has %d bases and %d qualities", len(seq1), len(qual1))
	}
	return &Pair{
		seq:  [2][]dna.Base{seq0, seq1},
		qual: [2][]uint8{qual0, qual1},
	}, nil
}

// Copy returns a deep copy of p. Trimming the copy never touches p.
func (p *Pair) Copy() *Pair {
	return &Pair{
		seq:    [2][]dna.Base{slices.Clone(p.seq[0]), slices.Clone(p.seq[1])},
		qual:   [2][]uint8{slices.Clone(p.qual[0]), slices.Clone(p.qual[1])},
		anchor: p.anchor,
	}
}

// Seq returns the bases of mate i.
func (p *Pair) Seq(i int) []dna.Base { return p.seq[i] }

// Qual returns the qualities of mate i.
func (p *Pair) Qual(i int) []uint8 { return p.qual[i] }

// Len returns the length of mate i.
func (p *Pair) Len(i int) int { return len(p.seq[i]) }

// Last returns the last index of mate i, -1 for an empty mate.
func (p *Pair) Last(i int) int { return len(p.seq[i]) - 1 }

// IsAligned reports whether the relative position of the mates is known.
func (p *Pair) IsAligned() bool { return p.anchor.set }

// OtherStart returns the index on mate i of the first base that is also
// contained in the other mate. ok is false while the pair is unaligned.
func (p *Pair) OtherStart(i int) (pos int, ok bool) {
	if !p.anchor.set {
		return 0, false
	}
	return p.Len(i) - p.Len(0) + p.anchor.start, true
}

// Align marks the pair as aligned such that position posOnI of mate i
// lies on position posOnOther of mate 1-i. Positions may fall outside the
// mates, only their relative placement matters.
//
//	anchor        posOnI (i=0)
//	  v              v
//	|----------------:------------------>     (0)
//	  <--------------:---------------------|  (1)
//	  ^              ^
//	last(1)     posOnOther (i=0)
func (p *Pair) Align(i, posOnI, posOnOther int) {
	switch i {
	case 0:
		p.anchor = anchor{start: posOnI - (p.Last(1) - posOnOther), set: true}
	case 1:
		p.anchor = anchor{start: posOnOther - (p.Last(1) - posOnI), set: true}
	default:
		log.Panicf("mate index must be 0 or 1, got %d", i)
	}
	if got := p.AlignedTo(i, posOnI); got != posOnOther {
		panic(errors.Wrapf(ErrInconsistent, "mate %d position %d aligned to %d, expected %d", i, posOnI, got, posOnOther))
	}
}

// AlignedTo returns the position on mate 1-i that is aligned to position
// pos of mate i. The pair must be aligned.
func (p *Pair) AlignedTo(i, pos int) int {
	start, ok := p.OtherStart(i)
	if !ok {
		log.Panicf("AlignedTo called on an unaligned pair")
	}
	return p.Last(1-i) + start - pos
}

// Trim5p removes the first n bases of mate i. n larger than the mate
// leaves the mate empty.
func (p *Pair) Trim5p(i, n int) {
	n = numbers.Max(0, numbers.Min(n, p.Len(i)))
	p.seq[i] = p.seq[i][n:]
	p.qual[i] = p.qual[i][n:]
	if i == 0 && p.anchor.set {
		p.anchor.start -= n
	}
}

// Trim3p cuts mate i down to its first n bases. n is clamped to the mate's
// current length, so a larger n leaves the mate untouched. When mate 1 is
// shortened its last base moves, and the anchor follows it by the number
// of bases removed.
func (p *Pair) Trim3p(i, n int) {
	n = numbers.Max(0, numbers.Min(n, p.Len(i)))
	removed := p.Len(i) - n
	p.seq[i] = p.seq[i][:n]
	p.qual[i] = p.qual[i][:n]
	if i == 1 && p.anchor.set {
		p.anchor.start += removed
	}
}

// TrimOverhangs removes the 3' bases of each mate that extend past the
// 5' start of the other mate. For an aligned pair
//
//	      |---------------------->  (0)
//	<------------------------|      (1)
//
// becomes
//
//	      |------------------|      (0)
//	      |------------------|      (1)
//
// Unaligned pairs are left alone.
func (p *Pair) TrimOverhangs() {
	if !p.anchor.set {
		return
	}
	for i := 0; i < 2; i++ {
		start, _ := p.OtherStart(1 - i)
		if start < 0 {
			p.Trim3p(i, p.Len(i)+start)
		}
	}
}

// Overlap returns the part of mate i that is covered by the other mate.
// The result is empty when the mates do not overlap. The pair must be aligned.
func (p *Pair) Overlap(i int) []dna.Base {
	from := numbers.Max(0, p.AlignedTo(1-i, p.Last(1-i)))
	to := numbers.Min(p.Len(i), p.AlignedTo(1-i, -1))
	if to <= from {
		return p.seq[i][:0]
	}
	return p.seq[i][from:to]
}
