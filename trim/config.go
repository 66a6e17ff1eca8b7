package trim

import (
	"github.com/dasnellings/tagTools/barcode"
	"github.com/dasnellings/tagTools/overlap"
	"github.com/pkg/errors"
)

// Config holds every tunable of the per-pair engine. Index 0 refers to
// mate 1 (R1) and index 1 to mate 2 (R2).
type Config struct {
	Filler      int         // maximum filler length before barcode/technical sequence
	BarcodeLen  [2]int      // barcode length per mate, 0 for none
	Sequences   [2][]string // candidate technical sequences per mate, in order of preference
	MaxMismatch int         // substitutions allowed in a technical sequence

	SeedLen         int     // overlap seed length
	SeedMismatch    int     // substitutions allowed when placing an overlap seed
	OverlapIdentity float64 // largest accepted fraction of mismatches in an overlap

	UseBarcode [2]bool // mates whose barcode is appended to the read name
	DropEmpty  bool    // reject pairs with a mate trimmed to nothing
}

// DefaultConfig returns the settings for iPool-Seq libraries.
func DefaultConfig() Config {
	return Config{
		Filler:          1,
		BarcodeLen:      [2]int{12, 0},
		Sequences:       [2][]string{{barcode.Tn5MosaicEnd}, {barcode.Mate2Primer, barcode.Mate2PrimerAlt}},
		MaxMismatch:     4,
		SeedLen:         10,
		SeedMismatch:    2,
		OverlapIdentity: 0.9,
		UseBarcode:      [2]bool{true, false},
	}
}

// Validate checks that c describes a usable engine.
func (c Config) Validate() error {
	switch {
	case c.Filler < 0:
		return errors.Errorf("filler length must not be negative, got %d", c.Filler)
	case c.BarcodeLen[0] < 0 || c.BarcodeLen[1] < 0:
		return errors.Errorf("barcode lengths must not be negative, got %v", c.BarcodeLen)
	case c.MaxMismatch < 0 || c.SeedMismatch < 0:
		return errors.Errorf("mismatch limits must not be negative, got %d and %d", c.MaxMismatch, c.SeedMismatch)
	case c.SeedLen < 1:
		return errors.Errorf("seed length must be positive, got %d", c.SeedLen)
	case c.OverlapIdentity < 0 || c.OverlapIdentity > 1:
		return errors.Errorf("overlap identity must be within [0,1], got %g", c.OverlapIdentity)
	}
	for i, seqs := range c.Sequences {
		if len(seqs) == 0 {
			return errors.Errorf("no technical sequence given for mate %d", i+1)
		}
		for _, s := range seqs {
			for j := 0; j < len(s); j++ {
				switch s[j] {
				case 'A', 'C', 'G', 'T', 'N':
				default:
					return errors.Errorf("technical sequence %q for mate %d contains %q", s, i+1, s[j])
				}
			}
			if s == "" {
				return errors.Errorf("empty technical sequence for mate %d", i+1)
			}
		}
	}
	return nil
}

// Matcher compiles the technical sequence layouts described by c.
func (c Config) Matcher() *barcode.Matcher {
	return barcode.NewMatcher(
		barcode.Layout{Filler: c.Filler, BarcodeLen: c.BarcodeLen[0], Sequences: c.Sequences[0]},
		barcode.Layout{Filler: c.Filler, BarcodeLen: c.BarcodeLen[1], Sequences: c.Sequences[1]},
		c.MaxMismatch)
}

// Aligner returns an overlap aligner using m for pattern-assisted alignment.
func (c Config) Aligner(m *barcode.Matcher) *overlap.Aligner {
	return &overlap.Aligner{
		Matcher:      m,
		SeedLen:      c.SeedLen,
		SeedMismatch: c.SeedMismatch,
		Identity:     c.OverlapIdentity,
	}
}
