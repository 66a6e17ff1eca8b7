// Package trim runs the per-pair pipeline: technical sequence and barcode
// removal, overlap detection, and 3' overhang trimming.
package trim

import (
	"fmt"
	"strings"

	"github.com/dasnellings/tagTools/barcode"
	"github.com/dasnellings/tagTools/overlap"
	"github.com/dasnellings/tagTools/pair"
	"github.com/pkg/errors"
	"github.com/vertgenlab/gonomics/dna"
	"github.com/vertgenlab/gonomics/fastq"
)

// ErrNameMismatch is returned when the names of two mates do not belong to
// the same pair.
var ErrNameMismatch = errors.New("mate names do not match")

// Processor trims read pairs. It holds no per-pair state and may be used
// from several goroutines at once.
type Processor struct {
	cfg     Config
	matcher *barcode.Matcher
	aligner *overlap.Aligner
}

// Outcome is the result of processing one pair. Mates is only filled for
// accepted pairs.
type Outcome struct {
	Stats    Stats
	Accepted bool
	Mates    [2]fastq.Fastq
}

// NewProcessor validates cfg and compiles its patterns.
func NewProcessor(cfg Config) (*Processor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := cfg.Matcher()
	return &Processor{cfg: cfg, matcher: m, aligner: cfg.Aligner(m)}, nil
}

// Matcher returns the compiled technical sequence matcher.
func (p *Processor) Matcher() *barcode.Matcher { return p.matcher }

// Process trims one pair. Pairs whose technical sequences cannot be found
// are rejected and reported through the returned Stats only; an error is
// returned for malformed input, which should stop the run.
func (p *Processor) Process(in fastq.PairedEnd) (Outcome, error) {
	var out Outcome
	name, err := BaseName(in.Fwd.Name, in.Rev.Name)
	if err != nil {
		return out, err
	}
	r, err := pair.New(in.Fwd.Seq, in.Fwd.Qual, in.Rev.Seq, in.Rev.Qual)
	if err != nil {
		return out, errors.Wrapf(err, "pair %s", name)
	}
	out.Stats.Pairs = 1

	if p.aligner.AlignUsingSeed(r) {
		out.Stats.Overlap++
	}

	var barcodes []string
	valid := true
	for i := 0; i < 2; i++ {
		res, err := p.matcher.Match(i, r.Seq(i))
		if err != nil {
			if i == 0 {
				out.Stats.InvalidMate0++
			} else {
				out.Stats.InvalidMate1++
			}
			valid = false
			continue
		}
		if p.cfg.UseBarcode[i] && res.Barcode != "" {
			barcodes = append(barcodes, res.Barcode)
		}
		r.Trim5p(i, res.Trim)
	}
	if !valid {
		out.Stats.Rejected++
		return out, nil
	}

	// the mate 2 primer is gone now, so its reverse complement may be
	// searched for in mate 1
	if !r.IsAligned() && p.aligner.AlignUsingSeed(r) {
		out.Stats.Overlap++
	}
	if !r.IsAligned() && p.aligner.AlignUsingPattern(r) {
		out.Stats.Overlap++
	}
	r.TrimOverhangs()

	if r.Len(0) == 0 || r.Len(1) == 0 {
		out.Stats.EmptyMate++
		if p.cfg.DropEmpty {
			out.Stats.Rejected++
			return out, nil
		}
	}

	bc := strings.Join(barcodes, ":")
	for i := 0; i < 2; i++ {
		out.Mates[i] = fastq.Fastq{
			Name: fmt.Sprintf("%s|%s/%d", name, bc, i+1),
			Seq:  r.Seq(i),
			Qual: r.Qual(i),
		}
		if len(out.Mates[i].Seq) == 0 {
			// keep the record parseable downstream
			out.Mates[i].Seq = []dna.Base{dna.N}
			out.Mates[i].Qual = []uint8{0}
		}
	}
	out.Stats.Accepted++
	out.Accepted = true
	return out, nil
}

// BaseName returns the name shared by both mates of a pair. Identical names
// are used as is. Otherwise the names are compared up to the first
// whitespace, and failing that must end in /1 or /2 with a common prefix.
func BaseName(name0, name1 string) (string, error) {
	if name0 == name1 {
		return name0, nil
	}
	id0, id1 := firstField(name0), firstField(name1)
	if id0 == id1 && id0 != "" {
		return id0, nil
	}
	b0, ok0 := trimMateSuffix(id0)
	b1, ok1 := trimMateSuffix(id1)
	if !ok0 || !ok1 || b0 != b1 {
		return "", errors.Wrapf(ErrNameMismatch, "%q and %q", name0, name1)
	}
	return b0, nil
}

func firstField(name string) string {
	if i := strings.IndexAny(name, " \t"); i >= 0 {
		return name[:i]
	}
	return name
}

func trimMateSuffix(name string) (string, bool) {
	if strings.HasSuffix(name, "/1") || strings.HasSuffix(name, "/2") {
		return name[:len(name)-2], true
	}
	return "", false
}
