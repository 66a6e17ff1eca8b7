package trim

import (
	"testing"

	"github.com/dasnellings/tagTools/barcode"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vertgenlab/gonomics/dna"
	"github.com/vertgenlab/gonomics/fastq"
)

const (
	testBarcode = "ACGTACGTACGT"
	fragment    = "GATTCGACCTAGGCTTAACGGTCAGTCCATGAGCTTCAGA"
)

func revComp(s string) string {
	b := dna.StringToBases(s)
	dna.ReverseComplement(b)
	return dna.BasesToString(b)
}

// mutate changes the bases at the given positions.
func mutate(s string, pos ...int) string {
	next := map[byte]byte{'A': 'C', 'C': 'G', 'G': 'T', 'T': 'A'}
	b := []byte(s)
	for _, p := range pos {
		b[p] = next[b[p]]
	}
	return string(b)
}

func record(name, seq string) fastq.Fastq {
	q := make([]uint8, len(seq))
	for i := range q {
		q[i] = 30
	}
	return fastq.Fastq{Name: name, Seq: dna.StringToBases(seq), Qual: q}
}

func readPair(s0, s1 string) fastq.PairedEnd {
	return fastq.PairedEnd{Fwd: record("frag/1", s0), Rev: record("frag/2", s1)}
}

func newProcessor(t *testing.T, cfg Config) *Processor {
	p, err := NewProcessor(cfg)
	require.NoError(t, err)
	return p
}

func TestProcessExactPatterns(t *testing.T) {
	p := newProcessor(t, DefaultConfig())
	out, err := p.Process(readPair(testBarcode+barcode.Tn5MosaicEnd+"GATTACAGATTACA", barcode.Mate2Primer+"TACA"))
	require.NoError(t, err)
	require.True(t, out.Accepted)
	assert.Equal(t, "frag|"+testBarcode+"/1", out.Mates[0].Name)
	assert.Equal(t, "frag|"+testBarcode+"/2", out.Mates[1].Name)
	assert.Equal(t, "TACA", dna.BasesToString(out.Mates[1].Seq))
	assert.Equal(t, 1, out.Stats.Pairs)
	assert.Equal(t, 1, out.Stats.Accepted)
	assert.Equal(t, 0, out.Stats.Rejected)
	for i := 0; i < 2; i++ {
		assert.Equal(t, len(out.Mates[i].Seq), len(out.Mates[i].Qual))
	}
}

func TestProcessMate0OnlyTechnical(t *testing.T) {
	// mate 1 is nothing but barcode and Tn5 sequence
	p := newProcessor(t, DefaultConfig())
	out, err := p.Process(readPair(testBarcode+barcode.Tn5MosaicEnd, barcode.Mate2Primer+"TACA"))
	require.NoError(t, err)
	require.True(t, out.Accepted)
	assert.Equal(t, 1, out.Stats.EmptyMate)
	assert.Equal(t, "N", dna.BasesToString(out.Mates[0].Seq))
	assert.Equal(t, []uint8{0}, out.Mates[0].Qual)
	assert.Equal(t, "TACA", dna.BasesToString(out.Mates[1].Seq))
	assert.Equal(t, "frag|"+testBarcode+"/1", out.Mates[0].Name)

	cfg := DefaultConfig()
	cfg.DropEmpty = true
	p = newProcessor(t, cfg)
	out, err = p.Process(readPair(testBarcode+barcode.Tn5MosaicEnd, barcode.Mate2Primer+"TACA"))
	require.NoError(t, err)
	assert.False(t, out.Accepted)
	assert.Equal(t, 1, out.Stats.EmptyMate)
	assert.Equal(t, 1, out.Stats.Rejected)
	assert.Equal(t, 0, out.Stats.Accepted)
}

func TestProcessTooManyMismatches(t *testing.T) {
	p := newProcessor(t, DefaultConfig())
	bad := mutate(barcode.Tn5MosaicEnd, 0, 4, 8, 12, 16)
	out, err := p.Process(readPair(testBarcode+bad+"GATTACA", barcode.Mate2Primer+"TACA"))
	require.NoError(t, err)
	assert.False(t, out.Accepted)
	assert.Equal(t, 1, out.Stats.InvalidMate0)
	assert.Equal(t, 0, out.Stats.InvalidMate1)
	assert.Equal(t, 1, out.Stats.Rejected)
	assert.Equal(t, 0, out.Stats.Accepted)
	assert.Equal(t, fastq.Fastq{}, out.Mates[0])
}

func TestProcessBothMatesInvalid(t *testing.T) {
	p := newProcessor(t, DefaultConfig())
	out, err := p.Process(readPair("GATTACAGATTACAGATTACAGATTACAGATTACA", "CCCCCCCCCCCCCCCCCCCCCCCCC"))
	require.NoError(t, err)
	assert.False(t, out.Accepted)
	assert.Equal(t, 1, out.Stats.InvalidMate0)
	assert.Equal(t, 1, out.Stats.InvalidMate1)
	assert.Equal(t, 1, out.Stats.Rejected)
}

func TestProcessOverlappingMates(t *testing.T) {
	// mate 1 covers fragment[0:25], mate 2 covers fragment[15:40]
	p := newProcessor(t, DefaultConfig())
	s0 := testBarcode + barcode.Tn5MosaicEnd + fragment[:25]
	s1 := barcode.Mate2Primer + revComp(fragment)[:25]
	out, err := p.Process(readPair(s0, s1))
	require.NoError(t, err)
	require.True(t, out.Accepted)
	assert.Equal(t, 1, out.Stats.Overlap)
	assert.Equal(t, fragment[:25], dna.BasesToString(out.Mates[0].Seq))
	assert.Equal(t, revComp(fragment)[:25], dna.BasesToString(out.Mates[1].Seq))
	assert.Equal(t, len(out.Mates[0].Seq), len(out.Mates[1].Seq))

	o0 := dna.BasesToString(out.Mates[0].Seq[15:])
	o1 := dna.BasesToString(out.Mates[1].Seq[15:])
	assert.Equal(t, o0, revComp(o1))
}

func TestProcessReadThrough(t *testing.T) {
	// 20bp insert. Mate 1 reads 12 bases into the mate 2 primer and both
	// 3' ends carry too many errors for the seeds, so only the primer
	// search can place the mates.
	insert := fragment[:20]
	readThrough := mutate(revComp(barcode.Mate2Primer)[:12], 9, 10, 11)
	mate1Insert := mutate(revComp(insert), 12, 14, 16, 18, 19)
	s0 := testBarcode + barcode.Tn5MosaicEnd + insert + readThrough
	s1 := barcode.Mate2Primer + mate1Insert

	p := newProcessor(t, DefaultConfig())
	out, err := p.Process(readPair(s0, s1))
	require.NoError(t, err)
	require.True(t, out.Accepted)
	assert.Equal(t, 1, out.Stats.Overlap)
	assert.Equal(t, insert, dna.BasesToString(out.Mates[0].Seq))
	assert.Equal(t, mate1Insert, dna.BasesToString(out.Mates[1].Seq))
	assert.Equal(t, 20, len(out.Mates[0].Qual))
}

func TestProcessBarcodeMates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BarcodeLen[1] = 4
	cfg.UseBarcode = [2]bool{true, true}
	p := newProcessor(t, cfg)
	out, err := p.Process(readPair(testBarcode+barcode.Tn5MosaicEnd+"GATTACA", "GGCC"+barcode.Mate2Primer+"TACA"))
	require.NoError(t, err)
	require.True(t, out.Accepted)
	assert.Equal(t, "frag|"+testBarcode+":GGCC/2", out.Mates[1].Name)

	cfg.UseBarcode = [2]bool{false, false}
	p = newProcessor(t, cfg)
	out, err = p.Process(readPair(testBarcode+barcode.Tn5MosaicEnd+"GATTACA", "GGCC"+barcode.Mate2Primer+"TACA"))
	require.NoError(t, err)
	assert.Equal(t, "frag|/1", out.Mates[0].Name)
}

func TestProcessMalformed(t *testing.T) {
	p := newProcessor(t, DefaultConfig())
	in := readPair(testBarcode+barcode.Tn5MosaicEnd, barcode.Mate2Primer)
	in.Fwd.Qual = in.Fwd.Qual[1:]
	_, err := p.Process(in)
	assert.Error(t, err)

	in = readPair(testBarcode+barcode.Tn5MosaicEnd, barcode.Mate2Primer)
	in.Rev.Name = "other/2"
	_, err = p.Process(in)
	assert.True(t, errors.Is(err, ErrNameMismatch))
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		name0, name1 string
		expected     string
		ok           bool
	}{
		{"read7", "read7", "read7", true},
		{"read7/1", "read7/2", "read7", true},
		{"read7/2", "read7/1", "read7", true},
		{"M00:1:FC:1:1:10:20 1:N:0:1", "M00:1:FC:1:1:10:20 2:N:0:1", "M00:1:FC:1:1:10:20", true},
		{"read7/1 x", "read7/2 y", "read7", true},
		{"read7/1", "read8/2", "", false},
		{"read7", "read8", "", false},
		{"read7/3", "read7/4", "", false},
	}
	for _, test := range tests {
		got, err := BaseName(test.name0, test.name1)
		if test.ok {
			assert.NoError(t, err, "%q %q", test.name0, test.name1)
			assert.Equal(t, test.expected, got)
		} else {
			assert.True(t, errors.Is(err, ErrNameMismatch), "%q %q", test.name0, test.name1)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.Sequences[1] = nil
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Sequences[0] = []string{"ACGX"}
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.OverlapIdentity = 1.5
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.SeedLen = 0
	_, err := NewProcessor(cfg)
	assert.Error(t, err)
}
