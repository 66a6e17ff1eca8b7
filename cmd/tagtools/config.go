package main

import (
	"flag"
	"strconv"
	"strings"

	"github.com/dasnellings/tagTools/trim"
	"github.com/pkg/errors"
)

// engineFlags registers the trimming engine settings shared by all
// subcommands on fs.
type engineFlags struct {
	filler    *int
	bcLen     *string
	seq1      *string
	seq2      *string
	mm        *int
	seedLen   *int
	seedMm    *int
	identity  *float64
	useBc     *string
	dropEmpty *bool
}

func newEngineFlags(fs *flag.FlagSet) *engineFlags {
	d := trim.DefaultConfig()
	return &engineFlags{
		filler:    fs.Int("filler", d.Filler, "Maximum number of bases allowed before the barcode or technical sequence."),
		bcLen:     fs.String("bcLen", joinInts(d.BarcodeLen[:]), "Barcode length of mate 1 and mate 2, comma separated."),
		seq1:      fs.String("seq1", strings.Join(d.Sequences[0], ","), "Technical sequences expected in mate 1, comma separated, in order of preference."),
		seq2:      fs.String("seq2", strings.Join(d.Sequences[1], ","), "Technical sequences expected in mate 2, comma separated, in order of preference."),
		mm:        fs.Int("mm", d.MaxMismatch, "Maximum substitutions in a technical sequence."),
		seedLen:   fs.Int("seedLen", d.SeedLen, "Length of the 3' seed used to detect overlapping mates."),
		seedMm:    fs.Int("seedMm", d.SeedMismatch, "Maximum substitutions when placing an overlap seed."),
		identity:  fs.Float64("identity", d.OverlapIdentity, "Largest fraction of mismatching bases accepted in an overlap."),
		useBc:     fs.String("useBc", "1", "Mates whose barcode is appended to read names, comma separated. Empty for none."),
		dropEmpty: fs.Bool("dropEmpty", d.DropEmpty, "Skip pairs where a mate is trimmed to nothing instead of writing a single N."),
	}
}

func (f *engineFlags) config() (trim.Config, error) {
	c := trim.Config{
		Filler:          *f.filler,
		MaxMismatch:     *f.mm,
		SeedLen:         *f.seedLen,
		SeedMismatch:    *f.seedMm,
		OverlapIdentity: *f.identity,
		DropEmpty:       *f.dropEmpty,
	}
	bcLen, err := parseInts(*f.bcLen)
	if err != nil || len(bcLen) != 2 {
		return c, errors.Errorf("-bcLen must be two comma separated lengths, got %q", *f.bcLen)
	}
	copy(c.BarcodeLen[:], bcLen)
	c.Sequences[0] = splitList(strings.ToUpper(*f.seq1))
	c.Sequences[1] = splitList(strings.ToUpper(*f.seq2))
	mates, err := parseInts(*f.useBc)
	if err != nil {
		return c, errors.Wrap(err, "-useBc")
	}
	for _, m := range mates {
		if m != 1 && m != 2 {
			return c, errors.Errorf("-useBc accepts mates 1 and 2, got %d", m)
		}
		c.UseBarcode[m-1] = true
	}
	return c, c.Validate()
}

func splitList(s string) []string {
	var ans []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			ans = append(ans, f)
		}
	}
	return ans
}

func parseInts(s string) ([]int, error) {
	var ans []int
	for _, f := range splitList(s) {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		ans = append(ans, n)
	}
	return ans, nil
}

func joinInts(n []int) string {
	s := make([]string, len(n))
	for i := range n {
		s[i] = strconv.Itoa(n[i])
	}
	return strings.Join(s, ",")
}
