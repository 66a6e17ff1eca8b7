package extract

import (
	"context"
	"strconv"

	"github.com/dasnellings/tagTools/barcode"
	"github.com/dasnellings/tagTools/trim"
	"github.com/exascience/pargo/pipeline"
	"github.com/pkg/errors"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fastq"
	"github.com/vertgenlab/gonomics/fileio"
)

const matchHeader = "name\tvariant1\terrors1\tfiller1\tbarcode1\tvariant2\terrors2\tfiller2\tbarcode2\n"

// MatchOptions describes a diagnostic run of the technical sequence matcher.
type MatchOptions struct {
	R1, R2  string
	Out     string
	Threads int
	Config  trim.Config
}

// MatchCounts summarizes a Match run.
type MatchCounts struct {
	Pairs   int
	Matched [2]int
}

// Match looks for the technical sequences of both mates of every pair and
// writes where they were found as one tab separated line per pair. Mates
// with no acceptable match get NA in every column.
func Match(ctx context.Context, opts MatchOptions) (MatchCounts, error) {
	var counts MatchCounts
	proc, err := trim.NewProcessor(opts.Config)
	if err != nil {
		return counts, err
	}
	m := proc.Matcher()

	reads := make(chan fastq.PairedEnd, 1000)
	go fastq.PairedEndToChan(opts.R1, opts.R2, reads)
	src := newPairSource(ctx, reads)
	defer src.drain()

	out := fileio.EasyCreate(opts.Out)
	_, err = out.Write([]byte(matchHeader))
	exception.PanicOnErr(err)

	type batch struct {
		counts MatchCounts
		lines  []byte
	}

	var p pipeline.Pipeline
	p.Source(src)
	p.SetVariableBatchSize(minBatchSize, maxBatchSize)
	p.Add(pipeline.LimitedPar(opts.Threads, pipeline.Receive(func(_ int, data interface{}) interface{} {
		var res batch
		for _, in := range data.([]fastq.PairedEnd) {
			name, err := trim.BaseName(in.Fwd.Name, in.Rev.Name)
			if err != nil {
				p.SetErr(err)
				return res
			}
			res.counts.Pairs++
			res.lines = append(res.lines, name...)
			for i, seq := range [2]fastq.Fastq{in.Fwd, in.Rev} {
				r, err := m.Match(i, seq.Seq)
				if err == nil {
					res.counts.Matched[i]++
				}
				res.lines = appendMatch(res.lines, r, err)
			}
			res.lines = append(res.lines, '\n')
		}
		return res
	})))
	p.Add(pipeline.StrictOrd(pipeline.Receive(func(_ int, data interface{}) interface{} {
		res := data.(batch)
		_, err := out.Write(res.lines)
		exception.PanicOnErr(err)
		counts.Pairs += res.counts.Pairs
		counts.Matched[0] += res.counts.Matched[0]
		counts.Matched[1] += res.counts.Matched[1]
		return nil
	})))
	p.Run()

	err = out.Close()
	exception.PanicOnErr(err)

	if err = p.Err(); err != nil {
		return counts, errors.Wrapf(err, "matching %s and %s", opts.R1, opts.R2)
	}
	return counts, ctx.Err()
}

func appendMatch(b []byte, r barcode.Result, err error) []byte {
	if err != nil {
		return append(b, "\tNA\tNA\tNA\tNA"...)
	}
	b = append(b, '\t')
	b = strconv.AppendInt(b, int64(r.Variant), 10)
	b = append(b, '\t')
	b = strconv.AppendInt(b, int64(r.Errors), 10)
	b = append(b, '\t')
	b = strconv.AppendInt(b, int64(r.Filler), 10)
	b = append(b, '\t')
	return append(b, orDot(r.Barcode)...)
}

func orDot(s string) string {
	if s == "" {
		return "."
	}
	return s
}
