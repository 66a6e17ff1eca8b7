// Package extract streams paired FASTQ files through the trimming engine.
package extract

import (
	"context"
	"log"

	"github.com/dasnellings/tagTools/trim"
	"github.com/exascience/pargo/pipeline"
	"github.com/pkg/errors"
	"github.com/vertgenlab/gonomics/dna"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fastq"
	"github.com/vertgenlab/gonomics/fileio"
)

// FASTQ uses ascii offset of 33 to make everything start with individual characters
// without adding 33 you get values like spaces and newlines
const asciiOffset uint8 = 33

const (
	minBatchSize = 512
	maxBatchSize = 4096
)

// Options describes one trimming run.
type Options struct {
	R1, R2     string // input mates, optionally gzipped
	Out1, Out2 string // output mates, gzipped if the name ends in .gz
	Threads    int    // worker limit, 0 for GOMAXPROCS
	Progress   int    // log running stats every Progress pairs, 0 to disable
	Config     trim.Config
}

type trimmed struct {
	stats   trim.Stats
	records [2][]byte
}

// Extract trims every pair of opts.R1 and opts.R2 and writes accepted pairs
// to opts.Out1 and opts.Out2 in input order. When ctx is cancelled no new
// pairs are read, pairs already being processed are written, and both
// outputs are closed cleanly. The returned stats cover the pairs written or
// rejected so far.
func Extract(ctx context.Context, opts Options) (trim.Stats, error) {
	var total trim.Stats
	proc, err := trim.NewProcessor(opts.Config)
	if err != nil {
		return total, err
	}

	reads := make(chan fastq.PairedEnd, 1000)
	go fastq.PairedEndToChan(opts.R1, opts.R2, reads)
	src := newPairSource(ctx, reads)
	defer src.drain()

	var out [2]*fileio.EasyWriter
	out[0] = fileio.EasyCreate(opts.Out1)
	out[1] = fileio.EasyCreate(opts.Out2)

	var p pipeline.Pipeline
	p.Source(src)
	p.SetVariableBatchSize(minBatchSize, maxBatchSize)
	p.Add(pipeline.LimitedPar(opts.Threads, pipeline.Receive(func(_ int, data interface{}) interface{} {
		var res trimmed
		for _, in := range data.([]fastq.PairedEnd) {
			o, err := proc.Process(in)
			if err != nil {
				p.SetErr(err)
				return res
			}
			res.stats.Add(o.Stats)
			if !o.Accepted {
				continue
			}
			for i := range o.Mates {
				res.records[i] = appendRecord(res.records[i], o.Mates[i])
				res.stats.AddLength(i, len(o.Mates[i].Seq))
			}
		}
		return res
	})))
	p.Add(pipeline.StrictOrd(pipeline.Receive(func(_ int, data interface{}) interface{} {
		res := data.(trimmed)
		for i := range out {
			_, err := out[i].Write(res.records[i])
			exception.PanicOnErr(err)
		}
		prev := total.Pairs
		total.Add(res.stats)
		if opts.Progress > 0 && total.Pairs/opts.Progress > prev/opts.Progress {
			log.Printf("Processed %d pairs: %d written, %d skipped, %d overlapping\n",
				total.Pairs, total.Accepted, total.Rejected, total.Overlap)
		}
		return nil
	})))
	p.Run()

	for i := range out {
		err = out[i].Close()
		exception.PanicOnErr(err)
	}

	if err = p.Err(); err != nil {
		return total, errors.Wrapf(err, "trimming %s and %s", opts.R1, opts.R2)
	}
	if err = ctx.Err(); err != nil {
		return total, err
	}
	return total, nil
}

// appendRecord formats fq as a four line FASTQ record.
func appendRecord(b []byte, fq fastq.Fastq) []byte {
	b = append(b, '@')
	b = append(b, fq.Name...)
	b = append(b, '\n')
	b = append(b, dna.BasesToString(fq.Seq)...)
	b = append(b, "\n+\n"...)
	for _, q := range fq.Qual {
		b = append(b, q+asciiOffset)
	}
	return append(b, '\n')
}
