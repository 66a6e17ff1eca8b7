package extract

import (
	"context"

	"github.com/vertgenlab/gonomics/fastq"
)

// pairSource feeds read pairs from a channel into a pargo pipeline in
// batches. It stops handing out batches once ctx is done.
type pairSource struct {
	ctx   context.Context
	reads <-chan fastq.PairedEnd
	batch []fastq.PairedEnd
}

func newPairSource(ctx context.Context, reads <-chan fastq.PairedEnd) *pairSource {
	return &pairSource{ctx: ctx, reads: reads}
}

// Err implements the corresponding method of pipeline.Source
func (s *pairSource) Err() error {
	return nil
}

// Prepare implements the corresponding method of pipeline.Source
func (s *pairSource) Prepare(_ context.Context) (size int) {
	return -1
}

// Fetch implements the corresponding method of pipeline.Source
func (s *pairSource) Fetch(size int) (fetched int) {
	if s.ctx.Err() != nil {
		s.batch = nil
		return 0
	}
	s.batch = make([]fastq.PairedEnd, 0, size)
	for len(s.batch) < size {
		select {
		case <-s.ctx.Done():
			s.batch = s.batch[:0]
			return 0
		case pe, ok := <-s.reads:
			if !ok {
				return len(s.batch)
			}
			s.batch = append(s.batch, pe)
		}
	}
	return len(s.batch)
}

// Data implements the corresponding method of pipeline.Source
func (s *pairSource) Data() interface{} {
	return s.batch
}

// drain lets the reading goroutine run to completion after the pipeline
// stopped early.
func (s *pairSource) drain() {
	go func() {
		for range s.reads {
		}
	}()
}
