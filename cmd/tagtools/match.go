package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dasnellings/tagTools/extract"
	"github.com/vertgenlab/gonomics/exception"
)

func matchUsage(matchFlags *flag.FlagSet) {
	fmt.Print(
		"match - Report where barcodes and technical sequences are found in each read pair\n\n" +
			"Usage:\n" +
			"  tagtools match [options] -1 r1.fq.gz -2 r2.fq.gz > matches.tsv\n\n" +
			"Options:\n")
	matchFlags.PrintDefaults()
}

func runMatch(args []string) {
	var err error
	matchFlags := flag.NewFlagSet("match", flag.ExitOnError)

	r1 := matchFlags.String("1", "", "FASTQ file containing R1 reads. May be gzipped.")
	r2 := matchFlags.String("2", "", "FASTQ file containing R2 reads. May be gzipped.")
	outfile := matchFlags.String("o", "stdout", "Output TSV file.")
	threads := matchFlags.Int("threads", 0, "Number of worker threads. 0 uses all available processors.")
	engine := newEngineFlags(matchFlags)

	err = matchFlags.Parse(args)
	exception.PanicOnErr(err)
	matchFlags.Usage = func() { matchUsage(matchFlags) }

	if *r1 == "" || *r2 == "" {
		matchFlags.Usage()
		errExit("\nERROR: must have inputs for -1 and -2")
	}

	cfg, err := engine.config()
	if err != nil {
		errExit("ERROR: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	counts, err := extract.Match(ctx, extract.MatchOptions{R1: *r1, R2: *r2, Out: *outfile, Threads: *threads, Config: cfg})
	if err != nil {
		log.Fatalln("ERROR:", err)
	}
	log.Printf("Matched mate 1 in %d of %d pairs, mate 2 in %d\n", counts.Matched[0], counts.Pairs, counts.Matched[1])
}
