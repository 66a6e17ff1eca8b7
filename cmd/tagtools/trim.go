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
	"github.com/dasnellings/tagTools/report"
	"github.com/pkg/profile"
	"github.com/vertgenlab/gonomics/exception"
)

func trimUsage(trimFlags *flag.FlagSet) {
	fmt.Print(
		"trim - Remove barcodes and technical sequences from paired FASTQ files\n\n" +
			"Usage:\n" +
			"  tagtools trim [options] -1 r1.fq.gz -2 r2.fq.gz -o1 out1.fq.gz -o2 out2.fq.gz\n\n" +
			"Options:\n")
	trimFlags.PrintDefaults()
}

func runTrim(args []string) {
	var err error
	trimFlags := flag.NewFlagSet("trim", flag.ExitOnError)

	r1 := trimFlags.String("1", "", "FASTQ file containing R1 reads. May be gzipped.")
	r2 := trimFlags.String("2", "", "FASTQ file containing R2 reads. May be gzipped.")
	out1 := trimFlags.String("o1", "", "Output FASTQ file for trimmed R1 reads. Gzipped if ending in .gz.")
	out2 := trimFlags.String("o2", "", "Output FASTQ file for trimmed R2 reads. Gzipped if ending in .gz.")
	threads := trimFlags.Int("threads", 0, "Number of worker threads. 0 uses all available processors.")
	progress := trimFlags.Int("progress", 100000, "Log progress every # of read pairs. 0 to disable.")
	graph := trimFlags.Bool("graph", false, "Print a histogram of trimmed read lengths to stderr.")
	plotFile := trimFlags.String("plot", "", "Save a bar chart of trimmed read lengths to this file (png, svg, or pdf).")
	cpuprofile := trimFlags.Bool("cpuprofile", false, "Write a CPU profile to the working directory.")
	memprofile := trimFlags.Bool("memprofile", false, "Write a memory profile to the working directory.")
	engine := newEngineFlags(trimFlags)

	err = trimFlags.Parse(args)
	exception.PanicOnErr(err)
	trimFlags.Usage = func() { trimUsage(trimFlags) }

	if *r1 == "" || *r2 == "" || *out1 == "" || *out2 == "" {
		trimFlags.Usage()
		errExit("\nERROR: must have inputs for -1 and -2 and outputs for -o1 and -o2")
	}
	if *memprofile && *cpuprofile {
		trimFlags.Usage()
		errExit("\nERROR: -memprofile and -cpuprofile are mutually exclusive.")
	}
	if *threads < 0 {
		errExit("ERROR: threads must be >= 0.")
	}

	cfg, err := engine.config()
	if err != nil {
		errExit("ERROR: " + err.Error())
	}

	if *memprofile {
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	}
	if *cpuprofile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, err := extract.Extract(ctx, extract.Options{
		R1:       *r1,
		R2:       *r2,
		Out1:     *out1,
		Out2:     *out2,
		Threads:  *threads,
		Progress: *progress,
		Config:   cfg,
	})
	report.Log(stats)
	if *graph {
		for i := 0; i < 2; i++ {
			if g := report.Graph(stats, i); g != "" {
				fmt.Fprintln(os.Stderr, g)
			}
		}
	}
	if *plotFile != "" {
		if perr := report.Plot(stats, *plotFile); perr != nil {
			log.Println("WARNING:", perr)
		}
	}
	if err != nil {
		log.Fatalln("ERROR:", err)
	}
}
