// Command stalta runs the STA/LTA onset detector over every channel of a
// WAV file and prints the detected events.
//
// Usage:
//
//	stalta -sta 0.5 -lta 10 input.wav
//	stalta -sta 1 -lta 30 -on 4 -off 1.5 input.wav
//	stalta -csv ratio.csv input.wav                 # Also dump the ratio series
//	stalta -parallel=false input.wav                # Disable parallel processing
//
// Each channel is treated as an independent trace; all channels are
// filtered as one batch.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	stalta "github.com/tphakala/go-stalta"
)

const (
	// Sample format constants
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	// Conversion constants
	maxInt16 = 32767.0
	maxInt24 = 8388607.0
	maxInt32 = 2147483647.0

	// CLI defaults
	defaultSTASeconds = 1.0
	defaultLTASeconds = 30.0
	defaultOn         = 3.5
	defaultOff        = 1.5
	minRequiredArgs   = 1

	// CSV formatting
	timeDecimals = 6
	ratioDigits  = 10
)

var errUsage = errors.New("insufficient arguments")

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// options holds parsed command line settings.
type options struct {
	staSeconds float64
	ltaSeconds float64
	on, off    float64
	parallel   bool
	workers    int
	csvPath    string
	verbose    bool
}

func run() error {
	var opts options
	flag.Float64Var(&opts.staSeconds, "sta", defaultSTASeconds, "Short-term window in seconds")
	flag.Float64Var(&opts.ltaSeconds, "lta", defaultLTASeconds, "Long-term window in seconds")
	flag.Float64Var(&opts.on, "on", defaultOn, "Trigger-on ratio threshold")
	flag.Float64Var(&opts.off, "off", defaultOff, "Trigger-off ratio threshold")
	flag.BoolVar(&opts.parallel, "parallel", true, "Enable parallel channel processing")
	flag.IntVar(&opts.workers, "workers", 0, "Worker goroutines (0 = GOMAXPROCS)")
	flag.StringVar(&opts.csvPath, "csv", "", "Write the ratio series to this CSV file")
	flag.BoolVar(&opts.verbose, "v", false, "Verbose output")
	cpuprofile := flag.String("cpuprofile", "", "Write CPU profile to file (for PGO)")
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.wav\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -sta 0.5 -lta 10 quake.wav         # Short windows\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -on 5 -off 2 station.wav           # Stricter trigger\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -csv ratio.csv station.wav         # Dump ratio series\n", os.Args[0])
		return errUsage
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	return detectWAV(args[0], &opts)
}

// detectWAV reads a WAV file, computes the ratio of every channel and
// prints the events found.
func detectWAV(inputPath string, opts *options) error {
	input, err := openWAVInput(inputPath, opts.verbose)
	if err != nil {
		return err
	}
	defer func() { _ = input.Close() }()

	batch, err := input.readBatch()
	if err != nil {
		return err
	}

	staLen, err := secondsToSamples(opts.staSeconds, batch.rate)
	if err != nil {
		return fmt.Errorf("invalid -sta: %w", err)
	}
	ltaLen, err := secondsToSamples(opts.ltaSeconds, batch.rate)
	if err != nil {
		return fmt.Errorf("invalid -lta: %w", err)
	}

	if opts.verbose {
		log.Printf("Input: %s", inputPath)
		log.Printf("Traces: %d x %d samples", batch.channels, batch.frames)
		log.Printf("Windows: STA %d samples, LTA %d samples", staLen, ltaLen)
		log.Printf("Parallel: %v", opts.parallel)
	}

	detector, err := stalta.New(&stalta.Config{
		STALength:      staLen,
		LTALength:      ltaLen,
		EnableParallel: opts.parallel,
		Workers:        opts.workers,
	})
	if err != nil {
		return fmt.Errorf("failed to create detector: %w", err)
	}

	start := time.Now()
	ratios, err := detector.ComputeBatch(batch.data, uint(batch.channels), uint(batch.frames))
	if err != nil {
		return fmt.Errorf("STA/LTA computation failed: %w", err)
	}
	if opts.verbose {
		log.Printf("Computed %d ratios in %v", len(ratios), time.Since(start))
	}

	for ch := range batch.channels {
		row := ratios[ch*batch.frames : (ch+1)*batch.frames]
		if err := reportChannel(os.Stdout, ch, row, batch, opts); err != nil {
			return err
		}
	}

	if opts.csvPath != "" {
		if err := writeCSVFile(opts.csvPath, ratios, batch); err != nil {
			return err
		}
		if opts.verbose {
			log.Printf("Wrote ratio series to %s", opts.csvPath)
		}
	}

	return nil
}

// writeCSVFile creates path and writes the ratio series into it.
func writeCSVFile(path string, ratios []float64, batch *traceBatch) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	if err := writeRatioCSV(f, ratios, batch.channels, batch.frames, batch.rate); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
