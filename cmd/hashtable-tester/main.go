// Command hashtable-tester inserts disjoint keys from several threads into
// each hash table variant, then reports elapsed time and missing entries.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/bkiley113/lab3/bench"
	"github.com/bkiley113/lab3/hashtable"
)

func main() {
	def := bench.DefaultConfig()
	var (
		threads   = flag.Int("t", def.Threads, "number of worker threads")
		perThread = flag.Int("s", def.PerThread, "number of entries each thread inserts")
		seed      = flag.Int64("seed", def.Seed, "seed for key and value generation")
		variants  = flag.String("variants", joinVariants(def.Variants), "comma-separated variants: base, v1, v2, striped")
		stripes   = flag.Int("stripes", hashtable.DefaultStripes, "lock stripes for the striped variant")
		asJSON    = flag.Bool("json", false, "write the report as JSON")
		verbose   = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	vs, err := bench.ParseVariants(*variants)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		flag.Usage()
		os.Exit(2)
	}

	cfg := bench.Config{
		Threads:   *threads,
		PerThread: *perThread,
		Seed:      *seed,
		Variants:  vs,
		Stripes:   *stripes,
	}
	report, err := bench.Run(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if errors.Is(err, bench.ErrInvalidConfig) {
			flag.Usage()
			os.Exit(2)
		}
		os.Exit(1)
	}

	if *asJSON {
		err = report.WriteJSON(os.Stdout)
	} else {
		err = report.WriteText(os.Stdout)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := report.Verify(); err != nil {
		logger.Error("verification failed", slog.Any("err", err))
		os.Exit(1)
	}
}

func joinVariants(vs []bench.Variant) string {
	names := make([]string, len(vs))
	for i, v := range vs {
		names[i] = string(v)
	}
	return strings.Join(names, ",")
}
