package bench

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/bkiley113/lab3/concurrent"
	"github.com/bkiley113/lab3/hashtable"
	"github.com/goose-lang/std"
)

// Result is the outcome of driving one variant.
type Result struct {
	Variant    Variant       `json:"variant"`
	Threads    int           `json:"threads"`
	Entries    int           `json:"entries"`
	Locks      int           `json:"locks"`
	AddElapsed time.Duration `json:"add_elapsed_ns"`
	GetElapsed time.Duration `json:"get_elapsed_ns"`
	Missing    uint64        `json:"missing"`
	Mismatched uint64        `json:"mismatched"`
}

// AddThroughput returns inserts per second during the add phase.
func (r Result) AddThroughput() float64 {
	if r.AddElapsed <= 0 {
		return 0
	}
	return float64(r.Entries) / r.AddElapsed.Seconds()
}

// Report collects the results of a tester run.
type Report struct {
	Generation time.Duration `json:"generation_ns"`
	Results    []Result      `json:"results"`
}

// Verify returns ErrMissingEntries if any variant lost or corrupted entries.
func (r *Report) Verify() error {
	for _, res := range r.Results {
		if res.Missing > 0 || res.Mismatched > 0 {
			return fmt.Errorf("%w: %s has %d missing and %d wrong values",
				ErrMissingEntries, res.Variant, res.Missing, res.Mismatched)
		}
	}
	return nil
}

// Run generates the workload and drives each configured variant over it.
func Run(cfg Config, logger *slog.Logger) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	start := time.Now()
	w := GenerateWorkload(cfg.Threads, cfg.PerThread, cfg.Seed)
	report := &Report{Generation: time.Since(start)}
	logger.Info("workload generated",
		slog.Int("threads", cfg.Threads),
		slog.Int("entries", w.Entries()),
		slog.Duration("elapsed", report.Generation))

	for _, v := range cfg.Variants {
		table, err := v.New(cfg.Stripes, hashtable.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		var res Result
		if v.Concurrent() {
			res = runConcurrent(table, w)
		} else {
			res = runSerial(table, w)
		}
		res.Variant = v
		table.Destroy()

		logger.Info("variant finished",
			slog.String("variant", string(v)),
			slog.Duration("add", res.AddElapsed),
			slog.Duration("get", res.GetElapsed),
			slog.Uint64("missing", res.Missing),
			slog.Uint64("mismatched", res.Mismatched))
		report.Results = append(report.Results, res)
	}
	return report, nil
}

type counts struct {
	missing    uint64
	mismatched uint64
}

func (c *counts) check(table *hashtable.Table, key string, want uint32) {
	if !table.Contains(key) {
		c.missing = std.SumAssumeNoOverflow(c.missing, 1)
		return
	}
	if got, _ := table.Lookup(key); got != want {
		c.mismatched = std.SumAssumeNoOverflow(c.mismatched, 1)
	}
}

func runSerial(table *hashtable.Table, w *Workload) Result {
	res := Result{Threads: 1, Entries: w.Entries(), Locks: table.Locks()}

	start := time.Now()
	for t := range w.Keys {
		for i, k := range w.Keys[t] {
			table.AddOrUpdate(k, w.Values[t][i])
		}
	}
	res.AddElapsed = time.Since(start)

	var c counts
	start = time.Now()
	for t := range w.Keys {
		for i, k := range w.Keys[t] {
			c.check(table, k, w.Values[t][i])
		}
	}
	res.GetElapsed = time.Since(start)
	res.Missing = c.missing
	res.Mismatched = c.mismatched
	return res
}

func runConcurrent(table *hashtable.Table, w *Workload) Result {
	threads := uint64(len(w.Keys))
	res := Result{Threads: len(w.Keys), Entries: w.Entries(), Locks: table.Locks()}

	perWorker := make([]counts, threads)
	b := concurrent.NewBarrier(threads)
	var addDone time.Time
	start := time.Now()
	concurrent.Parallel(threads, func(worker uint64) {
		keys, values := w.Keys[worker], w.Values[worker]
		for i, k := range keys {
			table.AddOrUpdate(k, values[i])
		}
		b.Wait()
		// every worker has finished inserting
		if worker == 0 {
			addDone = time.Now()
		}
		c := &perWorker[worker]
		for i, k := range keys {
			c.check(table, k, values[i])
		}
	})
	end := time.Now()

	res.AddElapsed = addDone.Sub(start)
	res.GetElapsed = end.Sub(addDone)
	for _, c := range perWorker {
		res.Missing = std.SumAssumeNoOverflow(res.Missing, c.missing)
		res.Mismatched = std.SumAssumeNoOverflow(res.Mismatched, c.mismatched)
	}
	return res
}
