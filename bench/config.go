// Package bench drives the hash table variants the way the lab tester does:
// each worker thread inserts its own disjoint set of keys, all workers meet
// at a barrier, and then each checks that its keys are present with the
// values it wrote. Elapsed times and missing entries are reported per
// variant.
package bench

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bkiley113/lab3/hashtable"
)

var (
	ErrInvalidConfig  = errors.New("invalid config")
	ErrUnknownVariant = errors.New("unknown variant")
	ErrMissingEntries = errors.New("entries missing after run")
)

// A Variant names one table implementation.
type Variant string

const (
	Base    Variant = "base"
	V1      Variant = "v1"
	V2      Variant = "v2"
	Striped Variant = "striped"
)

// AllVariants lists every variant in report order.
var AllVariants = []Variant{Base, V1, V2, Striped}

// Concurrent reports whether the variant may be driven by several threads.
// The base table is always run serially.
func (v Variant) Concurrent() bool {
	return v != Base
}

func (v Variant) check() error {
	switch v {
	case Base, V1, V2, Striped:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownVariant, string(v))
}

// New creates a table for v; stripes only matters for Striped.
func (v Variant) New(stripes int, opts ...hashtable.Option) (*hashtable.Table, error) {
	switch v {
	case Base:
		return hashtable.NewBase(opts...), nil
	case V1:
		return hashtable.NewV1(opts...), nil
	case V2:
		return hashtable.NewV2(opts...), nil
	case Striped:
		return hashtable.NewStriped(stripes, opts...), nil
	}
	return nil, v.check()
}

// ParseVariants parses a comma-separated list such as "base,v1,v2".
func ParseVariants(s string) ([]Variant, error) {
	var vs []Variant
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		v := Variant(name)
		if err := v.check(); err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}
	if len(vs) == 0 {
		return nil, fmt.Errorf("%w: no variants in %q", ErrUnknownVariant, s)
	}
	return vs, nil
}

// Config describes one tester run.
type Config struct {
	// Threads is the number of worker threads for concurrent variants.
	Threads int
	// PerThread is the number of distinct keys each thread inserts.
	PerThread int
	// Seed makes key and value generation reproducible.
	Seed     int64
	Variants []Variant
	// Stripes is the lock count for the striped variant (0 for the default).
	Stripes int
}

func DefaultConfig() Config {
	return Config{
		Threads:   4,
		PerThread: 25000,
		Seed:      1,
		Variants:  AllVariants,
		Stripes:   hashtable.DefaultStripes,
	}
}

// Validate checks that the config can be run.
func (c Config) Validate() error {
	if c.Threads < 1 {
		return fmt.Errorf("%w: threads must be at least 1, got %d", ErrInvalidConfig, c.Threads)
	}
	if c.PerThread < 1 {
		return fmt.Errorf("%w: entries per thread must be at least 1, got %d", ErrInvalidConfig, c.PerThread)
	}
	if c.Stripes < 0 || c.Stripes > hashtable.Capacity {
		return fmt.Errorf("%w: stripes must be in [0, %d], got %d", ErrInvalidConfig, hashtable.Capacity, c.Stripes)
	}
	if len(c.Variants) == 0 {
		return fmt.Errorf("%w: no variants selected", ErrInvalidConfig)
	}
	for _, v := range c.Variants {
		if err := v.check(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}
