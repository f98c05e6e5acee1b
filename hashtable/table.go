package hashtable

import (
	"log/slog"
	"sync/atomic"

	"github.com/goose-lang/primitive"
)

// Consistency names the guarantee a read gives relative to concurrent writers.
type Consistency uint8

const (
	// Weak reads take no lock. They observe each chain as it was at some
	// point during the call, so a concurrent AddOrUpdate may or may not be
	// visible, but an entry is never seen half-initialized.
	Weak Consistency = iota
)

func (c Consistency) String() string {
	switch c {
	case Weak:
		return "weak"
	}
	return "unknown"
}

type bucket struct {
	chain chain
}

// A Table maps string keys to uint32 values using a fixed array of Capacity
// buckets, each holding a chain of entries. Which lock protects which bucket
// is decided by its Locking strategy; everything else is shared between
// variants.
//
// AddOrUpdate is safe for concurrent use (except with NoLocking). Contains,
// Get and Lookup never lock and have Weak consistency.
//
// The table keeps the key strings it is given; it does not copy them.
type Table struct {
	buckets []bucket
	locking Locking
	live    atomic.Int64
	logger  *slog.Logger

	// called with the bucket's lock held, for instrumentation in tests
	critical func(bucket uint64)
}

// An Option configures a Table at creation.
type Option func(*Table)

// WithLogger sets the logger for lifecycle events. The default is
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(t *Table) {
		t.logger = l
	}
}

// New creates a table whose buckets are guarded by locking. Every bucket and
// lock is ready when New returns.
func New(locking Locking, opts ...Option) *Table {
	primitive.Assert(locking != nil)
	t := &Table{
		buckets: make([]bucket, Capacity),
		locking: locking,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger.Debug("hash table created",
		slog.Int("buckets", len(t.buckets)),
		slog.Int("locks", locking.Locks()))
	return t
}

// NewV1 creates a table guarded by a single table-wide mutex.
func NewV1(opts ...Option) *Table {
	return New(GlobalLock(), opts...)
}

// NewV2 creates a table with one mutex per bucket.
func NewV2(opts ...Option) *Table {
	return New(PerBucketLocks(Capacity), opts...)
}

// NewStriped creates a table whose buckets share stripes mutexes
// (DefaultStripes if stripes is 0).
func NewStriped(stripes int, opts ...Option) *Table {
	if stripes == 0 {
		stripes = DefaultStripes
	}
	return New(StripedLocks(Capacity, stripes), opts...)
}

// NewBase creates an unsynchronized table for single-goroutine use.
func NewBase(opts ...Option) *Table {
	return New(NoLocking(), opts...)
}

func (t *Table) bucketFor(key string) (uint64, *bucket) {
	primitive.Assert(t.buckets != nil)
	idx := bucketIdx(key, uint64(len(t.buckets)))
	return idx, &t.buckets[idx]
}

// Contains reports whether key is present.
func (t *Table) Contains(key string) bool {
	_, b := t.bucketFor(key)
	return b.chain.find(key) != nil
}

// AddOrUpdate inserts key with value, or overwrites the value if key is
// already present. It blocks on the lock guarding key's bucket.
func (t *Table) AddOrUpdate(key string, value uint32) {
	idx, b := t.bucketFor(key)
	mu := t.locking.For(idx)
	mu.Lock()
	defer mu.Unlock()
	if t.critical != nil {
		t.critical(idx)
	}

	if e := b.chain.find(key); e != nil {
		e.value.Store(value)
		return
	}
	b.chain.pushFront(key, value)
	t.live.Add(1)
}

// Lookup returns the value for key and whether it was present.
func (t *Table) Lookup(key string) (uint32, bool) {
	_, b := t.bucketFor(key)
	e := b.chain.find(key)
	if e == nil {
		return 0, false
	}
	return e.value.Load(), true
}

// Get returns the value for key. The key must have been added; Get panics
// otherwise. Use Lookup when absence is expected.
func (t *Table) Get(key string) uint32 {
	v, ok := t.Lookup(key)
	primitive.Assert(ok)
	return v
}

// Len returns the number of distinct keys in the table.
func (t *Table) Len() int {
	return int(t.live.Load())
}

// Locks returns the number of lock objects the table holds.
func (t *Table) Locks() int {
	return t.locking.Locks()
}

// ReadConsistency returns the consistency level of Contains, Get and Lookup.
func (t *Table) ReadConsistency() Consistency {
	return Weak
}

// Destroy releases every entry and lock. It must be called exactly once, after
// all other goroutines are done with the table; no method may be called on
// the table afterward except Len and Locks.
func (t *Table) Destroy() {
	primitive.Assert(t.buckets != nil)
	var released = 0
	for i := range t.buckets {
		released += t.buckets[i].chain.release()
	}
	t.live.Add(-int64(released))
	locks := t.locking.Locks()
	t.locking.Close()
	t.buckets = nil
	t.logger.Debug("hash table destroyed",
		slog.Int("entries", released),
		slog.Int("locks", locks))
}
