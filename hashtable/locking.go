package hashtable

import (
	"sync"

	"github.com/goose-lang/primitive"
	"golang.org/x/sys/cpu"
)

// DefaultStripes is the stripe count used by NewStriped when given 0 (NUM_STRIPES).
const DefaultStripes = 64

// Locking decides which lock guards each bucket's chain.
//
// For must return the same lock every time it is called with the same bucket,
// and a lock returned for bucket i must be the only lock that guards bucket i.
// Different buckets may share a lock.
type Locking interface {
	// For returns the lock guarding bucket.
	For(bucket uint64) sync.Locker
	// Locks reports how many distinct lock objects are alive.
	Locks() int
	// Close releases the locks. For must not be called afterward.
	Close()
}

// padded so that neighboring locks sit on separate cache lines
type paddedMutex struct {
	sync.Mutex
	_ cpu.CacheLinePad
}

type globalLock struct {
	mu *sync.Mutex
}

// GlobalLock guards the whole table with one mutex (coarse-grained locking).
func GlobalLock() Locking {
	return &globalLock{mu: new(sync.Mutex)}
}

func (g *globalLock) For(bucket uint64) sync.Locker {
	primitive.Assert(g.mu != nil)
	return g.mu
}

func (g *globalLock) Locks() int {
	if g.mu == nil {
		return 0
	}
	return 1
}

func (g *globalLock) Close() {
	g.mu = nil
}

// stripedLocks maps bucket i to stripe i mod len(stripes). Per-bucket locking
// is the special case of one stripe per bucket.
type stripedLocks struct {
	numBuckets uint64
	stripes    []paddedMutex
}

func newStripedLocks(numBuckets uint64, numStripes uint64) *stripedLocks {
	primitive.Assert(numStripes > 0)
	primitive.Assert(numStripes <= numBuckets)
	return &stripedLocks{
		numBuckets: numBuckets,
		stripes:    make([]paddedMutex, numStripes),
	}
}

// PerBucketLocks gives each of numBuckets buckets its own mutex (fine-grained
// locking).
func PerBucketLocks(numBuckets int) Locking {
	return newStripedLocks(uint64(numBuckets), uint64(numBuckets))
}

// StripedLocks shares numStripes mutexes among numBuckets buckets, bucket i
// using stripe i mod numStripes. Buckets that alias to the same stripe
// serialize even though their chains are unrelated.
func StripedLocks(numBuckets int, numStripes int) Locking {
	return newStripedLocks(uint64(numBuckets), uint64(numStripes))
}

func (s *stripedLocks) stripe(bucket uint64) uint64 {
	return bucket % uint64(len(s.stripes))
}

func (s *stripedLocks) For(bucket uint64) sync.Locker {
	primitive.Assert(s.stripes != nil)
	primitive.Assert(bucket < s.numBuckets)
	return &s.stripes[s.stripe(bucket)]
}

func (s *stripedLocks) Locks() int {
	return len(s.stripes)
}

func (s *stripedLocks) Close() {
	s.stripes = nil
}

type noLock struct{}

func (noLock) Lock()   {}
func (noLock) Unlock() {}

type noLocking struct{}

// NoLocking performs no synchronization at all. A table using it is only safe
// when a single goroutine calls AddOrUpdate; the tester uses it as the serial
// baseline.
func NoLocking() Locking {
	return noLocking{}
}

func (noLocking) For(bucket uint64) sync.Locker { return noLock{} }
func (noLocking) Locks() int                    { return 0 }
func (noLocking) Close()                        {}
