package hashtable

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGlobalLockSharedByAllBuckets(t *testing.T) {
	assert := assert.New(t)

	l := GlobalLock()
	mu := l.For(0)
	for _, b := range []uint64{1, 17, Capacity - 1} {
		assert.Same(mu, l.For(b), "bucket %d", b)
	}
	assert.Equal(1, l.Locks())

	l.Close()
	assert.Equal(0, l.Locks())
	assert.Panics(func() { l.For(0) })
}

func TestPerBucketLocksDistinct(t *testing.T) {
	assert := assert.New(t)

	l := PerBucketLocks(8)
	assert.Equal(8, l.Locks())
	seen := make(map[sync.Locker]uint64)
	for b := uint64(0); b < 8; b++ {
		mu := l.For(b)
		other, dup := seen[mu]
		assert.False(dup, "buckets %d and %d share a lock", other, b)
		seen[mu] = b
		assert.Same(mu, l.For(b), "lock for bucket %d is stable", b)
	}
	assert.Panics(func() { l.For(8) }, "bucket out of range")

	l.Close()
	assert.Equal(0, l.Locks())
	assert.Panics(func() { l.For(0) })
}

func TestStripedLocksAlias(t *testing.T) {
	assert := assert.New(t)

	// 10 buckets, 4 stripes: stripes do not divide the bucket count
	l := StripedLocks(10, 4)
	assert.Equal(4, l.Locks())
	assert.Same(l.For(1), l.For(5))
	assert.Same(l.For(1), l.For(9))
	assert.Same(l.For(0), l.For(8))
	assert.NotSame(l.For(0), l.For(1))
	assert.NotSame(l.For(3), l.For(4))
}

func TestStripedLocksInvalid(t *testing.T) {
	assert.Panics(t, func() { StripedLocks(10, 0) })
	assert.Panics(t, func() { StripedLocks(10, 11) })
}

func TestNoLocking(t *testing.T) {
	l := NoLocking()
	mu := l.For(3)
	mu.Lock()
	mu.Lock() // does not block
	mu.Unlock()
	assert.Equal(t, 0, l.Locks())
	l.Close()
}
