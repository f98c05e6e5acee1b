package hashtable

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bkiley113/lab3/concurrent"
	"github.com/stretchr/testify/assert"
)

type event struct {
	at     time.Time
	bucket uint64
	enter  bool
}

// recorder logs timestamped entries and exits of AddOrUpdate's critical
// section. Events are appended in the order they happen.
type recorder struct {
	mu     sync.Mutex
	events []event
}

func (r *recorder) log(bucket uint64, enter bool) {
	r.mu.Lock()
	r.events = append(r.events, event{at: time.Now(), bucket: bucket, enter: enter})
	r.mu.Unlock()
}

// overlapped reports whether one critical section was entered while another
// was still running.
func (r *recorder) overlapped() bool {
	var depth = 0
	for _, e := range r.events {
		if e.enter {
			depth++
			if depth > 1 {
				return true
			}
		} else {
			depth--
		}
	}
	return false
}

func (r *recorder) String() string {
	var b strings.Builder
	start := r.events[0].at
	for _, e := range r.events {
		op := "exit"
		if e.enter {
			op = "enter"
		}
		b.WriteString(op)
		b.WriteString(" ")
		b.WriteString(e.at.Sub(start).String())
		b.WriteString("\n")
	}
	return b.String()
}

// runPair calls AddOrUpdate for k1 and k2 concurrently. Inside the critical
// section each call waits (up to a delay) for the other to also be inside, so
// the sections overlap whenever the locking allows it.
func runPair(table *Table, k1, k2 string) *recorder {
	const delay = 500 * time.Millisecond
	r := &recorder{}
	var arrive sync.WaitGroup
	arrive.Add(2)
	allIn := make(chan struct{})
	go func() {
		arrive.Wait()
		close(allIn)
	}()

	table.critical = func(bucket uint64) {
		r.log(bucket, true)
		arrive.Done()
		select {
		case <-allIn:
		case <-time.After(delay):
		}
		r.log(bucket, false)
	}
	defer func() { table.critical = nil }()

	keys := []string{k1, k2}
	concurrent.Parallel(2, func(worker uint64) {
		table.AddOrUpdate(keys[worker], uint32(worker))
	})
	return r
}

func TestPerBucketDifferentBucketsOverlap(t *testing.T) {
	table := NewV2()
	defer table.Destroy()
	k1 := keyInBucket(1)
	k2 := keyInBucket(2)
	r := runPair(table, k1, k2)
	assert.True(t, r.overlapped(), "sections serialized:\n%s", r)
}

func TestPerBucketSameBucketSerialized(t *testing.T) {
	table := NewV2()
	defer table.Destroy()
	k1 := keyInBucket(7)
	k2 := keyInBucket(7, k1)
	r := runPair(table, k1, k2)
	assert.False(t, r.overlapped(), "sections overlapped:\n%s", r)
	assert.Len(t, r.events, 4)
}

func TestGlobalLockSerializesAllBuckets(t *testing.T) {
	table := NewV1()
	defer table.Destroy()
	k1 := keyInBucket(1)
	k2 := keyInBucket(2)
	r := runPair(table, k1, k2)
	assert.False(t, r.overlapped(), "sections overlapped:\n%s", r)
}

func TestStripedAliasedBucketsSerialized(t *testing.T) {
	table := NewStriped(8)
	defer table.Destroy()
	// buckets 3 and 11 share stripe 3
	k1 := keyInBucket(3)
	k2 := keyInBucket(11)
	r := runPair(table, k1, k2)
	assert.False(t, r.overlapped(), "sections overlapped:\n%s", r)
}

func TestStripedDistinctStripesOverlap(t *testing.T) {
	table := NewStriped(8)
	defer table.Destroy()
	k1 := keyInBucket(3)
	k2 := keyInBucket(4)
	r := runPair(table, k1, k2)
	assert.True(t, r.overlapped(), "sections serialized:\n%s", r)
}
