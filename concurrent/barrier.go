package concurrent

import (
	"sync"

	"github.com/goose-lang/std"
)

// A Barrier separates phases of a group of workers: each of a fixed number of
// parties calls Wait once, and no call returns until all parties have called
// it. A Barrier is single-use.
//
// Unlike a `sync.WaitGroup`, the waiters are the workers themselves, so it can
// sit between an insert phase and a read phase of the same goroutines.
type Barrier struct {
	parties uint64
	arrived uint64
	mu      *sync.Mutex
	cond    *sync.Cond
}

// NewBarrier creates a barrier for parties workers.
func NewBarrier(parties uint64) *Barrier {
	mu := new(sync.Mutex)
	cond := sync.NewCond(mu)
	return &Barrier{parties: parties, arrived: 0, mu: mu, cond: cond}
}

// Wait marks the caller as arrived and blocks until every party has.
func (b *Barrier) Wait() {
	b.mu.Lock()
	b.arrived = std.SumAssumeNoOverflow(b.arrived, 1)
	if b.arrived > b.parties {
		b.mu.Unlock()
		panic("Wait() called by more than the barrier's parties")
	}
	if b.arrived == b.parties {
		b.cond.Broadcast()
	}
	for b.arrived < b.parties {
		b.cond.Wait()
	}
	b.mu.Unlock()
}

// Arrived returns how many parties have reached the barrier so far.
func (b *Barrier) Arrived() uint64 {
	b.mu.Lock()
	n := b.arrived
	b.mu.Unlock()
	return n
}
