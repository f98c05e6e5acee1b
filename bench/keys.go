package bench

import (
	"fmt"
	"math/rand"
)

// Workload holds the keys and values each worker inserts. Key sets of
// different workers are disjoint.
type Workload struct {
	Keys   [][]string
	Values [][]uint32
}

// Entries returns the total number of keys across all workers.
func (w *Workload) Entries() int {
	var n = 0
	for _, ks := range w.Keys {
		n += len(ks)
	}
	return n
}

// GenerateWorkload deterministically creates perThread keys with random
// values for each of threads workers.
func GenerateWorkload(threads int, perThread int, seed int64) *Workload {
	rng := rand.New(rand.NewSource(seed))
	w := &Workload{
		Keys:   make([][]string, threads),
		Values: make([][]uint32, threads),
	}
	for t := 0; t < threads; t++ {
		w.Keys[t] = make([]string, perThread)
		w.Values[t] = make([]uint32, perThread)
		for i := 0; i < perThread; i++ {
			// the thread/index prefix keeps keys unique; the random suffix
			// spreads them over buckets
			w.Keys[t][i] = fmt.Sprintf("%d:%d:%08x", t, i, rng.Uint32())
			w.Values[t][i] = rng.Uint32()
		}
	}
	return w
}
