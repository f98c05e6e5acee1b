package concurrent

import "github.com/goose-lang/std"

// Parallel runs f(0), ..., f(n-1), each in its own thread, and returns once
// all of them have finished.
func Parallel(n uint64, f func(worker uint64)) {
	var handles []*std.JoinHandle
	for worker := uint64(0); worker < n; worker++ {
		h := std.Spawn(func() {
			f(worker)
		})
		handles = append(handles, h)
	}
	for _, h := range handles {
		h.Join()
	}
}
