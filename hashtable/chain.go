package hashtable

import "sync/atomic"

// An entry is one key/value pair in a bucket's chain.
//
// The key string is retained as given; next is written once before the entry
// is published and never changes afterward, so unlocked readers can follow it.
type entry struct {
	key   string
	value atomic.Uint32
	next  *entry
}

// A chain is a singly-linked list of entries with insertion at the head.
//
// Mutations (pushFront and value stores) require the lock that guards the
// chain's bucket; find may be called without it and then observes the chain as
// of some recent insert.
type chain struct {
	head atomic.Pointer[entry]
}

// find returns the entry for key, or nil.
func (c *chain) find(key string) *entry {
	var e = c.head.Load()
	for e != nil {
		if e.key == key {
			return e
		}
		e = e.next
	}
	return nil
}

// pushFront links a new entry at the head. The caller must have checked that
// key is not already in the chain.
func (c *chain) pushFront(key string, value uint32) *entry {
	e := &entry{key: key, next: c.head.Load()}
	e.value.Store(value)
	c.head.Store(e)
	return e
}

func (c *chain) len() int {
	var n = 0
	for e := c.head.Load(); e != nil; e = e.next {
		n++
	}
	return n
}

// release unlinks every entry and returns how many there were. Nothing may be
// reading the chain concurrently.
func (c *chain) release() int {
	var n = 0
	e := c.head.Swap(nil)
	for e != nil {
		next := e.next
		e.next = nil
		e = next
		n++
	}
	return n
}
