package hashtable

// Capacity is the fixed number of buckets in every table (HASH_TABLE_CAPACITY).
// All variants share it so their behavior and timings are comparable.
const Capacity = 4096

const hashSeed = uint32(5381)

// Hash is the Bernstein (djb2) string hash: starting at 5381, each byte c
// updates the accumulator to h*33 + c with 32-bit wraparound.
//
// It is only used to pick a bucket and is not suitable for anything that needs
// resistance to collisions.
func Hash(key string) uint32 {
	var h = hashSeed
	for i := 0; i < len(key); i++ {
		h = (h << 5) + h + uint32(key[i])
	}
	return h
}

func bucketIdx(key string, numBuckets uint64) uint64 {
	return uint64(Hash(key)) % numBuckets
}
