// Package bitmap provides the concurrency-safe record id sets that back
// index buckets.
//
// A Set wraps a 32-bit Roaring bitmap behind a read/write mutex. Writers
// (Add, Remove) take the write lock; readers take the read lock. Iteration
// never holds a lock while yielding: it copies the set into a pooled
// snapshot first, so a concurrent Add or Remove is either fully visible to
// an in-flight iteration or not at all for that bucket.
//
// # Example Usage
//
//	s := bitmap.New()
//	s.Add(7)
//	s.Add(42)
//
//	for id := range s.All() {
//	    // ids in ascending order from a snapshot
//	}
package bitmap
