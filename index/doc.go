// Package index provides bucketed column indices used to shrink the set of
// candidate records before a WHERE clause is evaluated.
//
// An Index partitions records by the value of one column into a fixed number
// of buckets plus a null bucket. Three kinds are available:
//
//   - Hash: unordered. Supports equality, IN and IS [NOT] NULL.
//   - Date: ordered, one bucket per calendar month starting January 1990.
//   - Range: ordered, equal-width buckets over a numeric interval.
//
// Ordered kinds clamp values outside their representable range into the
// first or last bucket, so range restriction never drops a true match.
//
// # Views
//
// SingleBucket, Intersection, Union, LessThan, GreaterThan and NonNull
// return a new read-only Index (a view) that shares bucket sets with its
// sources by reference. Sources are never modified. Later Add and Remove
// calls on the source index are visible through views that share the
// affected bucket.
//
// # Records
//
// Buckets store uint32 ids handed out by a Registry shared by all indices of
// a Set. Record types must be comparable; pointers are the usual choice.
// A record's indexed columns must not change while it is indexed: remove it,
// mutate it, then add it again.
//
// # Concurrency
//
// Add, Remove and iteration are safe for concurrent use. Iteration snapshots
// one bucket at a time, so concurrent writes may or may not be observed by an
// in-flight traversal.
package index
