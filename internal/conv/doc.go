// Package conv provides safe integer type conversion utilities.
//
// These functions perform bounds checking so host values that do not fit the
// engine's fixed-width types are detected instead of silently wrapping:
//   - unsigned host integers above math.MaxInt64 cannot become integral numbers
//   - record and bucket counters are bounded by uint32
package conv
