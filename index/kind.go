package index

import (
	"math"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/hupe1980/sieve/value"
)

// Kind identifies the bucket function of an index.
type Kind uint8

const (
	// Hash distributes values by hash. It has no order.
	Hash Kind = iota
	// Date places dates into monthly buckets.
	Date
	// Range places numbers into equal-width buckets over [min, max].
	Range
)

// ParseKind resolves the name of a kind as accepted in configuration.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "hash":
		return Hash, true
	case "date":
		return Date, true
	case "range":
		return Range, true
	default:
		return 0, false
	}
}

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Hash:
		return "hash"
	case Date:
		return "date"
	case Range:
		return "range"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Ordered reports whether the bucket function is monotonic.
func (k Kind) Ordered() bool {
	return k == Date || k == Range
}

// EpochYear is the first year with its own bucket in a date index.
const EpochYear = 1990

// bucketFunc maps a non-null value to a bucket in [0, n).
type bucketFunc func(v value.Value, n int) (int, bool)

func hashBucket(v value.Value, n int) (int, bool) {
	var key string
	if num, ok := v.AsNumber(); ok {
		// Integral and floating forms of the same number share a bucket.
		f := num.AsFloat()
		if f == 0 {
			f = 0
		}
		key = "n:" + strconv.FormatUint(math.Float64bits(f), 16)
	} else {
		key = v.Key()
	}
	return int(xxhash.Sum64String(key) % uint64(n)), true
}

func dateBucket(v value.Value, n int) (int, bool) {
	t, ok := v.AsDate()
	if !ok {
		return 0, false
	}
	t = t.UTC()
	return clamp((t.Year()-EpochYear)*12+int(t.Month()-time.January), n), true
}

func rangeBucket(lo, hi float64) bucketFunc {
	return func(v value.Value, n int) (int, bool) {
		num, ok := v.AsNumber()
		if !ok {
			return 0, false
		}
		f := num.AsFloat()
		switch {
		case math.IsNaN(f):
			// NaN orders above every number; no bucket keeps it reachable
			// from both LessThan and GreaterThan.
			return 0, false
		case f <= lo:
			return 0, true
		case f >= hi:
			return n - 1, true
		}
		return clamp(int((f-lo)/(hi-lo)*float64(n)), n), true
	}
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}
