package index

import (
	"fmt"
	"math"
)

// DefaultBuckets is the bucket count used when WithBuckets is not given.
const DefaultBuckets = 1024

type options struct {
	buckets  int
	min, max float64
	hasRange bool
}

// Option configures an Index.
type Option func(*options)

// WithBuckets sets the number of non-null buckets.
func WithBuckets(n int) Option {
	return func(o *options) {
		o.buckets = n
	}
}

// WithRange sets the numeric interval of a Range index.
func WithRange(lo, hi float64) Option {
	return func(o *options) {
		o.min, o.max, o.hasRange = lo, hi, true
	}
}

func (o *options) validate(kind Kind) error {
	if o.buckets <= 0 {
		return fmt.Errorf("%w: bucket count must be positive, got %d", ErrInvalidOptions, o.buckets)
	}
	switch kind {
	case Hash, Date:
		if o.hasRange {
			return fmt.Errorf("%w: %s index does not take a range", ErrInvalidOptions, kind)
		}
	case Range:
		if !o.hasRange {
			return fmt.Errorf("%w: range index requires WithRange", ErrInvalidOptions)
		}
		if math.IsNaN(o.min) || math.IsNaN(o.max) || math.IsInf(o.min, 0) || math.IsInf(o.max, 0) || o.min >= o.max {
			return fmt.Errorf("%w: invalid range [%v, %v]", ErrInvalidOptions, o.min, o.max)
		}
	default:
		return fmt.Errorf("%w: unknown kind %s", ErrInvalidOptions, kind)
	}
	return nil
}
