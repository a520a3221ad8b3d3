package testutil

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 { return r.seed }

// Intn returns a pseudo-random number in [0, n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Int63 returns a non-negative pseudo-random int64.
func (r *RNG) Int63() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Int63()
}

// Float64 returns a pseudo-random number in [0.0, 1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Range returns a pseudo-random number in [lo, hi).
func (r *RNG) Range(lo, hi float64) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo + r.rand.Float64()*(hi-lo)
}

// Date returns a pseudo-random UTC date at midnight in [from, to).
func (r *RNG) Date(from, to time.Time) time.Time {
	days := int(to.Sub(from).Hours() / 24)
	if days <= 0 {
		return from.UTC().Truncate(24 * time.Hour)
	}
	return from.UTC().Truncate(24*time.Hour).AddDate(0, 0, r.Intn(days))
}

// Present reports true with probability 1-missingRate.
func (r *RNG) Present(missingRate float64) bool {
	return r.Float64() >= missingRate
}

// Zipf returns a Zipfian-distributed value in [0, n).
// Uses Zipf's law: P(k) ∝ 1/k^s where s is the skew parameter.
// s=1.0 gives standard Zipf, s=1.5 gives heavy-tail (80/20 rule).
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

// zipfLocked is the internal implementation (caller must hold lock).
func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1
		}
	}
	return n - 1
}

// Deal is a synthetic trade record. Nil pointer fields are NULL columns.
type Deal struct {
	ID       int
	Book     *string
	Child    int
	Amount   *float64
	DealDate *time.Time
	Trader   string
}

// DealEpoch and DealEnd bound the dates Deals generates.
var (
	DealEpoch = time.Date(2005, time.January, 1, 0, 0, 0, 0, time.UTC)
	DealEnd   = time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)
)

var traders = []string{"Bob", "Mary", "Alice", "Chen", "Olu"}

// Deals generates n deals. Roughly a tenth of books, amounts and dates are
// NULL. Books follow a Zipf distribution over 20 names; Child is uniform in
// [0, 100).
func (r *RNG) Deals(n int) []*Deal {
	out := make([]*Deal, n)
	for i := range out {
		d := &Deal{
			ID:     i,
			Child:  r.Intn(100),
			Trader: traders[r.Intn(len(traders))],
		}
		if r.Present(0.1) {
			b := fmt.Sprintf("book-%02d", r.Zipf(20, 1.2))
			d.Book = &b
		}
		if r.Present(0.1) {
			a := math.Round(r.Range(-1000, 1000)*100) / 100
			d.Amount = &a
		}
		if r.Present(0.1) {
			t := r.Date(DealEpoch, DealEnd)
			d.DealDate = &t
		}
		out[i] = d
	}
	return out
}

// DealColumns returns column accessors for Deal. NULL columns read as nil.
func DealColumns() map[string]func(*Deal) any {
	return map[string]func(*Deal) any{
		"id":     func(d *Deal) any { return d.ID },
		"child":  func(d *Deal) any { return d.Child },
		"trader": func(d *Deal) any { return d.Trader },
		"book": func(d *Deal) any {
			if d.Book == nil {
				return nil
			}
			return *d.Book
		},
		"amount": func(d *Deal) any {
			if d.Amount == nil {
				return nil
			}
			return *d.Amount
		},
		"deal_date": func(d *Deal) any {
			if d.DealDate == nil {
				return nil
			}
			return *d.DealDate
		},
	}
}
