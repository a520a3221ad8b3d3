package index

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sieve/value"
)

func TestSet_DefineAndLookup(t *testing.T) {
	s := NewSet[*rec]()
	_, err := s.Define(Hash, "Book", byBook)
	require.NoError(t, err)
	_, err = s.Define(Range, "n", byN, WithRange(0, 10))
	require.NoError(t, err)

	_, err = s.Define(Hash, "BOOK", byBook)
	assert.ErrorIs(t, err, ErrDuplicateIndex)

	ix, ok := s.Lookup("bOoK")
	require.True(t, ok)
	assert.Equal(t, Hash, ix.Kind())
	assert.Same(t, s.Registry(), ix.Registry())
	assert.Equal(t, []string{"book", "n"}, s.Columns())

	_, ok = s.Lookup("missing")
	assert.False(t, ok)
}

func TestSet_AddAllAndRemove(t *testing.T) {
	s := NewSet[*rec]()
	_, err := s.Define(Hash, "book", byBook, WithBuckets(16))
	require.NoError(t, err)
	_, err = s.Define(Range, "n", byN, WithBuckets(16), WithRange(0, 1000))
	require.NoError(t, err)

	rows := make([]*rec, 500)
	for i := range rows {
		rows[i] = &rec{name: fmt.Sprint(i), book: fmt.Sprint(i % 7), n: i}
	}
	require.NoError(t, s.AddAll(context.Background(), rows))
	assert.Equal(t, 500, s.Len())

	for _, c := range s.Columns() {
		ix, _ := s.Lookup(c)
		assert.Equal(t, 500, ix.Size(), c)
	}

	require.NoError(t, s.Remove(rows[0]))
	assert.Equal(t, 499, s.Len())
	require.NoError(t, s.Add(rows[0]))
	assert.Equal(t, 500, s.Len())
}

func TestSet_AddAllStopsOnError(t *testing.T) {
	s := NewSet[*rec]()
	_, err := s.Define(Date, "when", byWhen)
	require.NoError(t, err)

	err = s.AddAll(context.Background(), []*rec{{name: "bad", when: "yesterday"}})
	assert.ErrorIs(t, err, ErrUnsupportedValue)
}

func TestSet_AddAllCancelled(t *testing.T) {
	s := NewSet[*rec]()
	_, err := s.Define(Hash, "book", byBook)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = s.AddAll(ctx, []*rec{{name: "a"}})
	assert.ErrorIs(t, err, context.Canceled)
}

// randomViews builds a base range index over random values and a handful of
// views derived from it.
func randomViews(t *testing.T, seed int64) (*Index[*rec], []*Index[*rec]) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	base := mustIndex(t, Range, "n", byN, nil, WithBuckets(32), WithRange(0, 100))
	for i := range 300 {
		r := &rec{name: fmt.Sprint(i)}
		if rng.Intn(10) > 0 {
			r.n = rng.Float64() * 120
		}
		load(t, base, r)
	}

	var views []*Index[*rec]
	for range 6 {
		v := value.Float(rng.Float64() * 100)
		var ix *Index[*rec]
		var ok bool
		switch rng.Intn(4) {
		case 0:
			ix, ok = base.LessThan(v)
		case 1:
			ix, ok = base.GreaterThan(v)
		case 2:
			ix, ok = base.SingleBucket(v)
		default:
			ix, ok = base.SingleBucket(value.Null())
		}
		require.True(t, ok)
		views = append(views, ix)
	}
	return base, views
}

// combined returns a helper that unwraps set algebra results.
func combined(t *testing.T) func(*Index[*rec], bool) *Index[*rec] {
	return func(ix *Index[*rec], ok bool) *Index[*rec] {
		t.Helper()
		require.True(t, ok)
		return ix
	}
}

func TestAlgebra_Properties(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		t.Run(fmt.Sprint("seed=", seed), func(t *testing.T) {
			must := combined(t)
			_, views := randomViews(t, seed)
			for _, a := range views {
				assert.Equal(t, members(a), members(must(a.Union(a))), "union idempotent")
				assert.Equal(t, members(a), members(must(a.Intersection(a))), "intersection idempotent")

				for _, b := range views {
					ab, ok := a.Union(b)
					ba, _ := b.Union(a)
					require.True(t, ok)
					assert.Equal(t, members(ab), members(ba), "union commutative")

					ab, ok = a.Intersection(b)
					ba, _ = b.Intersection(a)
					require.True(t, ok)
					assert.Equal(t, members(ab), members(ba), "intersection commutative")

					for _, c := range views {
						l := must(must(a.Union(b)).Union(c))
						r := must(a.Union(must(b.Union(c))))
						assert.Equal(t, members(l), members(r), "union associative")

						l = must(must(a.Intersection(b)).Intersection(c))
						r = must(a.Intersection(must(b.Intersection(c))))
						assert.Equal(t, members(l), members(r), "intersection associative")
					}
				}
			}
		})
	}
}

func TestAlgebra_LessThanGreaterThanCoverNonNull(t *testing.T) {
	must := combined(t)
	base, _ := randomViews(t, 42)
	nonNull := must(base.NonNull())

	for _, f := range []float64{-10, 0, 3.5, 50, 99.99, 100, 1e9} {
		lt := must(base.LessThan(value.Float(f)))
		gt := must(base.GreaterThan(value.Float(f)))
		both := must(lt.Union(gt))
		assert.Equal(t, members(nonNull), members(both), "v=%v", f)
	}
}

func TestSet_AddRollsBackOnError(t *testing.T) {
	s := NewSet[*rec]()
	_, err := s.Define(Hash, "book", byBook)
	require.NoError(t, err)
	_, err = s.Define(Date, "when", byWhen)
	require.NoError(t, err)
	_, err = s.Define(Range, "n", byN, WithRange(0, 10))
	require.NoError(t, err)

	for range 20 {
		err = s.Add(&rec{name: "bad", book: "x", when: day(2011, time.March, 1), n: "seven"})
		require.ErrorIs(t, err, ErrUnsupportedValue)
		assert.Contains(t, err.Error(), `index "n"`)
		assert.Equal(t, 0, s.Len())
		for _, c := range s.Columns() {
			ix, _ := s.Lookup(c)
			assert.Equal(t, 0, ix.Size(), c)
		}
	}

	good := &rec{name: "good", book: "x", when: day(2011, time.March, 1), n: 7}
	require.NoError(t, s.Add(good))
	require.NoError(t, s.Add(good))
	assert.Equal(t, 1, s.Len())

	err = s.Add(&rec{name: "other", book: "y", when: "soon", n: 1})
	require.ErrorIs(t, err, ErrUnsupportedValue)
	book, _ := s.Lookup("book")
	assert.Equal(t, 1, book.Size())
	assert.Equal(t, 1, s.Len())
}

func TestSet_RemoveVisitsEveryIndex(t *testing.T) {
	s := NewSet[*rec]()
	_, err := s.Define(Hash, "book", byBook)
	require.NoError(t, err)
	_, err = s.Define(Date, "when", byWhen)
	require.NoError(t, err)
	_, err = s.Define(Range, "n", byN, WithRange(0, 10))
	require.NoError(t, err)

	r := &rec{name: "a", book: "x", when: day(2011, time.March, 1), n: 3}
	require.NoError(t, s.Add(r))

	r.n = "three"
	err = s.Remove(r)
	require.ErrorIs(t, err, ErrUnsupportedValue)
	assert.Contains(t, err.Error(), `index "n"`)

	for _, c := range []string{"book", "when"} {
		ix, _ := s.Lookup(c)
		assert.Equal(t, 0, ix.Size(), c)
	}
	n, _ := s.Lookup("n")
	assert.Equal(t, 1, n.Size())
}
