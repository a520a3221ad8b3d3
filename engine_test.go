package sieve_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sieve"
	"github.com/hupe1980/sieve/expr"
	"github.com/hupe1980/sieve/extension"
	"github.com/hupe1980/sieve/index"
	"github.com/hupe1980/sieve/testutil"
)

type person struct {
	Name  string
	Age   int
	Color string
	When  time.Time
}

func personSchema() *sieve.Schema[*person] {
	return sieve.NewSchema[*person]("Person").
		Column("name", func(p *person) any { return p.Name }).
		Column("age", func(p *person) any { return p.Age }).
		Column("color", func(p *person) any { return p.Color }).
		Column("when", func(p *person) any { return p.When })
}

func people() []*person {
	return []*person{
		{Name: "Bob", Age: 40, Color: "blue", When: time.Date(1991, 5, 16, 0, 0, 0, 0, time.UTC)},
		{Name: "Bob", Age: 10, Color: "red", When: time.Date(1991, 5, 14, 0, 0, 0, 0, time.UTC)},
		{Name: "Mary", Age: 40, Color: "white", When: time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
}

func TestEngine_BobAndMary(t *testing.T) {
	rows := people()
	eng, err := sieve.New("select * from Test where age = 40 and color = 'blue'", personSchema())
	require.NoError(t, err)

	got, err := eng.Execute(slices.Values(rows))
	require.NoError(t, err)
	assert.Equal(t, []*person{rows[0]}, got)

	row, ok, err := eng.TestOne(rows[2])
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, row)

	row, ok, err = eng.TestOne(rows[0])
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Same(t, rows[0], row)
}

func personExtensions() extension.Funcs {
	return extension.Funcs{
		extension.Func1("lie_about_age", func(*person) int { return 10 }),
		extension.Func2("matches_color", func(c string, p *person) bool { return p.Color == c }),
		extension.Func1("is_bob", func(p *person) bool { return p.Name == "Bob" }),
		extension.Func3("age_between", func(lo, hi float64, p *person) bool {
			return float64(p.Age) >= lo && float64(p.Age) <= hi
		}),
	}
}

func TestEngine_Extensions(t *testing.T) {
	rows := people()
	eng, err := sieve.New("select * from Test where age = 40 and lie_about_age() = 10 and "+
		"matches_color('blue') and is_bob() and age_between(30, 50) and "+
		"not(matches_color('red')) and '1991/05/15' < when;",
		personSchema(),
		sieve.WithExtensions(personExtensions(), extension.JapaneseDate),
	)
	require.NoError(t, err)

	got, err := eng.Execute(slices.Values(rows))
	require.NoError(t, err)
	assert.Equal(t, []*person{rows[0]}, got)
	assert.Contains(t, eng.Functions(), "is_bob")
}

func TestNew_Errors(t *testing.T) {
	t.Run("bad sql", func(t *testing.T) {
		_, err := sieve.New("this is not sql;", personSchema())
		assert.ErrorIs(t, err, sieve.ErrParse)
	})

	t.Run("duplicate extension", func(t *testing.T) {
		other := extension.Funcs{extension.Func0("is_bob", func() bool { return false })}
		_, err := sieve.New("select * from T where is_bob()", personSchema(),
			sieve.WithExtensions(personExtensions(), other))

		var ce *sieve.ConstructionError
		require.ErrorAs(t, err, &ce)
		assert.ErrorIs(t, err, sieve.ErrConstruction)
		assert.ErrorIs(t, err, extension.ErrDuplicateFunction)
	})

	t.Run("inaccessible extension", func(t *testing.T) {
		_, err := sieve.New("select * from T where hidden()", personSchema(),
			sieve.WithExtensions(extension.Funcs{{Name: "hidden"}}))
		assert.ErrorIs(t, err, sieve.ErrConstruction)
		assert.ErrorIs(t, err, extension.ErrInaccessibleFunction)
	})

	t.Run("nil schema", func(t *testing.T) {
		_, err := sieve.New[*person]("select * from T where a = 1", nil)
		assert.ErrorIs(t, err, sieve.ErrConstruction)
	})

	t.Run("duplicate column", func(t *testing.T) {
		schema := personSchema().Column("AGE", func(p *person) any { return p.Age })
		_, err := sieve.New("select * from T where age = 1", schema)
		assert.ErrorIs(t, err, sieve.ErrConstruction)
	})
}

func TestExecute_Errors(t *testing.T) {
	rows := people()

	t.Run("unknown column", func(t *testing.T) {
		eng, err := sieve.New("select * from T where unknown_column = 1", personSchema())
		require.NoError(t, err)
		_, err = eng.Execute(slices.Values(rows))
		assert.ErrorIs(t, err, sieve.ErrMissingAccessor)
	})

	t.Run("unknown function", func(t *testing.T) {
		eng, err := sieve.New("select * from T where is_bob()", personSchema())
		require.NoError(t, err)
		_, _, err = eng.TestOne(rows[0])
		assert.ErrorIs(t, err, sieve.ErrUnknownFunction)
	})

	t.Run("between with two operands", func(t *testing.T) {
		eng, err := sieve.New("select * from T where age between 1 and 2", personSchema())
		require.NoError(t, err)
		eng.Statement().Where = &expr.Between{Operands: []expr.Node{expr.NewColumn("age"), expr.NewInt(1)}}

		got, err := eng.Execute(slices.Values(rows))
		assert.ErrorIs(t, err, sieve.ErrArity)
		assert.Nil(t, got, "no partial results")
	})

	t.Run("type mismatch", func(t *testing.T) {
		eng, err := sieve.New("select * from T where name > 3", personSchema())
		require.NoError(t, err)
		_, err = eng.Execute(slices.Values(rows))
		assert.ErrorIs(t, err, sieve.ErrTypeMismatch)
	})

	t.Run("panicking extension", func(t *testing.T) {
		boom := extension.Func1("boom", func(*person) bool { panic("kaboom") })
		eng, err := sieve.New("select * from T where boom()", personSchema(),
			sieve.WithExtensions(extension.Funcs{boom}))
		require.NoError(t, err)
		_, err = eng.Execute(slices.Values(rows))
		assert.ErrorIs(t, err, sieve.ErrInvocation)
	})
}

type deal struct {
	Number string
	Book   *string
	Date   time.Time
}

func dealSchema() *sieve.Schema[*deal] {
	return sieve.NewSchema[*deal]("EnrichedDeal").
		Column("deal_number", func(d *deal) any { return d.Number }).
		Column("book", func(d *deal) any {
			if d.Book == nil {
				return nil
			}
			return *d.Book
		}).
		Column("deal_date", func(d *deal) any { return d.Date })
}

func TestEngine_DealScenarios(t *testing.T) {
	builder, other := "bob_the_builder", "book"
	deal1 := &deal{Number: "HH_Titanic", Book: &builder, Date: time.Date(2011, 3, 1, 0, 0, 0, 0, time.UTC)}
	deal2 := &deal{Number: "HH_Mayflower", Book: &other, Date: time.Date(2011, 3, 5, 0, 0, 0, 0, time.UTC)}
	deal3 := &deal{Number: "Null Book", Date: deal1.Date}

	set := index.NewSet[*deal]()
	schema := dealSchema()
	for _, c := range []struct {
		kind   index.Kind
		column string
	}{{index.Hash, "book"}, {index.Date, "deal_date"}} {
		acc, ok := sieve.IndexAccessor(schema, c.column)
		require.True(t, ok)
		_, err := set.Define(c.kind, c.column, acc)
		require.NoError(t, err)
	}
	all := []*deal{deal1, deal2, deal3}
	require.NoError(t, set.AddAll(context.Background(), all))

	tests := []struct {
		where string
		want  []*deal
	}{
		{"book is null", []*deal{deal3}},
		{"book is not null", []*deal{deal1, deal2}},
		{"book = 'bob_the_builder'", []*deal{deal1}},
		{"book != 'bob_the_builder'", []*deal{deal2}},
		{"deal_date = '01/03/2011'", []*deal{deal1, deal3}},
		{"deal_date BETWEEN '01/03/2011' AND '03/03/2011'", []*deal{deal1, deal3}},
		{"deal_date BETWEEN '02/03/2011' AND '03/03/2011'", nil},
		{"deal_date < '02/03/2011'", []*deal{deal1, deal3}},
		{"deal_date < '01/03/2010'", nil},
		{"deal_date > '01/03/2011'", []*deal{deal2}},
		{"deal_date > '01/03/2012'", nil},
		{"book LIKE '%_the_%'", []*deal{deal1}},
		{"book IN ('book', 'none')", []*deal{deal2}},
	}
	for _, tt := range tests {
		t.Run(tt.where, func(t *testing.T) {
			eng, err := sieve.New("select * from EnrichedDeal where "+tt.where, schema)
			require.NoError(t, err)

			got, err := eng.Execute(slices.Values(all))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			indexed, err := eng.ExecuteIndexed(slices.Values(all), set)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, indexed)
		})
	}
}

func TestExecuteIndexed_LiteralOfOtherKind(t *testing.T) {
	builder := "bob_the_builder"
	all := []*deal{{Number: "HH_Titanic", Book: &builder}, {Number: "Null Book"}}

	schema := dealSchema()
	set := index.NewSet[*deal]()
	acc, ok := sieve.IndexAccessor(schema, "book")
	require.True(t, ok)
	_, err := set.Define(index.Hash, "book", acc)
	require.NoError(t, err)
	require.NoError(t, set.AddAll(context.Background(), all))

	for _, where := range []string{"book = 5", "5 = book", "book = 5 AND deal_number = 'HH_Titanic'"} {
		t.Run(where, func(t *testing.T) {
			eng, err := sieve.New("select * from EnrichedDeal where "+where, schema)
			require.NoError(t, err)

			_, err = eng.Execute(slices.Values(all))
			assert.ErrorIs(t, err, sieve.ErrTypeMismatch)
			assert.Nil(t, eng.Restrict(set))
			_, err = eng.ExecuteIndexed(slices.Values(all), set)
			assert.ErrorIs(t, err, sieve.ErrTypeMismatch)
		})
	}
}

func TestExecute_ChildIn(t *testing.T) {
	type row struct {
		ID    int
		Child int
	}
	n := 2_000_000
	if testing.Short() {
		n = 20_000
	}
	rows := func(yield func(*row) bool) {
		for i := range n {
			if !yield(&row{ID: i, Child: i % 1000}) {
				return
			}
		}
	}
	schema := sieve.NewSchema[*row]("Row").Column("child", func(r *row) any { return r.Child })

	in, err := sieve.New("select * from Row where child IN (50, 60)", schema)
	require.NoError(t, err)
	or, err := sieve.New("select * from Row where child = 50 or child = 60", schema)
	require.NoError(t, err)

	got, err := in.Execute(rows)
	require.NoError(t, err)
	want, err := or.Execute(rows)
	require.NoError(t, err)

	require.Len(t, got, n/1000*2)
	require.Len(t, want, len(got))
	for i := range got {
		assert.Contains(t, []int{50, 60}, got[i].Child)
		assert.Equal(t, want[i].ID, got[i].ID)
	}
}

func dealIDs(deals []*testutil.Deal) []int {
	out := make([]int, len(deals))
	for i, d := range deals {
		out[i] = d.ID
	}
	slices.Sort(out)
	return out
}

func dealFixture(t *testing.T, n int) ([]*testutil.Deal, *sieve.Schema[*testutil.Deal], *index.Set[*testutil.Deal]) {
	t.Helper()
	deals := testutil.NewRNG(4711).Deals(n)
	cols := testutil.DealColumns()

	schema := sieve.NewSchema[*testutil.Deal]("Deal")
	for _, name := range []string{"id", "book", "child", "amount", "deal_date", "trader"} {
		schema.Column(name, cols[name])
	}

	set := index.NewSet[*testutil.Deal]()
	_, err := set.Define(index.Hash, "book", cols["book"], index.WithBuckets(64))
	require.NoError(t, err)
	_, err = set.Define(index.Range, "child", cols["child"], index.WithBuckets(16), index.WithRange(0, 100))
	require.NoError(t, err)
	_, err = set.Define(index.Date, "deal_date", cols["deal_date"])
	require.NoError(t, err)
	_, err = set.Define(index.Range, "amount", cols["amount"], index.WithRange(-1000, 1000))
	require.NoError(t, err)
	require.NoError(t, set.AddAll(context.Background(), deals))
	return deals, schema, set
}

var dealQueries = []string{
	"book = 'book-00'",
	"book IS NULL",
	"book IS NOT NULL AND child < 10",
	"book IN ('book-01', 'book-02') OR child = 5",
	"book IN ('book-01', 'book-02', 'nope')",
	"child BETWEEN 20 AND 30",
	"child >= 95 OR child <= 2",
	"30 > child AND 25 <= child",
	"deal_date BETWEEN '01/01/2008' AND '31/12/2008'",
	"deal_date > '01/06/2014' AND amount < 0",
	"amount >= 999 OR amount <= -999",
	"trader = 'Bob' AND child IN (1, 2, 3)",
	"NOT (child < 50) AND book = 'book-03'",
	"book LIKE 'book-1%' AND deal_date IS NULL",
	"child = 50.0",
	"amount > 0 AND amount < 100 AND book IS NOT NULL",
	"deal_date IS NULL OR deal_date < '01/01/2005'",
}

func TestExecuteIndexed_MatchesFullScan(t *testing.T) {
	n := 20_000
	if testing.Short() {
		n = 2_000
	}
	deals, schema, set := dealFixture(t, n)

	for _, q := range dealQueries {
		for _, backend := range []struct {
			name string
			opts []sieve.Option
		}{{"tree", nil}, {"compiled", []sieve.Option{sieve.WithCompiledBackend()}}} {
			t.Run(backend.name+"/"+q, func(t *testing.T) {
				query := "select * from Deal where " + q
				scan, err := sieve.New(query, schema, backend.opts...)
				require.NoError(t, err)
				indexed, err := sieve.New(query, schema, backend.opts...)
				require.NoError(t, err)

				want, err := scan.Execute(slices.Values(deals))
				require.NoError(t, err)
				got, err := indexed.ExecuteIndexed(slices.Values(deals), set)
				require.NoError(t, err)

				assert.Equal(t, dealIDs(want), dealIDs(got))
			})
		}
	}
}

func TestExecute_DoubleNegation(t *testing.T) {
	deals, schema, _ := dealFixture(t, 2_000)
	for _, q := range dealQueries {
		t.Run(q, func(t *testing.T) {
			p, err := sieve.New("select * from Deal where "+q, schema)
			require.NoError(t, err)
			notNot, err := sieve.New("select * from Deal where NOT (NOT ("+q+"))", schema)
			require.NoError(t, err)

			want, err := p.Execute(slices.Values(deals))
			require.NoError(t, err)
			got, err := notNot.Execute(slices.Values(deals))
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

type triple struct {
	X   float64
	Lo  int
	Hi  float64
	D   time.Time
	DLo time.Time
	DHi time.Time
}

func TestBetween_EquivalentToBounds(t *testing.T) {
	schema := sieve.NewSchema[*triple]("Triple").
		Column("x", func(r *triple) any { return r.X }).
		Column("lo", func(r *triple) any { return r.Lo }).
		Column("hi", func(r *triple) any { return r.Hi }).
		Column("d", func(r *triple) any { return r.D }).
		Column("dlo", func(r *triple) any { return r.DLo }).
		Column("dhi", func(r *triple) any { return r.DHi })

	pairs := [][2]string{
		{"x BETWEEN lo AND hi", "x >= lo AND x <= hi"},
		{"d BETWEEN dlo AND dhi", "d >= dlo AND d <= dhi"},
	}
	rng := testutil.NewRNG(99)
	from, to := testutil.DealEpoch, testutil.DealEnd

	for _, pair := range pairs {
		between, err := sieve.New("select * from Triple where "+pair[0], schema)
		require.NoError(t, err)
		bounds, err := sieve.New("select * from Triple where "+pair[1], schema)
		require.NoError(t, err)

		for i := range 2_000 {
			r := &triple{
				X:   float64(rng.Intn(40)) / 2,
				Lo:  rng.Intn(20),
				Hi:  float64(rng.Intn(40)) / 2,
				D:   rng.Date(from, to),
				DLo: rng.Date(from, to),
				DHi: rng.Date(from, to),
			}
			if i%10 == 0 {
				r.DHi = r.D
			}
			_, a, err := between.TestOne(r)
			require.NoError(t, err)
			_, b, err := bounds.TestOne(r)
			require.NoError(t, err)
			require.Equal(t, b, a, "%s with %+v", pair[0], r)
		}
	}
}

func TestEngine_StatementAndAlias(t *testing.T) {
	eng, err := sieve.New("select * from Anything where age > 2", personSchema())
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM Person WHERE (age > 2);", eng.String())
	assert.Equal(t, "Anything", eng.Statement().From)

	eng, err = sieve.New("select * from Anything where age > 2", personSchema(), sieve.WithAlias("p"))
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM p WHERE (age > 2);", eng.String())
}

func TestEngine_Clone(t *testing.T) {
	metrics := &sieve.BasicMetricsCollector{}
	eng, err := sieve.New("select * from T where is_bob()", personSchema(),
		sieve.WithExtensions(personExtensions()), sieve.WithMetricsCollector(metrics))
	require.NoError(t, err)

	clone, err := eng.Clone()
	require.NoError(t, err)
	require.NotSame(t, eng.Statement(), clone.Statement())
	assert.Equal(t, eng.String(), clone.String())

	got, err := clone.Execute(slices.Values(people()))
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, int64(1), metrics.GetStats().ExecuteCount)
}

func TestEngine_Metrics(t *testing.T) {
	deals, schema, set := dealFixture(t, 500)
	metrics := &sieve.BasicMetricsCollector{}
	eng, err := sieve.New("select * from Deal where book = 'book-00'", schema, sieve.WithMetricsCollector(metrics))
	require.NoError(t, err)

	all, err := eng.Execute(slices.Values(deals))
	require.NoError(t, err)
	indexed, err := eng.ExecuteIndexed(slices.Values(deals), set)
	require.NoError(t, err)
	require.Len(t, indexed, len(all))

	stats := metrics.GetStats()
	assert.Equal(t, int64(2), stats.ExecuteCount)
	assert.Equal(t, int64(1), stats.RestrictCount)
	assert.Equal(t, int64(1), stats.RestrictHits)
	assert.Equal(t, int64(2*len(all)), stats.RowsMatched)
	assert.Less(t, stats.Candidates, int64(len(deals)))
	assert.Equal(t, int64(len(deals))+stats.Candidates, stats.RowsScanned)
	assert.Zero(t, stats.ExecuteErrors)
}

func TestEngine_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := sieve.NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	eng, err := sieve.New("select * from T where age = 40", personSchema(), sieve.WithLogger(logger))
	require.NoError(t, err)
	_, err = eng.Execute(slices.Values(people()))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"msg":"engine constructed"`)
	assert.Contains(t, out, `"msg":"execute completed"`)
	assert.Contains(t, out, `"matched":2`)
	assert.Contains(t, out, `"table":"Person"`)

	buf.Reset()
	eng, err = sieve.New("select * from T where nope = 1", personSchema(), sieve.WithLogger(logger))
	require.NoError(t, err)
	_, err = eng.Execute(slices.Values(people()))
	require.Error(t, err)
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
	assert.True(t, errors.Is(err, sieve.ErrMissingAccessor), fmt.Sprint(err))
}
