package config

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sieve"
	"github.com/hupe1980/sieve/index"
	"github.com/hupe1980/sieve/testutil"
)

func dealSchema() *sieve.Schema[*testutil.Deal] {
	cols := testutil.DealColumns()
	schema := sieve.NewSchema[*testutil.Deal]("Deal")
	for _, name := range []string{"id", "book", "child", "amount", "deal_date", "trader"} {
		schema.Column(name, cols[name])
	}
	return schema
}

func TestLoad(t *testing.T) {
	c, err := Load("testdata/deals.yaml")
	require.NoError(t, err)

	assert.Equal(t, "japanese", c.DateFormat)
	require.Len(t, c.Indexes, 3)
	assert.Equal(t, "book", c.Indexes[0].Column)
	assert.Equal(t, 64, c.Indexes[0].Buckets)
	require.NotNil(t, c.Indexes[1].Min)
	assert.InDelta(t, 100.0, *c.Indexes[1].Max, 0)
	assert.Len(t, c.Indexes[1].Options(), 2)
	assert.Empty(t, c.Indexes[2].Options())

	_, err = Load("testdata/missing.yaml")
	assert.Error(t, err)
}

func TestParse_Empty(t *testing.T) {
	c, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, c.Indexes)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown field", "indexes:\n  - column: book\n    kind: hash\n    color: red\n"},
		{"missing column", "indexes:\n  - kind: hash\n"},
		{"unknown kind", "indexes:\n  - column: book\n    kind: btree\n"},
		{"negative buckets", "indexes:\n  - column: book\n    kind: hash\n    buckets: -1\n"},
		{"range without bounds", "indexes:\n  - column: child\n    kind: range\n    min: 0\n"},
		{"hash with bounds", "indexes:\n  - column: book\n    kind: hash\n    min: 0\n    max: 1\n"},
		{"duplicate column", "indexes:\n  - column: book\n    kind: hash\n  - column: BOOK\n    kind: date\n"},
		{"unknown date format", "date_format: martian\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}

	_, err := Parse([]byte("date_format: lunar\n"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestBuildSet(t *testing.T) {
	c, err := Load("testdata/deals.yaml")
	require.NoError(t, err)

	set, err := BuildSet(c, dealSchema())
	require.NoError(t, err)
	assert.Equal(t, []string{"book", "child", "deal_date"}, set.Columns())

	book, ok := set.Lookup("BOOK")
	require.True(t, ok)
	assert.Equal(t, index.Hash, book.Kind())
	assert.Equal(t, 64, book.Buckets())

	date, ok := set.Lookup("deal_date")
	require.True(t, ok)
	assert.Equal(t, index.DefaultBuckets, date.Buckets())
}

func TestBuildSet_UnknownColumn(t *testing.T) {
	c, err := Parse([]byte("indexes:\n  - column: desk\n    kind: hash\n"))
	require.NoError(t, err)

	_, err = BuildSet(c, dealSchema())
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestBuildSet_InvalidRange(t *testing.T) {
	c, err := Parse([]byte("indexes:\n  - column: child\n    kind: range\n    min: 10\n    max: 1\n"))
	require.NoError(t, err)

	_, err = BuildSet(c, dealSchema())
	assert.ErrorIs(t, err, index.ErrInvalidOptions)
}

func TestDateSource(t *testing.T) {
	c := &Config{DateFormat: "American"}
	src, err := c.DateSource()
	require.NoError(t, err)
	require.Len(t, src.Functions(), 1)

	c.DateFormat = "klingon"
	_, err = c.DateSource()
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestConfiguredEngine(t *testing.T) {
	c, err := Load("testdata/deals.yaml")
	require.NoError(t, err)
	schema := dealSchema()
	set, err := BuildSet(c, schema)
	require.NoError(t, err)

	deals := testutil.NewRNG(7).Deals(3_000)
	require.NoError(t, set.AddAll(context.Background(), deals))

	src, err := c.DateSource()
	require.NoError(t, err)

	for _, q := range []string{
		"book = 'book-01' AND child < 50",
		"deal_date BETWEEN '2008/01/01' AND '2008/12/31'",
		"child >= 90 OR child < 5",
	} {
		t.Run(q, func(t *testing.T) {
			eng, err := sieve.New("select * from Deal where "+q, schema, sieve.WithExtensions(src))
			require.NoError(t, err)

			want, err := eng.Execute(slices.Values(deals))
			require.NoError(t, err)
			got, err := eng.ExecuteIndexed(slices.Values(deals), set)
			require.NoError(t, err)
			assert.ElementsMatch(t, want, got)
			assert.NotNil(t, eng.Restrict(set))
		})
	}
}
