package parser

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sieve/expr"
	"github.com/hupe1980/sieve/numeric"
)

func TestParse_Golden(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"simple_and", "select * from Test where a > 2 and b < 3;"},
		{"not_call", "SELECT * FROM EnrichedDeal WHERE not(child = 1) and not(child = 2);"},
		{"date_between", "select * from EnrichedDeal where deal_date BETWEEN '01/03/2011' AND '03/03/2011';"},
		{"in_list", "select * from EnrichedDeal e where child in (2, 3, -4, 5.5);"},
		{"is_not_null_like", "select * from Deal where book is not null or book like '%_the_%'"},
		{"arithmetic", "select * from T where a + 1 - 2 * b / 4 >= 3 - -1"},
		{"extensions", "select * from Test where age = 40 and lie_about_age() = 10 and " +
			"matches_color('blue') and is_bob() and age_between(30, 50) and " +
			"not(matches_color('red')) and '1991/05/15' < when;"},
		{"not_between_iso_date", "select * from T where d not between '2011-03-01' and toDate('2011/03/05')"},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := Parse(tt.query)
			require.NoError(t, err)
			g.Assert(t, tt.name, []byte(sel.String()+"\n"))

			again, err := Parse(sel.String())
			require.NoError(t, err)
			assert.Equal(t, sel.String(), again.String())
		})
	}
}

func TestParse_Structure(t *testing.T) {
	sel, err := Parse("SELECT * FROM Deal AS d WHERE a = 1 AND b = 2 AND c = 3")
	require.NoError(t, err)
	assert.Equal(t, "Deal", sel.From)
	assert.Equal(t, "d", sel.Alias)

	and, ok := sel.Where.(*expr.Boolean)
	require.True(t, ok)
	assert.Equal(t, expr.And, and.Op)
	assert.Len(t, and.Operands, 3)

	cmp, ok := and.Operands[0].(*expr.Comparison)
	require.True(t, ok)
	assert.Equal(t, expr.Eq, cmp.Op)
	col, ok := cmp.Operands[0].(*expr.Column)
	require.True(t, ok)
	assert.Equal(t, "a", col.Name)
}

func TestParseWhere_Literals(t *testing.T) {
	tests := []struct {
		text  string
		check func(t *testing.T, n expr.Node)
	}{
		{"42", func(t *testing.T, n expr.Node) {
			assert.True(t, n.(*expr.Number).Value.Equal(numeric.Int(42)))
		}},
		{"4.5", func(t *testing.T, n expr.Node) {
			assert.True(t, n.(*expr.Number).Value.Equal(numeric.Float(4.5)))
		}},
		{"1e3", func(t *testing.T, n expr.Node) {
			assert.True(t, n.(*expr.Number).Value.Equal(numeric.Float(1000)))
		}},
		{"-7", func(t *testing.T, n expr.Node) {
			assert.True(t, n.(*expr.Number).Value.Equal(numeric.Int(-7)))
		}},
		{"99999999999999999999", func(t *testing.T, n expr.Node) {
			assert.True(t, n.(*expr.Number).Value.IsFloating())
		}},
		{"'it''s'", func(t *testing.T, n expr.Node) {
			assert.Equal(t, "it's", n.(*expr.String).Value)
		}},
		{"'01-03-2011'", func(t *testing.T, n expr.Node) {
			assert.Equal(t, "01/03/2011", n.(*expr.Date).Text)
		}},
		{"'2011/3/1'", func(t *testing.T, n expr.Node) {
			assert.Equal(t, "2011/3/1", n.(*expr.Date).Text)
		}},
		{"'01/03/2011 10:00'", func(t *testing.T, n expr.Node) {
			assert.Equal(t, "01/03/2011 10:00", n.(*expr.String).Value)
		}},
		{"null", func(t *testing.T, n expr.Node) {
			assert.IsType(t, &expr.Null{}, n)
		}},
		{`"Select"`, func(t *testing.T, n expr.Node) {
			assert.Equal(t, "Select", n.(*expr.Column).Name)
		}},
		{"-a", func(t *testing.T, n expr.Node) {
			assert.Equal(t, "(0 - a)", n.String())
		}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			n, err := ParseWhere(tt.text)
			require.NoError(t, err)
			tt.check(t, n)
		})
	}
}

func TestParseWhere_Predicates(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"a <> 1", "(a != 1)"},
		{"a != 1", "(a != 1)"},
		{"NOT a = 1", "(NOT(a = 1))"},
		{"a NOT IN (1, 2)", "(NOT(a IN (1, 2)))"},
		{"a NOT LIKE 'x%'", "(NOT(a LIKE 'x%'))"},
		{"a IN ()", "(a IN ())"},
		{"a is null", "(a IS NULL)"},
		{"a = 1 or b = 2 and c = 3", "((a = 1) OR ((b = 2) AND (c = 3)))"},
		{"(a = 1 or b = 2) and c = 3", "(((a = 1) OR (b = 2)) AND (c = 3))"},
		{"a - b - c", "(a - b - c)"},
		{"f(g(1), 'x')", "(f((g(1)), 'x'))"},
		{"a = 1 -- trailing comment", "(a = 1)"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			n, err := ParseWhere(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.String())
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []string{
		"this is not sql;",
		"select * from T where",
		"select * from T",
		"select a from T where a = 1",
		"select * from T where a in (b)",
		"select * from T where a = 'unterminated",
		"select * from T where a ! b",
		"select * from T where (a = 1",
		"select * from T where a = 1 extra",
		"select * from T where a is 1",
		"select * from T where a between 1",
		"select * from T where a = 1; b",
		"select * from T where a = #",
	}

	for _, q := range tests {
		t.Run(q, func(t *testing.T) {
			_, err := Parse(q)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSyntax)
			var se *SyntaxError
			assert.ErrorAs(t, err, &se)
		})
	}
}
