package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arcapi/internal/apperr"
)

func testSchema() *Schema {
	return &Schema{
		Table:         "things JOIN users ON users.user_id = things.owner_user_id",
		Key:           "things.thing_id",
		SelectColumns: "things.thing_id, things.name, things.created_on",
		DefaultOrder:  "things.created_on DESC",
		Fields: map[string]Field{
			"name":      {Column: "things.name", Type: TypeText, Filterable: true, Sortable: true},
			"size":      {Column: "things.size", Type: TypeNumber, Filterable: true, Sortable: true},
			"active":    {Column: "things.active", Type: TypeBool, Filterable: true},
			"createdOn": {Column: "things.created_on", Type: TypeDate, Filterable: true, Sortable: true},
			"hidden":    {Column: "things.hidden", Type: TypeText},
			"tagIds": {
				SetTemplate: "EXISTS (SELECT 1 FROM thing_tags tt WHERE tt.thing_id = things.thing_id AND tt.tag_id IN (%s))",
				Type:        TypeNumber,
				Filterable:  true,
			},
			"hasParent": {Expr: "EXISTS (SELECT 1 FROM links l WHERE l.child_id = things.thing_id)", Type: TypeBool, Filterable: true},
		},
	}
}

func TestCompileRejectsUnknownField(t *testing.T) {
	req := Request{Query: []QueryElement{{Field: "thing_id; DROP TABLE things", Condition: CondEq, Value: "x"}}}
	_, err := Compile(testSchema(), req, Clause{})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, "thing_id; DROP TABLE things", apperr.FieldOf(err))
}

func TestCompileRejectsNonFilterableField(t *testing.T) {
	req := Request{Query: []QueryElement{{Field: "hidden", Condition: CondEq, Value: "x"}}}
	_, err := Compile(testSchema(), req, Clause{})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCompileConditionTypeRules(t *testing.T) {
	tests := []struct {
		name    string
		el      QueryElement
		wantErr bool
	}{
		{"fragment on text", QueryElement{Field: "name", Condition: CondFragment, Value: "abc"}, false},
		{"fragment on number", QueryElement{Field: "size", Condition: CondFragment, Value: "abc"}, true},
		{"gt on number", QueryElement{Field: "size", Condition: CondGt, Value: float64(3)}, false},
		{"gt on text", QueryElement{Field: "name", Condition: CondGt, Value: "a"}, true},
		{"gt on bool", QueryElement{Field: "active", Condition: CondGt, Value: true}, true},
		{"eq on bool", QueryElement{Field: "active", Condition: CondEq, Value: true}, false},
		{"any_of on date", QueryElement{Field: "createdOn", Condition: CondAnyOf, Value: []any{"2024-01-02"}}, false},
		{"unknown condition", QueryElement{Field: "name", Condition: "LIKE", Value: "a"}, true},
		{"wrong scalar type", QueryElement{Field: "size", Condition: CondEq, Value: "ten"}, true},
		{"unparseable date", QueryElement{Field: "createdOn", Condition: CondGte, Value: "yesterday"}, true},
		{"any_of non-array", QueryElement{Field: "size", Condition: CondAnyOf, Value: float64(1)}, true},
		{"any_of empty array", QueryElement{Field: "size", Condition: CondAnyOf, Value: []any{}}, true},
		{"set field any_of", QueryElement{Field: "tagIds", Condition: CondAnyOf, Value: []any{float64(1), float64(2)}}, false},
		{"set field eq scalar", QueryElement{Field: "tagIds", Condition: CondEq, Value: float64(1)}, false},
		{"set field fragment", QueryElement{Field: "tagIds", Condition: CondFragment, Value: "1"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(testSchema(), Request{Query: []QueryElement{tt.el}}, Clause{})
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestCompileNullHandling(t *testing.T) {
	t.Run("eq null is IS NULL", func(t *testing.T) {
		c, err := Compile(testSchema(), Request{Query: []QueryElement{{Field: "name", Condition: CondEq, Value: nil}}}, Clause{})
		require.NoError(t, err)
		q, args := c.CountQuery()
		assert.Contains(t, q, "things.name IS NULL")
		assert.Empty(t, args)
	})

	t.Run("negated eq null is IS NOT NULL", func(t *testing.T) {
		c, err := Compile(testSchema(), Request{Query: []QueryElement{{Field: "name", Condition: CondEq, Value: nil, Not: true}}}, Clause{})
		require.NoError(t, err)
		q, _ := c.CountQuery()
		assert.Contains(t, q, "things.name IS NOT NULL")
	})

	t.Run("null rejected outside EQ", func(t *testing.T) {
		_, err := Compile(testSchema(), Request{Query: []QueryElement{{Field: "size", Condition: CondGt, Value: nil}}}, Clause{})
		require.Error(t, err)
	})
}

func TestCompileNegationIsNullTolerant(t *testing.T) {
	req := Request{Query: []QueryElement{{Field: "size", Condition: CondAnyOf, Value: []any{float64(1), float64(2)}, Not: true}}}
	c, err := Compile(testSchema(), req, Clause{})
	require.NoError(t, err)
	q, args := c.CountQuery()
	assert.Contains(t, q, "(things.size IS NULL OR NOT (things.size IN ($1, $2)))")
	assert.Equal(t, []any{float64(1), float64(2)}, args)
}

func TestCompileFragmentEscapesLikeMetacharacters(t *testing.T) {
	req := Request{Query: []QueryElement{{Field: "name", Condition: CondFragment, Value: "50%_done"}}}
	c, err := Compile(testSchema(), req, Clause{})
	require.NoError(t, err)
	q, args := c.CountQuery()
	assert.Contains(t, q, `things.name ILIKE $1 ESCAPE '\'`)
	require.Len(t, args, 1)
	assert.Equal(t, `%50\%\_done%`, args[0])
}

func TestCompileSetTemplateField(t *testing.T) {
	req := Request{Query: []QueryElement{{Field: "tagIds", Condition: CondAnyOf, Value: []any{float64(7), float64(9)}}}}
	c, err := Compile(testSchema(), req, Clause{})
	require.NoError(t, err)
	q, args := c.CountQuery()
	assert.Contains(t, q, "tt.tag_id IN ($1, $2)")
	assert.Equal(t, []any{float64(7), float64(9)}, args)
}

func TestCompileVisibilityClauseLeadsAndRebinds(t *testing.T) {
	req := Request{Query: []QueryElement{{Field: "name", Condition: CondEq, Value: "x"}}}
	vis := Clause{SQL: "things.owner_user_id = ? OR things.shared = ?", Args: []any{int64(42), true}}
	c, err := Compile(testSchema(), req, vis)
	require.NoError(t, err)
	q, args := c.CountQuery()
	assert.Contains(t, q, "(things.owner_user_id = $1 OR things.shared = $2)")
	assert.Contains(t, q, "things.name = $3")
	assert.Equal(t, []any{int64(42), true, "x"}, args)
	// Visibility is AND-ed ahead of every client predicate.
	assert.Less(t, indexOf(q, "owner_user_id"), indexOf(q, "things.name ="))
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func TestCompileOrderRules(t *testing.T) {
	t.Run("default order with key tie-break", func(t *testing.T) {
		c, err := Compile(testSchema(), Request{}, Clause{})
		require.NoError(t, err)
		q, _, _ := c.DataQuery(0)
		assert.Contains(t, q, "ORDER BY things.created_on DESC, things.thing_id ASC")
	})

	t.Run("explicit sort appends key tie-break", func(t *testing.T) {
		req := Request{Sort: []SortElement{{Field: "name", Direction: SortDesc}}}
		c, err := Compile(testSchema(), req, Clause{})
		require.NoError(t, err)
		q, _, _ := c.DataQuery(0)
		assert.Contains(t, q, "ORDER BY things.name DESC, things.thing_id ASC")
	})

	t.Run("unsortable field rejected", func(t *testing.T) {
		req := Request{Sort: []SortElement{{Field: "active"}}}
		_, err := Compile(testSchema(), req, Clause{})
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("bad direction rejected", func(t *testing.T) {
		req := Request{Sort: []SortElement{{Field: "name", Direction: "SIDEWAYS"}}}
		_, err := Compile(testSchema(), req, Clause{})
		require.Error(t, err)
	})
}

func TestDataQueryClampsPage(t *testing.T) {
	// 3 pages of 10 exist; page 50 must serve page 3.
	req := Request{Page: 50, PageSize: 10}
	c, err := Compile(testSchema(), req, Clause{})
	require.NoError(t, err)
	q, args, page := c.DataQuery(25)
	assert.Equal(t, 3, page)
	assert.Contains(t, q, "LIMIT $1 OFFSET $2")
	assert.Equal(t, []any{10, 20}, args)
}

func TestCompilePageSizeBounds(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		c, err := Compile(testSchema(), Request{}, Clause{})
		require.NoError(t, err)
		assert.Equal(t, DefaultPageSize, c.PageSize())
	})
	t.Run("capped at max", func(t *testing.T) {
		c, err := Compile(testSchema(), Request{PageSize: 10000}, Clause{})
		require.NoError(t, err)
		assert.Equal(t, MaxPageSize, c.PageSize())
	})
}

func TestCompileOrderIndependence(t *testing.T) {
	a := Request{Query: []QueryElement{
		{Field: "name", Condition: CondEq, Value: "x"},
		{Field: "size", Condition: CondGt, Value: float64(5)},
	}}
	b := Request{Query: []QueryElement{a.Query[1], a.Query[0]}}

	ca, err := Compile(testSchema(), a, Clause{})
	require.NoError(t, err)
	cb, err := Compile(testSchema(), b, Clause{})
	require.NoError(t, err)

	qa, argsA := ca.CountQuery()
	qb, argsB := cb.CountQuery()
	// Same predicates in either order constrain identically: same parts,
	// same arity, only placeholder positions differ.
	assert.Contains(t, qa, "things.name = $")
	assert.Contains(t, qb, "things.name = $")
	assert.Contains(t, qa, "things.size > $")
	assert.Contains(t, qb, "things.size > $")
	assert.ElementsMatch(t, argsA, argsB)
}
