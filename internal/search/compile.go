package search

import (
	"fmt"
	"strconv"
	"strings"

	"arcapi/internal/apperr"
)

const (
	// DefaultPageSize applies when the request leaves pageSize unset.
	DefaultPageSize = 10
	// MaxPageSize bounds client-requested page sizes.
	MaxPageSize = 500
)

// Clause is an access-control predicate supplied by the calling service.
// SQL uses ? placeholders which the compiler rebinds positionally; it is
// AND-ed ahead of all client predicates and can never be overridden by
// them.
type Clause struct {
	SQL  string
	Args []any
}

// binder allocates PostgreSQL positional placeholders.
type binder struct {
	args []any
}

func (b *binder) bind(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

// Compiled is an executable pair of count and data queries sharing one
// WHERE clause. The data query is finalized only after the count is known
// so the requested page can be clamped to the last existing one.
type Compiled struct {
	schema   *Schema
	where    string
	args     []any
	order    string
	page     int
	pageSize int
}

// Compile validates req against the schema and builds the parameterized
// statements. visibility may be the zero Clause for unrestricted
// resources.
func Compile(s *Schema, req Request, visibility Clause) (*Compiled, error) {
	b := &binder{}
	var conds []string

	if visibility.SQL != "" {
		sql, err := rebind(b, visibility.SQL, visibility.Args)
		if err != nil {
			return nil, err
		}
		conds = append(conds, "("+sql+")")
	}

	for _, el := range req.Query {
		f, tv, err := s.validate(el)
		if err != nil {
			return nil, err
		}
		expr, err := buildExpr(b, el, f, tv)
		if err != nil {
			return nil, err
		}
		conds = append(conds, expr)
	}

	order, err := s.buildOrder(req.Sort)
	if err != nil {
		return nil, err
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	return &Compiled{
		schema:   s,
		where:    strings.Join(conds, " AND "),
		args:     b.args,
		order:    order,
		page:     page,
		pageSize: pageSize,
	}, nil
}

// rebind rewrites ? placeholders of a visibility clause into the shared
// positional sequence.
func rebind(b *binder, sql string, args []any) (string, error) {
	var out strings.Builder
	idx := 0
	for _, r := range sql {
		if r != '?' {
			out.WriteRune(r)
			continue
		}
		if idx >= len(args) {
			return "", apperr.Storage(fmt.Errorf("visibility clause %q has more placeholders than arguments", sql))
		}
		out.WriteString(b.bind(args[idx]))
		idx++
	}
	if idx != len(args) {
		return "", apperr.Storage(fmt.Errorf("visibility clause %q has %d unused arguments", sql, len(args)-idx))
	}
	return out.String(), nil
}

func buildExpr(b *binder, el QueryElement, f Field, tv typedValue) (string, error) {
	// Set-valued relationship fields render through their EXISTS template.
	if f.SetTemplate != "" {
		ph := make([]string, len(tv.list))
		for i, v := range tv.list {
			ph[i] = b.bind(v)
		}
		expr := fmt.Sprintf(f.SetTemplate, strings.Join(ph, ", "))
		if el.Not {
			return "NOT (" + expr + ")", nil
		}
		return "(" + expr + ")", nil
	}

	lhs := f.lhs()

	if tv.null {
		if el.Not {
			return lhs + " IS NOT NULL", nil
		}
		return lhs + " IS NULL", nil
	}

	var expr string
	switch el.Condition {
	case CondEq:
		expr = lhs + " = " + b.bind(tv.scalar)
	case CondGt:
		expr = lhs + " > " + b.bind(tv.scalar)
	case CondGte:
		expr = lhs + " >= " + b.bind(tv.scalar)
	case CondLt:
		expr = lhs + " < " + b.bind(tv.scalar)
	case CondLte:
		expr = lhs + " <= " + b.bind(tv.scalar)
	case CondFragment:
		pattern := "%" + escapeLike(tv.scalar.(string)) + "%"
		expr = lhs + " ILIKE " + b.bind(pattern) + ` ESCAPE '\'`
	case CondAnyOf:
		ph := make([]string, len(tv.list))
		for i, v := range tv.list {
			ph[i] = b.bind(v)
		}
		expr = lhs + " IN (" + strings.Join(ph, ", ") + ")"
	default:
		return "", apperr.Validation(el.Field, "unknown condition %q", el.Condition)
	}

	if el.Not {
		// NULL-tolerant negation: a row whose field is unset is "not equal"
		// and "not any of" by the documented semantics.
		if f.Expr != "" {
			return "NOT (" + expr + ")", nil
		}
		return "(" + lhs + " IS NULL OR NOT (" + expr + "))", nil
	}
	return expr, nil
}

// escapeLike neutralizes LIKE metacharacters in a fragment value.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func (s *Schema) buildOrder(sort []SortElement) (string, error) {
	if len(sort) == 0 {
		order := s.DefaultOrder
		if order == "" {
			order = s.Key + " ASC"
		}
		if !strings.Contains(order, s.Key) {
			order += ", " + s.Key + " ASC"
		}
		return order, nil
	}

	var parts []string
	keySeen := false
	for _, el := range sort {
		f, ok := s.Fields[el.Field]
		if !ok || !f.Sortable || f.Column == "" {
			return "", apperr.Validation(el.Field, "field is not sortable")
		}
		dir := "ASC"
		switch strings.ToUpper(string(el.Direction)) {
		case "", "ASC":
		case "DESC":
			dir = "DESC"
		default:
			return "", apperr.Validation(el.Field, "invalid sort direction %q", el.Direction)
		}
		if f.Column == s.Key {
			keySeen = true
		}
		parts = append(parts, f.Column+" "+dir)
	}
	if !keySeen {
		// Deterministic page boundaries under duplicate sort values.
		parts = append(parts, s.Key+" ASC")
	}
	return strings.Join(parts, ", "), nil
}

// CountQuery projects only the matching row count over the shared WHERE.
func (c *Compiled) CountQuery() (string, []any) {
	q := "SELECT COUNT(*) FROM " + c.schema.Table
	if c.where != "" {
		q += " WHERE " + c.where
	}
	return q, c.args
}

// DataQuery finalizes the page query. totalSize is the result of the count
// query; the requested page is clamped into the valid range and the
// effective page is returned alongside the statement.
func (c *Compiled) DataQuery(totalSize int) (string, []any, int) {
	page := ClampPage(c.page, TotalPages(totalSize, c.pageSize))

	args := make([]any, len(c.args), len(c.args)+2)
	copy(args, c.args)

	q := "SELECT " + c.schema.SelectColumns + " FROM " + c.schema.Table
	if c.where != "" {
		q += " WHERE " + c.where
	}
	q += " ORDER BY " + c.order
	q += " LIMIT $" + strconv.Itoa(len(args)+1) + " OFFSET $" + strconv.Itoa(len(args)+2)
	args = append(args, c.pageSize, (page-1)*c.pageSize)

	return q, args, page
}

// PageSize returns the effective (clamped) page size.
func (c *Compiled) PageSize() int { return c.pageSize }
