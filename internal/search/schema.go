// Package search implements the generic filter/sort/pagination query layer
// shared by every searchable resource. A resource hands the compiler a
// Schema describing its searchable fields; client predicates are validated
// against it and compiled into parameterized SQL, so no client-supplied
// string ever reaches the statement text.
package search

// FieldType is the declared type of a searchable field. It governs which
// conditions are legal and how raw JSON values are coerced.
type FieldType int

const (
	TypeText FieldType = iota + 1
	TypeNumber
	TypeDate
	TypeBool
)

// Field describes one searchable field of a resource.
//
// Exactly one of Column, Expr or SetTemplate is set:
//   - Column: a plain column reference.
//   - Expr: an arbitrary scalar SQL expression used as the left-hand side
//     (e.g. an EXISTS subquery compared as a boolean).
//   - SetTemplate: a template for set-valued relationship fields; the %s
//     slot receives the bound placeholder list. Only EQ and ANY_OF apply.
type Field struct {
	Column      string
	Expr        string
	SetTemplate string
	Type        FieldType
	Filterable  bool
	Sortable    bool
}

func (f Field) lhs() string {
	if f.Expr != "" {
		return f.Expr
	}
	return f.Column
}

// Schema is the per-resource descriptor the compiler is parameterized
// over. It is declared alongside the resource's repository at startup and
// never derived from request data.
type Schema struct {
	// Table is the FROM target of both the data and the count query.
	Table string
	// Key is the primary key column, used as the deterministic sort
	// tie-break so page boundaries are stable under duplicate sort values.
	Key string
	// SelectColumns is the projection of the data query.
	SelectColumns string
	// DefaultOrder is the ORDER BY body applied when the request carries
	// no sort, e.g. "created_on DESC".
	DefaultOrder string
	// Fields maps API field names to their descriptors.
	Fields map[string]Field
}
