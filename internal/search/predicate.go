package search

import (
	"time"

	"arcapi/internal/apperr"
)

// Condition is the comparison vocabulary of a query predicate.
type Condition string

const (
	CondEq       Condition = "EQ"
	CondGt       Condition = "GT"
	CondGte      Condition = "GTE"
	CondLt       Condition = "LT"
	CondLte      Condition = "LTE"
	CondFragment Condition = "FRAGMENT"
	CondAnyOf    Condition = "ANY_OF"
)

// QueryElement is one raw client-supplied filter term. Elements of a
// request combine with logical AND.
type QueryElement struct {
	Field     string    `json:"field"`
	Condition Condition `json:"condition"`
	Value     any       `json:"value"`
	Not       bool      `json:"not"`
}

// SortDirection is "ASC" or "DESC" (case-insensitive on input).
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// SortElement is one requested ordering term.
type SortElement struct {
	Field     string        `json:"field"`
	Direction SortDirection `json:"direction"`
}

// Request is the uniform search payload accepted by every search endpoint.
type Request struct {
	Query    []QueryElement `json:"query"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
	Sort     []SortElement  `json:"sort"`
}

// typedValue is the result of validating a raw predicate value against a
// field's declared type.
type typedValue struct {
	null   bool
	scalar any
	list   []any
}

// dateLayouts accepted for TypeDate values, tried in order.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func conditionAllowed(t FieldType, c Condition) bool {
	switch t {
	case TypeText:
		return c == CondEq || c == CondFragment || c == CondAnyOf
	case TypeNumber, TypeDate:
		return c == CondEq || c == CondGt || c == CondGte || c == CondLt || c == CondLte || c == CondAnyOf
	case TypeBool:
		return c == CondEq
	}
	return false
}

// coerceScalar converts a raw JSON scalar into the field's Go type.
func coerceScalar(field string, t FieldType, v any) (any, error) {
	switch t {
	case TypeText:
		s, ok := v.(string)
		if !ok {
			return nil, apperr.Validation(field, "expected a string value, got %T", v)
		}
		return s, nil
	case TypeNumber:
		switch n := v.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		}
		return nil, apperr.Validation(field, "expected a numeric value, got %T", v)
	case TypeBool:
		b, ok := v.(bool)
		if !ok {
			return nil, apperr.Validation(field, "expected a boolean value, got %T", v)
		}
		return b, nil
	case TypeDate:
		s, ok := v.(string)
		if !ok {
			return nil, apperr.Validation(field, "expected a date string, got %T", v)
		}
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts, nil
			}
		}
		return nil, apperr.Validation(field, "unparseable date %q", s)
	}
	return nil, apperr.Validation(field, "unknown field type")
}

// validate checks one raw predicate against the schema and produces its
// typed value. Every violation is a ValidationError naming the field.
func (s *Schema) validate(el QueryElement) (Field, typedValue, error) {
	f, ok := s.Fields[el.Field]
	if !ok || !f.Filterable {
		return Field{}, typedValue{}, apperr.Validation(el.Field, "field is not searchable")
	}

	if f.SetTemplate != "" {
		if el.Condition != CondAnyOf && el.Condition != CondEq {
			return Field{}, typedValue{}, apperr.Validation(el.Field, "condition %s not allowed on set-valued field", el.Condition)
		}
	} else if !conditionAllowed(f.Type, el.Condition) {
		return Field{}, typedValue{}, apperr.Validation(el.Field, "condition %s not allowed on this field", el.Condition)
	}

	if el.Value == nil {
		if el.Condition != CondEq || f.SetTemplate != "" {
			return Field{}, typedValue{}, apperr.Validation(el.Field, "null value only allowed with EQ")
		}
		return f, typedValue{null: true}, nil
	}

	if el.Condition == CondAnyOf {
		raw, ok := el.Value.([]any)
		if !ok {
			return Field{}, typedValue{}, apperr.Validation(el.Field, "ANY_OF requires an array value")
		}
		if len(raw) == 0 {
			return Field{}, typedValue{}, apperr.Validation(el.Field, "ANY_OF requires a non-empty array")
		}
		list := make([]any, 0, len(raw))
		for _, item := range raw {
			v, err := coerceScalar(el.Field, f.Type, item)
			if err != nil {
				return Field{}, typedValue{}, err
			}
			list = append(list, v)
		}
		return f, typedValue{list: list}, nil
	}

	v, err := coerceScalar(el.Field, f.Type, el.Value)
	if err != nil {
		return Field{}, typedValue{}, err
	}
	if f.SetTemplate != "" {
		// EQ on a set-valued field is membership of a single id.
		return f, typedValue{list: []any{v}}, nil
	}
	return f, typedValue{scalar: v}, nil
}
