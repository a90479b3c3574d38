package postgres

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"arcapi/internal/repository"
	"arcapi/internal/search"
)

// runSearch executes a compiled search: count first, then the data query
// with the page clamped against the count, and wraps both in the envelope.
func runSearch[T any](
	ctx context.Context,
	db repository.DBTX,
	schema *search.Schema,
	req search.Request,
	visibility search.Clause,
	scan func(*sql.Rows) (T, error),
) (search.Page[T], error) {
	var zero search.Page[T]

	c, err := search.Compile(schema, req, visibility)
	if err != nil {
		return zero, err
	}

	countSQL, countArgs := c.CountQuery()
	var total int
	if err := db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return zero, err
	}

	dataSQL, dataArgs, page := c.DataQuery(total)
	rows, err := db.QueryContext(ctx, dataSQL, dataArgs...)
	if err != nil {
		return zero, err
	}
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return zero, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return zero, err
	}

	return search.NewPage(items, page, c.PageSize(), total), nil
}

// inClause renders "$start, $start+1, ..." for an id list and returns the
// matching argument slice.
func inClause(start int, ids []int64) (string, []any) {
	ph := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		ph[i] = "$" + strconv.Itoa(start+i)
		args[i] = id
	}
	return strings.Join(ph, ", "), args
}
