package db

import (
	"fmt"
	"strings"
)

// SearchQuery accumulates AND-ed WHERE fragments with positional
// placeholders for a single-table read.
type SearchQuery struct {
	from    string
	cols    string
	where   string
	args    []any
	idx     int
	orderBy string
}

// NewSearchQuery starts a query over from (a table, optionally aliased)
// selecting cols.
func NewSearchQuery(from, cols string) *SearchQuery {
	return &SearchQuery{from: from, cols: cols, idx: 1}
}

// Add appends a raw WHERE fragment (without leading "AND").
func (q *SearchQuery) Add(clause string, args ...any) {
	q.where += " AND " + clause
	q.args = append(q.args, args...)
	q.idx += len(args)
}

// Equal matches column against value exactly.
func (q *SearchQuery) Equal(column string, value any) {
	q.Add(fmt.Sprintf("%s = $%d", column, q.idx), value)
}

// Contains matches value as a LIKE substring against any of columns. A
// single placeholder is shared by every column.
func (q *SearchQuery) Contains(value string, columns ...string) {
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = fmt.Sprintf("%s LIKE $%d", col, q.idx)
	}
	clause := strings.Join(parts, " OR ")
	if len(parts) > 1 {
		clause = "(" + clause + ")"
	}
	q.Add(clause, "%"+value+"%")
}

// Empty reports whether no criteria were added.
func (q *SearchQuery) Empty() bool { return len(q.args) == 0 }

// OrderBy sets the ORDER BY clause (without the "ORDER BY" keyword).
func (q *SearchQuery) OrderBy(orderBy string) {
	q.orderBy = orderBy
}

// DataSQL returns the select statement with ORDER BY and LIMIT/OFFSET
// placeholders following the criteria.
func (q *SearchQuery) DataSQL() string {
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE 1=1%s", q.cols, q.from, q.where)
	if q.orderBy != "" {
		sql += " ORDER BY " + q.orderBy
	}
	sql += fmt.Sprintf(" LIMIT $%d OFFSET $%d", q.idx, q.idx+1)
	return sql
}

// DataArgs returns the criteria arguments followed by limit and offset. A
// limit of 0 binds NULL, which PostgreSQL treats as LIMIT ALL.
func (q *SearchQuery) DataArgs(limit, offset int) []any {
	result := make([]any, len(q.args)+2)
	copy(result, q.args)
	if limit > 0 {
		result[len(q.args)] = limit
	}
	result[len(q.args)+1] = offset
	return result
}
