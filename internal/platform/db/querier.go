package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Row is a single row returned by QueryRow.
type Row interface {
	Scan(dest ...any) error
}

// Rows is the subset of pgx.Rows that repositories iterate over.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// Querier is the minimal database interface repositories depend on.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) Row
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Exec(ctx context.Context, sql string, args ...any) error
}

// Pool is the part of *pgxpool.Pool that NewQuerier adapts. pgxmock pools
// satisfy it as well.
type Pool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// poolQuerier adapts a Pool to Querier. Exec drops the command tag and Query
// narrows pgx.Rows.
type poolQuerier struct {
	pool Pool
}

// NewQuerier wraps a pool so it satisfies Querier.
func NewQuerier(pool Pool) Querier {
	return &poolQuerier{pool: pool}
}

func (q *poolQuerier) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return q.pool.QueryRow(ctx, sql, args...)
}

func (q *poolQuerier) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	rows, err := q.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (q *poolQuerier) Exec(ctx context.Context, sql string, args ...any) error {
	_, err := q.pool.Exec(ctx, sql, args...)
	return err
}

// IsNoRows reports whether err is the driver's "no rows in result set".
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
