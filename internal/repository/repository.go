// Package repository holds the SQL access for every table. Queries use $N
// placeholders, which both sqlite and pgx accept.
package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
)

// get loads a single row, mapping no rows to notFound.
func get[T any](q sqlx.Queryer, notFound error, query string, args ...any) (*T, error) {
	var row T
	err := sqlx.Get(q, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// list loads every matching row. The result is never nil.
func list[T any](q sqlx.Queryer, query string, args ...any) ([]T, error) {
	rows := []T{}
	if err := sqlx.Select(q, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

// oneRow wraps an Exec result, mapping a write that matched nothing to
// notFound:
//
//	return oneRow(ErrGoalNotFound)(r.db.Exec(query, id))
func oneRow(notFound error) func(sql.Result, error) error {
	return func(result sql.Result, err error) error {
		if err != nil {
			return err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return notFound
		}
		return nil
	}
}

// isUniqueViolation matches sqlite and postgres unique constraint errors.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}
