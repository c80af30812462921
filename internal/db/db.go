// Package db provides PostgreSQL-backed repository implementations for
// the notification service's read-only lookups. All repositories accept a
// DBTX interface that is satisfied by both *pgxpool.Pool (for normal
// queries) and pgx.Tx, enabling clean transaction support and mock-based
// testing.
package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the minimal interface shared by *pgxpool.Pool and pgx.Tx.
// Repositories accept this so the same code works inside or outside a
// transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// derefString returns the value of a nullable scan target, or "" for NULL.
func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
