// Package postgres provides a Postgres-backed template store using pgx.
//
// Templates are stored as JSONB rows with an explicit position column, so the
// editor's collection order survives round trips. Save rewrites the table in
// a transaction, matching the whole-collection semantics of the store
// contract. The schema is created on first use.
package postgres
