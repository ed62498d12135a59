// Package postgres provides PostgreSQL implementations of the storage
// interfaces defined in internal/store, together with the embedded goose
// migrations that create their schema.
//
// Stores accept a store.DBTX, so the same queries run on a pooled *sql.DB or
// inside a caller-managed *sql.Tx.
package postgres
