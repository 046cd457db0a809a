// Package postgres provides PostgreSQL implementations of the store
// interfaces using jackc/pgx via database/sql. Concurrency-sensitive
// uniqueness (the card catalog's dedup key, per-owner deck slugs, and
// the one-link-per-card-per-deck rule) is enforced by database
// constraints, never by in-process locks, so the guarantees hold across
// multiple server processes.
package postgres
