// Package postgres implements the store interfaces on PostgreSQL using
// database/sql with the pgx driver. All implementations accept a DBTX so
// they can run against either a connection pool or a transaction.
package postgres
