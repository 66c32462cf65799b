// Package postgres provides PostgreSQL implementations of the store
// interfaces. All implementations accept a store.DBTX so they run equally
// against a connection pool or an open transaction, and map driver errors
// to the sentinel errors defined in the store package.
package postgres
