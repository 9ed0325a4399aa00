package repositories

import "database/sql"

// Execer is satisfied by both *sql.DB and *sql.Tx so repository methods can
// run inside or outside a transaction.
type Execer interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
	Query(query string, args ...any) (*sql.Rows, error)
}
