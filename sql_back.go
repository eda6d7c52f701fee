//go:build !wasm

package customer

import "database/sql"

type sqlExecutor struct {
	*sql.DB
}

// NewSQLExecutor adapts a database/sql handle to Executor.
func NewSQLExecutor(db *sql.DB) Executor {
	return &sqlExecutor{db}
}

func (e *sqlExecutor) Exec(query string, args ...any) error {
	_, err := e.DB.Exec(query, args...)
	return err
}

func (e *sqlExecutor) Query(query string, args ...any) (Rows, error) {
	return e.DB.Query(query, args...)
}

func (e *sqlExecutor) QueryRow(query string, args ...any) Scanner {
	return e.DB.QueryRow(query, args...)
}
