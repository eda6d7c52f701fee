package customer

// Executor is the storage surface the local backend runs on. Statements use
// SQLite placeholders.
type Executor interface {
	Exec(query string, args ...any) error
	Query(query string, args ...any) (Rows, error)
	QueryRow(query string, args ...any) Scanner
}

// Scanner is one result row.
type Scanner interface {
	Scan(dest ...any) error
}

type Rows interface {
	Scanner
	Next() bool
	Close() error
	Err() error
}
