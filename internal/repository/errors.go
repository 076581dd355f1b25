package repository

// QueryError wraps a store-level execution failure. The underlying driver
// message is surfaced verbatim; the store never retries or rewrites SQL.
type QueryError struct {
	SQL string
	Err error
}

func (e *QueryError) Error() string {
	return e.Err.Error()
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
