package store

import "errors"

// Sentinel errors returned by storage backends. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrStorage is returned when the storage medium cannot be read or
	// written, or when its content cannot be decoded into a configuration.
	ErrStorage = errors.New("configuration storage failure")

	// ErrConfigNotFound is returned by Load when nothing was saved yet.
	ErrConfigNotFound = errors.New("configuration not found")

	// ErrCacheMiss is returned by LoadResponse when no payload is cached
	// under the requested key.
	ErrCacheMiss = errors.New("cached response not found")

	// ErrUnknownStorageKind is returned by the factories for an
	// unsupported backend name.
	ErrUnknownStorageKind = errors.New("unknown storage kind")
)

// Low-level database operation errors. These are wrapped by the sqlite
// backends when a SQL-level operation fails.
var (
	// ErrBuildingSQLQuery is returned when constructing a SQL query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing an INSERT or UPDATE
	// fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning a single result row fails.
	ErrScanningRow = errors.New("failed to scan row")
)
