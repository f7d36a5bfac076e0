package db

import "database/sql"

// DB wraps the raw sql.DB so repositories depend on a local type.
type DB struct {
	*sql.DB
}
