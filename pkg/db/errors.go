package db

import "errors"

var (
	ErrParseConfig     = errors.New("db: parse connection config")
	ErrOpenConnection  = errors.New("db: open connection")
	ErrHealthcheck     = errors.New("db: healthcheck failed")
	ErrSetDialect      = errors.New("db: set migration dialect")
	ErrApplyMigrations = errors.New("db: apply migrations")
)
