package redis

import "errors"

var (
	ErrEmptyURL    = errors.New("redis: empty connection URL")
	ErrParseURL    = errors.New("redis: parse connection URL")
	ErrConnect     = errors.New("redis: connect")
	ErrHealthcheck = errors.New("redis: healthcheck failed")
)
