package db

import "time"

// Config carries connection settings for the Postgres user store,
// populated from DATABASE_* environment variables.
type Config struct {
	// ConnectionString is a postgres:// URL.
	ConnectionString string `env:"DATABASE_CONN_URL,required"`

	// MigrationsTable is where goose records applied migrations.
	MigrationsTable string `env:"DATABASE_MIGRATIONS_TABLE" envDefault:"schema_migrations"`

	// Pool maintenance. The idle and lifetime caps keep connections fresh
	// behind poolers like PgBouncer.
	HealthCheckPeriod time.Duration `env:"DATABASE_HEALTHCHECK_PERIOD" envDefault:"1m"`
	MaxConnIdleTime   time.Duration `env:"DATABASE_MAX_CONN_IDLE_TIME" envDefault:"10m"`
	MaxConnLifetime   time.Duration `env:"DATABASE_MAX_CONN_LIFETIME" envDefault:"30m"`

	// Startup retry. The wait grows linearly with the attempt number.
	RetryAttempts int           `env:"DATABASE_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval time.Duration `env:"DATABASE_RETRY_INTERVAL" envDefault:"5s"`

	// Pool size bounds.
	MaxOpenConns int32 `env:"DATABASE_MAX_OPEN_CONNS" envDefault:"10"`
	MinConns     int32 `env:"DATABASE_MIN_CONNS" envDefault:"5"`
}
