// Package db wires the Postgres user store into the server: a pgx pool
// with startup retry, goose migrations, a readiness check, and a shutdown
// hook. Configuration comes from DATABASE_* environment variables via
// [Config].
//
// Typical startup for the postgres user backend:
//
//	cfg := db.Config{}
//	if err := env.Parse(&cfg); err != nil {
//		return err
//	}
//	pool, err := db.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	if err := db.Migrate(ctx, pool, user.Migrations, cfg.MigrationsTable, log); err != nil {
//		return err
//	}
//
// Register the pool with the server lifecycle:
//
//	flowdeck.WithReadinessCheck("postgres", db.Healthcheck(pool))
//	flowdeck.ShutdownHook(db.Shutdown(pool))
//
// Multi-statement writes, such as account provisioning, run under
// [WithTx], which rolls back on error or panic.
//
// Sentinel errors ([ErrParseConfig], [ErrOpenConnection], [ErrHealthcheck],
// [ErrSetDialect], [ErrApplyMigrations]) are joined with the underlying
// cause so callers can test with errors.Is.
package db
