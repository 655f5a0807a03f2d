package user

import "embed"

// Migrations holds the schema for the Postgres-backed user manager.
// Apply with db.Migrate before constructing a PostgresManager.
//
//go:embed migrations/*.sql
var Migrations embed.FS
