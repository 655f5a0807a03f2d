package user

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/flowdeck/pkg/db"
)

// PostgresManager is a Manager backed by a Postgres user store. Role
// definitions are loaded once at construction; user rows are queried
// per authentication attempt.
type PostgresManager struct {
	pool  *pgxpool.Pool
	roles map[string]*Role
	mu    sync.RWMutex
}

// NewPostgresManager loads role definitions and returns a ready manager.
// The schema ships as goose migrations under pkg/user/migrations.
func NewPostgresManager(ctx context.Context, pool *pgxpool.Pool) (*PostgresManager, error) {
	m := &PostgresManager{pool: pool}
	if err := m.loadRoles(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *PostgresManager) loadRoles(ctx context.Context) error {
	rows, err := m.pool.Query(ctx, `SELECT name, permissions FROM roles`)
	if err != nil {
		return fmt.Errorf("user: load roles: %w", err)
	}
	defer rows.Close()

	roles := make(map[string]*Role)
	for rows.Next() {
		var (
			name  string
			perms []string
		)
		if err := rows.Scan(&name, &perms); err != nil {
			return fmt.Errorf("user: scan role: %w", err)
		}
		r := &Role{Name: name, Permissions: make([]Permission, 0, len(perms))}
		for _, p := range perms {
			r.Permissions = append(r.Permissions, Permission(p))
		}
		roles[name] = r
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("user: load roles: %w", err)
	}

	m.mu.Lock()
	m.roles = roles
	m.mu.Unlock()
	return nil
}

// Authenticate implements Manager.
func (m *PostgresManager) Authenticate(ctx context.Context, username, password string) (*User, error) {
	var (
		u    User
		hash string
	)
	err := m.pool.QueryRow(ctx,
		`SELECT username, COALESCE(email, ''), password_hash, roles FROM users WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Email, &hash, &u.Roles)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAuthentication
		}
		return nil, fmt.Errorf("user: query user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, ErrAuthentication
	}
	return &u, nil
}

// CreateUser provisions an account. Role checks and the insert share one
// transaction so an unknown role name leaves no row behind. An existing
// username is not an error; the row is left untouched and ok is false.
func (m *PostgresManager) CreateUser(ctx context.Context, username, password string, roles []string) (ok bool, err error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("user: hash password: %w", err)
	}

	err = db.WithTx(ctx, m.pool, func(tx pgx.Tx) error {
		for _, name := range roles {
			var one int
			err := tx.QueryRow(ctx, `SELECT 1 FROM roles WHERE name = $1`, name).Scan(&one)
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: role %q", ErrNotFound, name)
			}
			if err != nil {
				return fmt.Errorf("user: check role: %w", err)
			}
		}
		tag, err := tx.Exec(ctx,
			`INSERT INTO users (username, password_hash, roles) VALUES ($1, $2, $3)
			 ON CONFLICT (username) DO NOTHING`,
			username, string(hash), roles,
		)
		if err != nil {
			return fmt.Errorf("user: insert user: %w", err)
		}
		ok = tag.RowsAffected() > 0
		return nil
	})
	return ok, err
}

// Role implements Manager and RoleResolver.
func (m *PostgresManager) Role(name string) (*Role, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.roles[name]
	return r, ok
}

// Healthcheck returns a readiness check function for the backing pool.
func (m *PostgresManager) Healthcheck() func(context.Context) error {
	return func(ctx context.Context) error {
		return m.pool.Ping(ctx)
	}
}
