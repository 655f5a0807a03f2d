package user

import (
	"context"
	"fmt"
	"os"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// fileDocument is the on-disk layout of the YAML user registry.
type fileDocument struct {
	Users []fileUser `yaml:"users"`
	Roles []Role     `yaml:"roles"`
}

type fileUser struct {
	User     `yaml:",inline"`
	Password string `yaml:"password"` // bcrypt hash
}

// FileManager is a Manager backed by a YAML file loaded once at
// start-up. Suited to small deployments; the Postgres manager serves
// shared installations.
type FileManager struct {
	users map[string]fileUser
	roles map[string]*Role
	mu    sync.RWMutex
	path  string
}

// NewFileManager loads the registry from path.
func NewFileManager(path string) (*FileManager, error) {
	m := &FileManager{path: path}
	if err := m.Reload(); err != nil {
		return nil, err
	}
	return m, nil
}

// Reload re-reads the registry file. Safe to call while requests are in
// flight.
func (m *FileManager) Reload() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("user: read registry: %w", err)
	}

	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("user: parse registry: %w", err)
	}

	users := make(map[string]fileUser, len(doc.Users))
	for _, u := range doc.Users {
		users[u.ID] = u
	}
	roles := make(map[string]*Role, len(doc.Roles))
	for i := range doc.Roles {
		roles[doc.Roles[i].Name] = &doc.Roles[i]
	}

	m.mu.Lock()
	m.users = users
	m.roles = roles
	m.mu.Unlock()
	return nil
}

// Authenticate implements Manager.
func (m *FileManager) Authenticate(_ context.Context, username, password string) (*User, error) {
	m.mu.RLock()
	u, ok := m.users[username]
	m.mu.RUnlock()
	if !ok {
		// Burn a comparison anyway so unknown users cost the same as
		// known users with a wrong password.
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$0000000000000000000000uGZwLx3aXPB7rjMLlXIrLMJfPpdD2Fa"), []byte(password))
		return nil, ErrAuthentication
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, ErrAuthentication
	}
	out := u.User
	return &out, nil
}

// Role implements Manager and RoleResolver.
func (m *FileManager) Role(name string) (*Role, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.roles[name]
	return r, ok
}
