// Package user provides caller identity, credential verification, and
// the role/permission model consulted by authorization checks.
package user

// Permission is a named permission granted to a role or directly on a
// resource.
type Permission string

// Built-in permissions. Admin overrides every other permission check.
const (
	Admin    Permission = "ADMIN"
	Read     Permission = "READ"
	Write    Permission = "WRITE"
	Execute  Permission = "EXECUTE"
	Schedule Permission = "SCHEDULE"
)

// User is an authenticated caller.
type User struct {
	ID    string   `json:"id" yaml:"username"`
	Email string   `json:"email,omitempty" yaml:"email,omitempty"`
	Roles []string `json:"roles,omitempty" yaml:"roles,omitempty"`
}

// Role is a named set of permissions.
type Role struct {
	Name        string       `json:"name" yaml:"name"`
	Permissions []Permission `json:"permissions" yaml:"permissions"`
}

// Has reports whether the role carries the given permission.
func (r *Role) Has(p Permission) bool {
	if r == nil {
		return false
	}
	for _, rp := range r.Permissions {
		if rp == p {
			return true
		}
	}
	return false
}

// Grants is the resource-level permission surface consulted before role
// checks. Resources (projects, flows) grant permissions to individual
// users directly.
type Grants interface {
	// HasPermission reports whether the resource grants p to u directly.
	HasPermission(u *User, p Permission) bool
}

// RoleResolver resolves role names to Role definitions. Manager
// implementations satisfy it.
type RoleResolver interface {
	Role(name string) (*Role, bool)
}

// HasPermission reports whether u may exercise p on the given resource.
// Access is granted if the resource grants p directly, or if any of the
// user's roles carries p or the Admin override.
func HasPermission(resource Grants, roles RoleResolver, u *User, p Permission) bool {
	if u == nil {
		return false
	}
	if resource != nil && resource.HasPermission(u, p) {
		return true
	}
	if roles == nil {
		return false
	}
	for _, name := range u.Roles {
		role, ok := roles.Role(name)
		if !ok {
			continue
		}
		if role.Has(p) || role.Has(Admin) {
			return true
		}
	}
	return false
}
