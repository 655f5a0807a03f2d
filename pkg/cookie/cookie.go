package cookie

import (
	"errors"
	"net/http"
)

// ErrNotFound is returned by Get when the request carries no cookie with
// the requested name.
var ErrNotFound = errors.New("cookie: not found")

// Manager writes and reads cookies with a fixed set of attributes, so the
// session cookie is issued identically from every handler. The zero
// attributes come from New: path "/", HttpOnly, SameSite=Lax.
type Manager struct {
	domain   string
	path     string
	secure   bool
	httpOnly bool
	sameSite http.SameSite
}

// Option configures the Manager.
type Option func(*Manager)

// New creates a Manager. Without options the cookies it writes are scoped
// to the whole site and unreadable from scripts.
func New(opts ...Option) *Manager {
	m := &Manager{
		path:     "/",
		httpOnly: true,
		sameSite: http.SameSiteLaxMode,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithDomain scopes written cookies to the given domain.
func WithDomain(domain string) Option {
	return func(m *Manager) { m.domain = domain }
}

// WithPath overrides the default "/" path.
func WithPath(path string) Option {
	return func(m *Manager) { m.path = path }
}

// WithSecure marks written cookies HTTPS-only.
func WithSecure(secure bool) Option {
	return func(m *Manager) { m.secure = secure }
}

// WithHTTPOnly controls script access to written cookies. On by default.
func WithHTTPOnly(httpOnly bool) Option {
	return func(m *Manager) { m.httpOnly = httpOnly }
}

// WithSameSite overrides the default Lax SameSite attribute.
func WithSameSite(ss http.SameSite) Option {
	return func(m *Manager) { m.sameSite = ss }
}

// Get returns the named cookie's value from the request.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrNotFound
		}
		return "", err
	}
	return c.Value, nil
}

// Set writes a cookie with the manager's attributes. maxAge follows
// http.Cookie semantics: 0 means a session cookie, negative deletes.
func (m *Manager) Set(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, m.build(name, value, maxAge))
}

// Delete expires the named cookie. The attributes must match the ones the
// cookie was set with or browsers keep the original.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, m.build(name, "", -1))
}

func (m *Manager) build(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     m.path,
		Domain:   m.domain,
		MaxAge:   maxAge,
		Secure:   m.secure,
		HttpOnly: m.httpOnly,
		SameSite: m.sameSite,
	}
}
