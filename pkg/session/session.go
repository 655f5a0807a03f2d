// Package session provides the session record and the stores that hold
// authenticated sessions between requests.
//
// A session is pinned to the client address observed when it was
// created: the gateway treats a store hit whose recorded address differs
// from the presenting client as no session at all. There is no
// time-based expiry at the gateway layer; age and capacity eviction
// belong to the store.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/flowdeck/pkg/user"
)

// Session correlates a client with an authenticated user.
type Session struct {
	Token     string     `json:"token"`
	IP        string     `json:"ip"`
	User      *user.User `json:"user"`
	CreatedAt time.Time  `json:"created_at"`
}

// New creates a session for the given user, pinned to ip. The token is
// an opaque random identifier.
func New(u *user.User, ip string) *Session {
	return &Session{
		Token:     uuid.NewString(),
		IP:        ip,
		User:      u,
		CreatedAt: time.Now(),
	}
}

// UserID returns the owning user's id, or "" for a malformed session.
func (s *Session) UserID() string {
	if s == nil || s.User == nil {
		return ""
	}
	return s.User.ID
}
