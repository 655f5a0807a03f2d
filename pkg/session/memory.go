package session

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// memoryEntry holds a stored session with its expiration time.
type memoryEntry struct {
	expiresAt time.Time // zero value = never expires
	sess      *Session
}

func (e *memoryEntry) isExpired() bool {
	if e.expiresAt.IsZero() {
		return false
	}
	return time.Now().After(e.expiresAt)
}

// Memory is an in-process session store with age-based expiration and
// optional LRU eviction when a maximum entry count is configured.
//
// It uses a hash map for O(1) lookups and a doubly-linked list for O(1)
// LRU ordering. The most recently used sessions are at the front of the
// list; the least recently used are at the back.
type Memory struct {
	items    map[string]*list.Element
	eviction *list.List
	opts     *memoryOptions
	done     chan struct{}
	mu       sync.Mutex
	closed   bool
}

// NewMemory creates an in-process session store.
//
// Example:
//
//	store := session.NewMemory(
//	    session.WithMaxAge(10 * 24 * time.Hour),
//	    session.WithMaxEntries(10000),
//	)
//	defer store.Close()
func NewMemory(opts ...MemoryOption) *Memory {
	o := defaultMemoryOptions()
	for _, opt := range opts {
		opt(o)
	}

	m := &Memory{
		items:    make(map[string]*list.Element),
		eviction: list.New(),
		opts:     o,
		done:     make(chan struct{}),
	}

	if o.cleanupInterval > 0 {
		go m.janitor()
	}

	return m
}

// Get implements Store. Accessing a session marks it as recently used.
func (m *Memory) Get(_ context.Context, token string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.items[token]
	if !ok {
		return nil, ErrNotFound
	}

	e := elem.Value.(*memoryEntry)
	if e.isExpired() {
		m.removeElement(elem)
		return nil, ErrNotFound
	}

	m.eviction.MoveToFront(elem)
	return e.sess, nil
}

// Put implements Store.
func (m *Memory) Put(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	var expiresAt time.Time
	if m.opts.maxAge > 0 {
		expiresAt = time.Now().Add(m.opts.maxAge)
	}

	if elem, ok := m.items[s.Token]; ok {
		e := elem.Value.(*memoryEntry)
		e.sess = s
		e.expiresAt = expiresAt
		m.eviction.MoveToFront(elem)
		return nil
	}

	elem := m.eviction.PushFront(&memoryEntry{sess: s, expiresAt: expiresAt})
	m.items[s.Token] = elem

	if m.opts.maxEntries > 0 && m.eviction.Len() > m.opts.maxEntries {
		if back := m.eviction.Back(); back != nil {
			m.removeElement(back)
		}
	}
	return nil
}

// Delete implements Store.
func (m *Memory) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if elem, ok := m.items[token]; ok {
		m.removeElement(elem)
	}
	return nil
}

// Len returns the number of stored sessions.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eviction.Len()
}

// Close stops the janitor goroutine and drops all sessions.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	close(m.done)
	m.items = make(map[string]*list.Element)
	m.eviction.Init()
	return nil
}

// removeElement deletes an entry. Caller must hold m.mu.
func (m *Memory) removeElement(elem *list.Element) {
	e := elem.Value.(*memoryEntry)
	delete(m.items, e.sess.Token)
	m.eviction.Remove(elem)
}

// janitor periodically sweeps expired sessions.
func (m *Memory) janitor() {
	ticker := time.NewTicker(m.opts.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.mu.Lock()
			for elem := m.eviction.Back(); elem != nil; {
				prev := elem.Prev()
				if elem.Value.(*memoryEntry).isExpired() {
					m.removeElement(elem)
				}
				elem = prev
			}
			m.mu.Unlock()
		}
	}
}

// MemoryOption configures the in-process store.
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	maxAge          time.Duration
	cleanupInterval time.Duration
	maxEntries      int
}

func defaultMemoryOptions() *memoryOptions {
	return &memoryOptions{
		maxAge:          10 * 24 * time.Hour,
		cleanupInterval: time.Minute,
		maxEntries:      0, // 0 = unlimited
	}
}

// WithMaxAge sets how long a session survives in the store before
// age-based eviction. Zero or negative disables age eviction.
// Default: 10 days.
func WithMaxAge(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		o.maxAge = d
	}
}

// WithCleanupInterval sets how often the background janitor sweeps
// expired sessions. Zero disables the janitor (expired sessions are
// still rejected on access).
// Default: 1 minute.
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		o.cleanupInterval = d
	}
}

// WithMaxEntries caps the number of stored sessions. When the cap is
// reached the least recently used session is evicted. Zero means
// unlimited.
// Default: 0 (unlimited).
func WithMaxEntries(n int) MemoryOption {
	return func(o *memoryOptions) {
		o.maxEntries = n
	}
}
