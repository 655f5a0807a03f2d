package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrymomot/flowdeck/pkg/user"
)

func TestNewSession(t *testing.T) {
	u := &user.User{ID: "alice"}
	s := New(u, "10.0.0.5")

	if s.Token == "" {
		t.Error("Token is empty")
	}
	if s.IP != "10.0.0.5" {
		t.Errorf("IP = %q, want %q", s.IP, "10.0.0.5")
	}
	if s.UserID() != "alice" {
		t.Errorf("UserID() = %q, want %q", s.UserID(), "alice")
	}
	if s.CreatedAt.IsZero() {
		t.Error("CreatedAt is zero")
	}

	s2 := New(u, "10.0.0.5")
	if s.Token == s2.Token {
		t.Error("two sessions share a token")
	}
}

func TestMemoryPutGetDelete(t *testing.T) {
	store := NewMemory(WithCleanupInterval(0))
	defer store.Close()
	ctx := context.Background()

	s := New(&user.User{ID: "alice"}, "10.0.0.5")
	if err := store.Put(ctx, s); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.Get(ctx, s.Token)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.UserID() != "alice" || got.IP != "10.0.0.5" {
		t.Errorf("Get returned wrong record: %+v", got)
	}

	if err := store.Delete(ctx, s.Token); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, s.Token); err != ErrNotFound {
		t.Errorf("Get after Delete: err = %v, want ErrNotFound", err)
	}

	// Deleting an absent token is not an error.
	if err := store.Delete(ctx, "ghost"); err != nil {
		t.Errorf("Delete(absent) = %v, want nil", err)
	}
}

func TestMemoryAgeEviction(t *testing.T) {
	store := NewMemory(WithMaxAge(10*time.Millisecond), WithCleanupInterval(0))
	defer store.Close()
	ctx := context.Background()

	s := New(&user.User{ID: "alice"}, "10.0.0.5")
	if err := store.Put(ctx, s); err != nil {
		t.Fatalf("Put: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	if _, err := store.Get(ctx, s.Token); err != ErrNotFound {
		t.Errorf("Get expired: err = %v, want ErrNotFound", err)
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d after expiry access, want 0", store.Len())
	}
}

func TestMemoryCapacityEviction(t *testing.T) {
	store := NewMemory(WithMaxEntries(2), WithCleanupInterval(0))
	defer store.Close()
	ctx := context.Background()

	first := New(&user.User{ID: "a"}, "10.0.0.1")
	second := New(&user.User{ID: "b"}, "10.0.0.2")
	third := New(&user.User{ID: "c"}, "10.0.0.3")

	_ = store.Put(ctx, first)
	_ = store.Put(ctx, second)

	// Touch first so second becomes least recently used.
	if _, err := store.Get(ctx, first.Token); err != nil {
		t.Fatalf("Get: %v", err)
	}

	_ = store.Put(ctx, third)

	if _, err := store.Get(ctx, second.Token); err != ErrNotFound {
		t.Errorf("LRU session survived eviction: err = %v", err)
	}
	if _, err := store.Get(ctx, first.Token); err != nil {
		t.Errorf("recently used session evicted: %v", err)
	}
	if store.Len() != 2 {
		t.Errorf("Len() = %d, want 2", store.Len())
	}
}

func TestMemoryPutAfterClose(t *testing.T) {
	store := NewMemory(WithCleanupInterval(0))
	_ = store.Close()

	err := store.Put(context.Background(), New(&user.User{ID: "a"}, "10.0.0.1"))
	if err != ErrClosed {
		t.Errorf("Put after Close: err = %v, want ErrClosed", err)
	}
}

func TestMemoryConcurrentSameToken(t *testing.T) {
	store := NewMemory(WithCleanupInterval(0))
	defer store.Close()
	ctx := context.Background()

	s := New(&user.User{ID: "alice"}, "10.0.0.5")
	_ = store.Put(ctx, s)

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Put(ctx, s)
			got, err := store.Get(ctx, s.Token)
			if err == nil && got.Token != s.Token {
				t.Errorf("observed torn record: %+v", got)
			}
		}()
	}
	wg.Wait()
}
