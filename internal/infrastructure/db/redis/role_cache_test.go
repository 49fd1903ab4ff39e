package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/turismo/turismo-api/internal/core/domain"
)

func newTestCache(t *testing.T, ttl time.Duration) (*RoleCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRoleCache(client, ttl), mr
}

func TestRoleCache_SetGet(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	if _, ok, err := cache.Get(ctx, "admin"); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	role := &domain.Role{
		ID:          "r1",
		Name:        "admin",
		Title:       "Administrator",
		Permissions: []domain.Permission{{Name: "users.manage"}},
	}
	if err := cache.Set(ctx, role); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("role:admin") {
		t.Fatalf("expected key role:admin")
	}

	got, ok, err := cache.Get(ctx, "admin")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got.ID != "r1" || got.Title != "Administrator" || len(got.Permissions) != 1 {
		t.Fatalf("unexpected role: %+v", got)
	}
}

func TestRoleCache_Expires(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()
	_ = cache.Set(ctx, &domain.Role{Name: "regular"})

	mr.FastForward(2 * time.Minute)

	if _, ok, _ := cache.Get(ctx, "regular"); ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestRoleCache_Invalidate(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	ctx := context.Background()
	_ = cache.Set(ctx, &domain.Role{Name: "admin"})
	_ = cache.Set(ctx, &domain.Role{Name: "regular"})

	if err := cache.Invalidate(ctx, "admin", "missing"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, ok, _ := cache.Get(ctx, "admin"); ok {
		t.Fatalf("expected admin to be invalidated")
	}
	if _, ok, _ := cache.Get(ctx, "regular"); !ok {
		t.Fatalf("expected regular to survive")
	}
}

func TestRoleCache_CorruptEntryIsMiss(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	_ = mr.Set("role:admin", "{not json")

	if _, ok, err := cache.Get(context.Background(), "admin"); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
}

func TestRoleCache_ServerDown(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	mr.Close()

	if _, _, err := cache.Get(context.Background(), "admin"); err == nil {
		t.Fatalf("expected error when redis is unavailable")
	}
}
