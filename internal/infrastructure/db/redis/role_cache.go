package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turismo/turismo-api/internal/core/domain"
)

const defaultRoleTTL = 10 * time.Minute

// RoleCache caches roles by name as JSON.
// Key format: role:<name>
type RoleCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRoleCache creates a RoleCache wrapping the given Redis client. A
// non-positive ttl falls back to defaultRoleTTL.
func NewRoleCache(client *redis.Client, ttl time.Duration) *RoleCache {
	if ttl <= 0 {
		ttl = defaultRoleTTL
	}
	return &RoleCache{client: client, ttl: ttl}
}

// Get returns the cached role, reporting false on a miss.
func (c *RoleCache) Get(ctx context.Context, name string) (*domain.Role, bool, error) {
	raw, err := c.client.Get(ctx, c.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("role cache get: %w", err)
	}

	var role domain.Role
	if err := json.Unmarshal(raw, &role); err != nil {
		// Undecodable entries are treated as misses and overwritten on the next Set.
		return nil, false, nil
	}
	return &role, true, nil
}

// Set stores role under its name for the cache TTL.
func (c *RoleCache) Set(ctx context.Context, role *domain.Role) error {
	raw, err := json.Marshal(role)
	if err != nil {
		return fmt.Errorf("role cache encode: %w", err)
	}
	if err := c.client.Set(ctx, c.key(role.Name), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("role cache set: %w", err)
	}
	return nil
}

// Invalidate drops the entries for names.
func (c *RoleCache) Invalidate(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	keys := make([]string, 0, len(names))
	for _, n := range names {
		keys = append(keys, c.key(n))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("role cache invalidate: %w", err)
	}
	return nil
}

func (c *RoleCache) key(name string) string {
	return "role:" + name
}
