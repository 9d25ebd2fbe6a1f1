// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"userapi/internal/feature/users/domain/entity"
	"userapi/internal/feature/users/usecase"
)

// CachingUserRepository decorates a UserRepository with Redis caching.
// Only FindByID and FindAll are cached; ExistsByEmail and FindByEmail back
// the uniqueness pre-check and login and must never serve stale data, so
// they always pass through. Every write invalidates the whole namespace.
type CachingUserRepository struct {
	inner     usecase.UserRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// Compile-time check that the decorator satisfies the repository contract.
var _ usecase.UserRepository = (*CachingUserRepository)(nil)

// NewCachingUserRepository decorates a UserRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "users".
func NewCachingUserRepository(rdb *redis.Client, ttl time.Duration, inner usecase.UserRepository, namespace string) *CachingUserRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "users"
	}
	return &CachingUserRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// ExistsByEmail always queries the underlying repository.
func (c *CachingUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return c.inner.ExistsByEmail(ctx, email)
}

// FindByEmail always queries the underlying repository.
func (c *CachingUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return c.inner.FindByEmail(ctx, email)
}

// FindByID retrieves a user, checking the cache first then falling back to
// the database.
func (c *CachingUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if c.rdb == nil {
		return c.inner.FindByID(ctx, id)
	}

	key := c.idKey(id)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.User
		if err := json.Unmarshal(b, &out); err == nil {
			return &out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// FindAll retrieves every user, checking the cache first then falling back
// to the database.
func (c *CachingUserRepository) FindAll(ctx context.Context) ([]entity.User, error) {
	if c.rdb == nil {
		return c.inner.FindAll(ctx)
	}

	key := c.allKey()

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.User
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		_ = c.rdb.Del(ctx, key).Err()
	}

	out, err := c.inner.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// Create persists a new user and invalidates the cache namespace.
func (c *CachingUserRepository) Create(ctx context.Context, user *entity.User) error {
	if err := c.inner.Create(ctx, user); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// Update persists the user and invalidates the cache namespace.
func (c *CachingUserRepository) Update(ctx context.Context, user *entity.User) error {
	if err := c.inner.Update(ctx, user); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// ExistsByID always queries the underlying repository.
func (c *CachingUserRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	return c.inner.ExistsByID(ctx, id)
}

// DeleteByID removes the user and invalidates the cache namespace.
func (c *CachingUserRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if err := c.inner.DeleteByID(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// invalidate deletes all cache keys in the namespace. Best effort: a failed
// cache deletion never fails the write it follows.
func (c *CachingUserRepository) invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	_ = c.deleteByPattern(ctx, c.namespace+":*")
}

// idKey generates the cache key for a single user.
func (c *CachingUserRepository) idKey(id uuid.UUID) string {
	return fmt.Sprintf("%s:id:%s", c.namespace, id)
}

// allKey generates the cache key for the full user list.
func (c *CachingUserRepository) allKey() string {
	return c.namespace + ":all"
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingUserRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}
