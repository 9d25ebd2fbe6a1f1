// Package di provides dependency injection factories for creating application components.
package di

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"userapi/internal/feature/users/adapters"
	"userapi/internal/feature/users/usecase"
	"userapi/internal/platform/cache"
	"userapi/internal/platform/config"
)

// NewUserRepository creates the user repository stack.
// When Redis is available, the GORM repository is wrapped with the caching
// decorator; otherwise the plain repository is returned.
func NewUserRepository(rdb *redis.Client, db *gorm.DB, cfg config.Config) usecase.UserRepository {
	repo := adapters.NewUserGorm(db)
	if rdb == nil {
		return repo
	}
	return cache.NewCachingUserRepository(rdb, cfg.CacheTTL, repo, "users")
}
