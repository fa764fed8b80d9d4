// Package bootstrap wires shared runtime dependencies for the server and
// worker processes.
package bootstrap

import (
	"fmt"
	"strings"

	"murmur/internal/cache"
	"murmur/internal/config"
	"murmur/internal/database"
	"murmur/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedDemoData bool
	NumSeedUsers int
	NumSeedPosts int
}

// InitRuntime connects to the database and Redis and optionally seeds demo data.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedDemoData && strings.EqualFold(cfg.Env, "development") {
		numUsers := opts.NumSeedUsers
		if numUsers <= 0 {
			numUsers = 20
		}
		numPosts := opts.NumSeedPosts
		if numPosts <= 0 {
			numPosts = 100
		}
		if err := seed.Seed(db, seed.Options{NumUsers: numUsers, NumPosts: numPosts}); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return db, r, nil
}
