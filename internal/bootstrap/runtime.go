// Package bootstrap wires the process-wide runtime: database, Redis and the
// root administrator account.
package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/service"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const rootAdminUsername = "admin"

// InitRuntime connects to the database (applying the configured schema mode)
// and to Redis. A Redis outage is not fatal; the returned client is nil and
// caching is skipped.
func InitRuntime(cfg *config.Config) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.Configure(time.Duration(cfg.CacheTTLSeconds) * time.Second)
	r := cache.InitRedis(cfg.RedisURL)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := EnsureRootAdmin(ctx, cfg, repository.NewUserRepository(db)); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap root admin: %w", err)
	}

	return db, r, nil
}

// EnsureRootAdmin makes sure the account named by ROOT_ADMIN_EMAIL exists and
// holds the admin role. It does nothing unless both email and password are set.
// An existing account keeps its password.
func EnsureRootAdmin(ctx context.Context, cfg *config.Config, users repository.UserRepository) error {
	email := strings.ToLower(strings.TrimSpace(cfg.RootAdminEmail))
	if email == "" || cfg.RootAdminPassword == "" {
		return nil
	}

	existing, err := users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.Role == models.RoleAdmin {
			return nil
		}
		middleware.Logger.Info("promoting root admin", "user_id", existing.ID)
		return users.SetRole(ctx, existing.ID, models.RoleAdmin)
	}

	hash, err := service.HashPassword(cfg.RootAdminPassword)
	if err != nil {
		return err
	}
	username, err := freeUsername(ctx, users)
	if err != nil {
		return err
	}
	root := &models.User{
		Username: username,
		Email:    email,
		Password: hash,
		Role:     models.RoleAdmin,
	}
	if err := users.Create(ctx, root); err != nil {
		return err
	}
	middleware.Logger.Info("root admin created", "user_id", root.ID, "email", email)
	return nil
}

// freeUsername picks admin, admin_1, admin_2... whichever is not taken.
func freeUsername(ctx context.Context, users repository.UserRepository) (string, error) {
	candidate := rootAdminUsername
	for i := 1; ; i++ {
		u, err := users.GetByUsername(ctx, candidate)
		if err != nil {
			return "", err
		}
		if u == nil {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s_%d", rootAdminUsername, i)
	}
}
