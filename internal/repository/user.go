package repository

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"inkwell/internal/cache"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/observability"

	"gorm.io/gorm"
)

// UserChanges lists the profile columns an update may touch. Nil fields are left alone.
type UserChanges struct {
	Username     *string
	Email        *string
	PasswordHash *string
}

func (c UserChanges) columns() map[string]interface{} {
	cols := make(map[string]interface{}, 3)
	if c.Username != nil {
		cols["username"] = *c.Username
	}
	if c.Email != nil {
		cols["email"] = *c.Email
	}
	if c.PasswordHash != nil {
		cols["password"] = *c.PasswordHash
	}
	return cols
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	FindIDsByUsernameLike(ctx context.Context, term string) ([]uint, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, id uint, changes UserChanges) error
	SetRole(ctx context.Context, id uint, role models.Role) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, limit, offset int) ([]models.User, int64, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// GetByID is served through the user cache. The cached copy never carries the password hash.
func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	key := cache.UserKey(id)

	err := cache.Aside(ctx, key, &user, cache.UserTTL, func() error {
		defer observability.TrackQuery("select", "users")()
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			return notFoundOr(err, "User", id)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns nil, nil when no user has the address.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email = ?", strings.ToLower(email))
}

// GetByUsername returns nil, nil when the name is free.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *userRepository) findOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	defer observability.TrackQuery("select", "users")()
	var user models.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// FindIDsByUsernameLike returns ids of users whose username contains term, ignoring case.
func (r *userRepository) FindIDsByUsernameLike(ctx context.Context, term string) ([]uint, error) {
	defer observability.TrackQuery("select", "users")()
	ids := make([]uint, 0)
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where(`LOWER(username) LIKE ? ESCAPE '\'`, containsPattern(term)).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	defer observability.TrackQuery("insert", "users")()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("User already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, id uint, changes UserChanges) error {
	cols := changes.columns()
	if len(cols) == 0 {
		return nil
	}
	defer observability.TrackQuery("update", "users")()
	res := r.db.WithContext(ctx).Model(&models.User{ID: id}).Updates(cols)
	if res.Error != nil {
		if isUniqueConstraintError(res.Error) {
			return models.NewConflictError("Username or email already in use")
		}
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	cache.InvalidateUser(ctx, id)
	if _, renamed := cols["username"]; renamed {
		r.invalidateAuthoredBlogs(ctx, id)
	}
	return nil
}

// invalidateAuthoredBlogs drops cached blogs that embed the user as author.
func (r *userRepository) invalidateAuthoredBlogs(ctx context.Context, userID uint) {
	if cache.GetClient() == nil {
		return
	}
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&models.Blog{}).Where("user_id = ?", userID).Pluck("id", &ids).Error; err != nil {
		middleware.Logger.WarnContext(ctx, "failed to list authored blogs for cache invalidation",
			slog.Uint64("user_id", uint64(userID)), slog.String("error", err.Error()))
		return
	}
	cache.InvalidateBlogs(ctx, ids...)
}

func (r *userRepository) SetRole(ctx context.Context, id uint, role models.Role) error {
	defer observability.TrackQuery("update", "users")()
	res := r.db.WithContext(ctx).Model(&models.User{ID: id}).Update("role", role)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	cache.InvalidateUser(ctx, id)
	return nil
}

// Delete soft deletes the user. Their blogs and comments are kept.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "users")()
	res := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	cache.InvalidateUser(ctx, id)
	r.invalidateAuthoredBlogs(ctx, id)
	return nil
}

// List returns a newest-first page of users and the total count.
func (r *userRepository) List(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	defer observability.TrackQuery("select", "users")()
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	users := make([]models.User, 0, limit)
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&users).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return users, total, nil
}

func (r *userRepository) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	defer observability.TrackQuery("select", "users")()
	var users []models.User
	if err := r.db.WithContext(ctx).Where("role = ?", role).Order("id").Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
