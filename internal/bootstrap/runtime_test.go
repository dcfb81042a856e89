package bootstrap

import (
	"context"
	"testing"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	service.PasswordCost = bcrypt.MinCost
}

func setupDB(t *testing.T, name string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func TestEnsureRootAdmin_Disabled(t *testing.T) {
	db := setupDB(t, "root_disabled")
	users := repository.NewUserRepository(db)

	require.NoError(t, EnsureRootAdmin(context.Background(), &config.Config{RootAdminEmail: "root@example.com"}, users))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestEnsureRootAdmin_CreatesOnce(t *testing.T) {
	db := setupDB(t, "root_creates")
	users := repository.NewUserRepository(db)
	cfg := &config.Config{RootAdminEmail: " Root@Example.com ", RootAdminPassword: "s3cret-pass"}

	// Squat the preferred username so the fallback is used.
	require.NoError(t, db.Create(&models.User{Username: "admin", Email: "other@example.com", Password: "x", Role: models.RoleAuthor}).Error)

	ctx := context.Background()
	require.NoError(t, EnsureRootAdmin(ctx, cfg, users))
	require.NoError(t, EnsureRootAdmin(ctx, cfg, users))

	root, err := users.GetByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	require.NotNil(t, root)
	assert.Equal(t, models.RoleAdmin, root.Role)
	assert.Equal(t, "admin_1", root.Username)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(root.Password), []byte("s3cret-pass")))

	admins, err := users.ListByRole(ctx, models.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, admins, 1)
}

func TestEnsureRootAdmin_PromotesExisting(t *testing.T) {
	db := setupDB(t, "root_promotes")
	users := repository.NewUserRepository(db)
	require.NoError(t, db.Create(&models.User{Username: "founder", Email: "root@example.com", Password: "keep", Role: models.RoleAuthor}).Error)

	ctx := context.Background()
	require.NoError(t, EnsureRootAdmin(ctx, &config.Config{RootAdminEmail: "root@example.com", RootAdminPassword: "ignored"}, users))

	root, err := users.GetByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, root.Role)
	assert.Equal(t, "keep", root.Password)
}

func TestEnsureRootAdmin_AfterDeletedAccount(t *testing.T) {
	db := setupDB(t, "root_after_delete")
	users := repository.NewUserRepository(db)
	old := &models.User{Username: "admin", Email: "root@example.com", Password: "x", Role: models.RoleAdmin}
	require.NoError(t, db.Create(old).Error)

	ctx := context.Background()
	require.NoError(t, users.Delete(ctx, old.ID))
	require.NoError(t, EnsureRootAdmin(ctx, &config.Config{RootAdminEmail: "root@example.com", RootAdminPassword: "s3cret-pass"}, users))

	root, err := users.GetByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	require.NotNil(t, root)
	assert.NotEqual(t, old.ID, root.ID)
	assert.Equal(t, "admin", root.Username)
	assert.Equal(t, models.RoleAdmin, root.Role)
}
