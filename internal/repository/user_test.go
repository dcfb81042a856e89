package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"inkwell/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	tests := []struct {
		name         string
		userID       uint
		mockBehavior func()
		wantUsername string
		wantCode     string
	}{
		{
			name:   "Success",
			userID: 1,
			mockBehavior: func() {
				rows := sqlmock.NewRows([]string{"id", "username", "email", "role"}).
					AddRow(1, "testuser", "test@example.com", "author")
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 AND "users"."deleted_at" IS NULL ORDER BY "users"."id" LIMIT $2`)).
					WithArgs(1, 1).
					WillReturnRows(rows)
			},
			wantUsername: "testuser",
		},
		{
			name:   "Not Found",
			userID: 99,
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
					WithArgs(99, 1).
					WillReturnError(gorm.ErrRecordNotFound)
			},
			wantCode: models.CodeNotFound,
		},
		{
			name:   "Database Error",
			userID: 2,
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
					WithArgs(2, 1).
					WillReturnError(errors.New("connection timeout"))
			},
			wantCode: models.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			user, err := repo.GetByID(ctx, tt.userID)

			if tt.wantCode != "" {
				assert.Nil(t, user)
				assert.True(t, models.HasCode(err, tt.wantCode), "got %v", err)
			} else if assert.NoError(t, err) {
				assert.Equal(t, tt.wantUsername, user.Username)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_Create_UniqueViolationIsConflict(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.User{Username: "dup", Email: "dup@example.com", Password: "x", Role: models.RoleAuthor})
	assert.True(t, models.HasCode(err, models.CodeConflict), "got %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueConstraintError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"pg unique", &pgconn.PgError{Code: "23505"}, true},
		{"pg other", &pgconn.PgError{Code: "23503"}, false},
		{"wrapped pg", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), true},
		{"gorm duplicated", gorm.ErrDuplicatedKey, true},
		{"sqlite message", errors.New("UNIQUE constraint failed: users.email"), true},
		{"other", errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueConstraintError(tt.err))
		})
	}
}

func TestContainsPattern_EscapesWildcards(t *testing.T) {
	t.Parallel()
	assert.Equal(t, `%hello%`, containsPattern("HeLLo"))
	assert.Equal(t, `%50\%\_off%`, containsPattern("50%_off"))
	assert.Equal(t, `%a\\b%`, containsPattern(`a\b`))
}

func TestUserRepository_SQLite(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	alice := createUser(t, db, "Alice_Writer")
	bob := createUser(t, db, "bob")
	createUser(t, db, "carol100%")

	t.Run("duplicate email is conflict", func(t *testing.T) {
		err := repo.Create(ctx, &models.User{Username: "alice2", Email: alice.Email, Password: "x", Role: models.RoleAuthor})
		assert.True(t, models.HasCode(err, models.CodeConflict), "got %v", err)
	})

	t.Run("lookups", func(t *testing.T) {
		u, err := repo.GetByEmail(ctx, "ALICE_WRITER@example.com")
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, alice.ID, u.ID)
		assert.Equal(t, "hash", u.Password)

		u, err = repo.GetByUsername(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, u)
	})

	t.Run("username search ignores case and escapes wildcards", func(t *testing.T) {
		ids, err := repo.FindIDsByUsernameLike(ctx, "WRITER")
		require.NoError(t, err)
		assert.Equal(t, []uint{alice.ID}, ids)

		ids, err = repo.FindIDsByUsernameLike(ctx, "%")
		require.NoError(t, err)
		assert.Len(t, ids, 1)

		ids, err = repo.FindIDsByUsernameLike(ctx, "zzz")
		require.NoError(t, err)
		assert.NotNil(t, ids)
		assert.Empty(t, ids)
	})

	t.Run("update keeps untouched columns", func(t *testing.T) {
		name := "bobby"
		require.NoError(t, repo.Update(ctx, bob.ID, UserChanges{Username: &name}))

		var got models.User
		require.NoError(t, db.First(&got, bob.ID).Error)
		assert.Equal(t, "bobby", got.Username)
		assert.Equal(t, "hash", got.Password)

		taken := alice.Username
		err := repo.Update(ctx, bob.ID, UserChanges{Username: &taken})
		assert.True(t, models.HasCode(err, models.CodeConflict), "got %v", err)
	})

	t.Run("set role and list by role", func(t *testing.T) {
		require.NoError(t, repo.SetRole(ctx, bob.ID, models.RoleAdmin))
		admins, err := repo.ListByRole(ctx, models.RoleAdmin)
		require.NoError(t, err)
		require.Len(t, admins, 1)
		assert.Equal(t, bob.ID, admins[0].ID)

		err = repo.SetRole(ctx, 999, models.RoleAdmin)
		assert.True(t, models.HasCode(err, models.CodeNotFound))
	})

	t.Run("list and delete", func(t *testing.T) {
		users, total, err := repo.List(ctx, 2, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, users, 2)

		require.NoError(t, repo.Delete(ctx, alice.ID))
		_, err = repo.GetByID(ctx, alice.ID)
		assert.True(t, models.HasCode(err, models.CodeNotFound))

		err = repo.Delete(ctx, alice.ID)
		assert.True(t, models.HasCode(err, models.CodeNotFound))

		_, total, err = repo.List(ctx, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("deleted account frees username and email", func(t *testing.T) {
		again := &models.User{Username: alice.Username, Email: alice.Email, Password: "hash2", Role: models.RoleAuthor}
		require.NoError(t, repo.Create(ctx, again))
		assert.NotEqual(t, alice.ID, again.ID)

		u, err := repo.GetByEmail(ctx, alice.Email)
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, again.ID, u.ID)

		dup := &models.User{Username: alice.Username, Email: "other@example.com", Password: "x", Role: models.RoleAuthor}
		err = repo.Create(ctx, dup)
		assert.True(t, models.HasCode(err, models.CodeConflict), "got %v", err)
	})
}
