package service

import (
	"context"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt cost for new hashes.
var PasswordCost = bcrypt.DefaultCost

const invalidCredentials = "Invalid email or password"

type UserService struct {
	users repository.UserRepository
	guard Guard
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileInput carries the fields a user may change on their own account.
type UpdateProfileInput struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// UserPage is one page of the admin user listing.
type UserPage struct {
	Users []models.User `json:"users"`
	Page  int           `json:"page"`
	Pages int           `json:"pages"`
	Total int64         `json:"total"`
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// HashPassword hashes a plaintext password at PasswordCost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return string(hash), nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// Register creates an author account.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (user *models.User, err error) {
	defer func() {
		outcome := "success"
		if err != nil {
			outcome = "failure"
		}
		observability.AuthEvents.WithLabelValues("register", outcome).Inc()
	}()

	username := strings.TrimSpace(in.Username)
	email := validation.NormalizeEmail(in.Email)
	if username == "" || email == "" || in.Password == "" {
		return nil, models.NewValidationError("Username, email, and password are required")
	}
	if err := validation.ValidateUsername(username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := s.ensureAvailable(ctx, 0, &username, &email); err != nil {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user = &models.User{
		Username: username,
		Email:    email,
		Password: hash,
		Role:     models.RoleAuthor,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ensureAvailable reports a conflict when username or email belongs to a user other than selfID.
func (s *UserService) ensureAvailable(ctx context.Context, selfID uint, username, email *string) error {
	if email != nil {
		existing, err := s.users.GetByEmail(ctx, *email)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != selfID {
			return models.NewConflictError("Email already registered")
		}
	}
	if username != nil {
		existing, err := s.users.GetByUsername(ctx, *username)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != selfID {
			return models.NewConflictError("Username already taken")
		}
	}
	return nil
}

// Login checks credentials. Unknown email and wrong password fail identically.
func (s *UserService) Login(ctx context.Context, in LoginInput) (user *models.User, err error) {
	defer func() {
		outcome := "success"
		if err != nil {
			outcome = "failure"
		}
		observability.AuthEvents.WithLabelValues("login", outcome).Inc()
	}()

	if in.Email == "" || in.Password == "" {
		return nil, models.NewValidationError("Email and password are required")
	}
	user, err = s.users.GetByEmail(ctx, validation.NormalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError(invalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, models.NewUnauthorizedError(invalidCredentials)
	}
	return user, nil
}

// UpdateProfile changes the caller's own username, email or password.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*models.User, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	var changes repository.UserChanges
	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if err := validation.ValidateUsername(username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		changes.Username = &username
	}
	if in.Email != nil {
		email := validation.NormalizeEmail(*in.Email)
		if err := validation.ValidateEmail(email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		changes.Email = &email
	}
	if in.Password != nil {
		if err := validation.ValidatePassword(*in.Password); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		hash, err := HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		changes.PasswordHash = &hash
	}

	if err := s.ensureAvailable(ctx, userID, changes.Username, changes.Email); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, userID, changes); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}

// ListUsers returns a newest-first page of users. Admin only.
func (s *UserService) ListUsers(ctx context.Context, actor Actor, pageNumber int) (*UserPage, error) {
	if err := s.guard.RequireAdmin(actor); err != nil {
		return nil, err
	}
	page, size := normalizePage(pageNumber, DefaultPageSize, DefaultPageSize)
	users, total, err := s.users.List(ctx, size, size*(page-1))
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return &UserPage{
		Users: users,
		Page:  page,
		Pages: pageCount(total, size),
		Total: total,
	}, nil
}

// DeleteUser soft deletes an author account. Admin accounts are protected.
func (s *UserService) DeleteUser(ctx context.Context, actor Actor, id uint) error {
	if err := s.guard.RequireAdmin(actor); err != nil {
		return err
	}
	target, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if target.IsAdmin() {
		return models.NewForbiddenError("Admin accounts cannot be deleted")
	}
	return s.users.Delete(ctx, id)
}

// SetRole changes a user's role. Operator tooling only; no HTTP route exposes it.
func (s *UserService) SetRole(ctx context.Context, id uint, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, models.NewValidationError("unknown role " + string(role))
	}
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.users.SetRole(ctx, id, role); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, id)
}

func (s *UserService) ListAdmins(ctx context.Context) ([]models.User, error) {
	return s.users.ListByRole(ctx, models.RoleAdmin)
}
