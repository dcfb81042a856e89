package seed

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/service"

	"github.com/brianvoe/gofakeit/v6"
)

// DefaultPassword is given to every generated user.
const DefaultPassword = "password123"

var nonUsernameChars = regexp.MustCompile(`[^a-z0-9]+`)

// Factory builds domain entities and persists them through the repositories.
// In DryRun mode nothing is written and synthetic IDs are handed out instead.
type Factory struct {
	users    repository.UserRepository
	blogs    repository.BlogRepository
	comments repository.CommentRepository
	opts     Options
	faker    *gofakeit.Faker

	passwordHash string
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a Factory writing through the given repositories.
func NewFactory(users repository.UserRepository, blogs repository.BlogRepository, comments repository.CommentRepository, opts Options) *Factory {
	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{
		users:    users,
		blogs:    blogs,
		comments: comments,
		opts:     opts,
		faker:    gofakeit.New(seed),
		nextID:   1000,
	}
}

func (f *Factory) syntheticID() uint {
	f.nextID++
	return f.nextID
}

func (f *Factory) hash(password string) (string, error) {
	if password == "" || password == DefaultPassword {
		if f.passwordHash == "" {
			h, err := service.HashPassword(DefaultPassword)
			if err != nil {
				return "", err
			}
			f.passwordHash = h
		}
		return f.passwordHash, nil
	}
	return service.HashPassword(password)
}

// fakeUsername returns a lowercase name made of letters and digits, suffixed
// with n so generated names never collide within one run.
func (f *Factory) fakeUsername(n int) string {
	base := nonUsernameChars.ReplaceAllString(strings.ToLower(f.faker.FirstName()+f.faker.LastName()), "")
	if len(base) > 20 {
		base = base[:20]
	}
	if len(base) < 3 {
		base = "writer"
	}
	return fmt.Sprintf("%s%d", base, n)
}

// BuildUser returns an unsaved author with a fake identity.
func (f *Factory) BuildUser(n int, overrides ...func(*models.User)) *models.User {
	username := f.fakeUsername(n)
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Role:     models.RoleAuthor,
	}
	for _, override := range overrides {
		override(user)
	}
	return user
}

// CreateUser persists user, hashing password (DefaultPassword when empty).
func (f *Factory) CreateUser(ctx context.Context, user *models.User, password string) (*models.User, error) {
	hash, err := f.hash(password)
	if err != nil {
		return nil, err
	}
	user.Password = hash
	if user.Role == "" {
		user.Role = models.RoleAuthor
	}
	if f.opts.DryRun {
		user.ID = f.syntheticID()
		return user, nil
	}
	if err := f.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// BuildBlog returns an unsaved blog by author with a realistic created_at
// spread over the last MaxDays days and three tags.
func (f *Factory) BuildBlog(author *models.User, overrides ...func(*models.Blog)) *models.Blog {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.faker.Number(0, maxDays*24*60)) * time.Minute

	blog := &models.Blog{
		Title:     strings.TrimSuffix(f.faker.Sentence(5), "."),
		Content:   f.faker.Paragraph(2, 4, 12, "\n\n"),
		Language:  models.DefaultLanguage,
		UserID:    author.ID,
		Tags:      []string{f.faker.HipsterWord(), f.faker.BuzzWord(), f.faker.Hobby()},
		CreatedAt: time.Now().Add(-back),
	}
	for _, override := range overrides {
		override(blog)
	}
	return blog
}

// CreateBlog persists blog with its Tags.
func (f *Factory) CreateBlog(ctx context.Context, blog *models.Blog) (*models.Blog, error) {
	if f.opts.DryRun {
		blog.ID = f.syntheticID()
		return blog, nil
	}
	if err := f.blogs.Create(ctx, blog, blog.Tags); err != nil {
		return nil, err
	}
	return blog, nil
}

// CreateComment persists a comment by author on blog; parent may be nil.
func (f *Factory) CreateComment(ctx context.Context, author *models.User, blog *models.Blog, parent *models.Comment, content string) (*models.Comment, error) {
	comment := &models.Comment{
		Content: content,
		BlogID:  blog.ID,
		UserID:  author.ID,
	}
	if parent != nil {
		comment.ParentCommentID = &parent.ID
	}
	if f.opts.DryRun {
		comment.ID = f.syntheticID()
		return comment, nil
	}
	if err := f.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Like adds user's like to blog.
func (f *Factory) Like(ctx context.Context, user *models.User, blog *models.Blog) error {
	if f.opts.DryRun {
		return nil
	}
	_, _, err := f.blogs.ToggleLike(ctx, blog.ID, user.ID)
	return err
}
