package seed

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/validation"

	"gopkg.in/yaml.v3"
)

// Fixtures is an explicit data set, usually read from a YAML file.
type Fixtures struct {
	Users []UserFixture `yaml:"users"`
	Blogs []BlogFixture `yaml:"blogs"`
}

type UserFixture struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

type BlogFixture struct {
	Title    string           `yaml:"title"`
	Content  string           `yaml:"content"`
	Language string           `yaml:"language"`
	Tags     []string         `yaml:"tags"`
	Author   string           `yaml:"author"`
	Likes    []string         `yaml:"likes"`
	Comments []CommentFixture `yaml:"comments"`
}

// CommentFixture nests replies under their parent.
type CommentFixture struct {
	Author  string           `yaml:"author"`
	Content string           `yaml:"content"`
	Replies []CommentFixture `yaml:"replies"`
}

// LoadFixtures reads and parses a YAML fixture file.
func LoadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return ParseFixtures(data)
}

// ParseFixtures decodes YAML and rejects unknown keys.
func ParseFixtures(data []byte) (*Fixtures, error) {
	var fx Fixtures
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &fx, nil
}

// Validate checks every entry against the same rules the API applies.
func (fx *Fixtures) Validate() error {
	known := make(map[string]bool, len(fx.Users))
	for i, u := range fx.Users {
		if err := validation.ValidateUsername(u.Username); err != nil {
			return fmt.Errorf("users[%d]: %w", i, err)
		}
		if err := validation.ValidateEmail(validation.NormalizeEmail(u.Email)); err != nil {
			return fmt.Errorf("users[%d]: %w", i, err)
		}
		if u.Password != "" {
			if err := validation.ValidatePassword(u.Password); err != nil {
				return fmt.Errorf("users[%d]: %w", i, err)
			}
		}
		if u.Role != "" && !models.Role(u.Role).Valid() {
			return fmt.Errorf("users[%d]: unknown role %q", i, u.Role)
		}
		if known[u.Username] {
			return fmt.Errorf("users[%d]: duplicate username %q", i, u.Username)
		}
		known[u.Username] = true
	}

	for i, b := range fx.Blogs {
		if !known[b.Author] {
			return fmt.Errorf("blogs[%d]: unknown author %q", i, b.Author)
		}
		if err := validation.ValidateTitle(b.Title); err != nil {
			return fmt.Errorf("blogs[%d]: %w", i, err)
		}
		if err := validation.ValidateContent(b.Content); err != nil {
			return fmt.Errorf("blogs[%d]: %w", i, err)
		}
		if _, err := validation.ParseLanguage(b.Language); err != nil {
			return fmt.Errorf("blogs[%d]: %w", i, err)
		}
		if _, err := validation.NormalizeTags(b.Tags); err != nil {
			return fmt.Errorf("blogs[%d]: %w", i, err)
		}
		for _, liker := range b.Likes {
			if !known[liker] {
				return fmt.Errorf("blogs[%d]: unknown liker %q", i, liker)
			}
		}
		if err := validateComments(known, b.Comments, fmt.Sprintf("blogs[%d]", i)); err != nil {
			return err
		}
	}
	return nil
}

func validateComments(known map[string]bool, list []CommentFixture, path string) error {
	for i, c := range list {
		at := fmt.Sprintf("%s.comments[%d]", path, i)
		if !known[c.Author] {
			return fmt.Errorf("%s: unknown author %q", at, c.Author)
		}
		if err := validation.ValidateComment(c.Content); err != nil {
			return fmt.Errorf("%s: %w", at, err)
		}
		if err := validateComments(known, c.Replies, at); err != nil {
			return err
		}
	}
	return nil
}

// ApplyFixtures validates fx, then creates its users, blogs, likes and
// comment threads in file order.
func (s *Seeder) ApplyFixtures(ctx context.Context, fx *Fixtures) (Summary, error) {
	var sum Summary
	if err := fx.Validate(); err != nil {
		return sum, err
	}

	users := make(map[string]*models.User, len(fx.Users))
	for _, u := range fx.Users {
		user, err := s.factory.CreateUser(ctx, &models.User{
			Username: u.Username,
			Email:    validation.NormalizeEmail(u.Email),
			Role:     models.Role(u.Role),
		}, u.Password)
		if err != nil {
			return sum, fmt.Errorf("create user %s: %w", u.Username, err)
		}
		users[u.Username] = user
		sum.Users++
	}

	for _, b := range fx.Blogs {
		lang, _ := validation.ParseLanguage(b.Language)
		tags, _ := validation.NormalizeTags(b.Tags)
		blog, err := s.factory.CreateBlog(ctx, &models.Blog{
			Title:    strings.TrimSpace(b.Title),
			Content:  b.Content,
			Language: lang,
			UserID:   users[b.Author].ID,
			Tags:     tags,
		})
		if err != nil {
			return sum, fmt.Errorf("create blog %q: %w", b.Title, err)
		}
		sum.Blogs++

		for _, liker := range b.Likes {
			if err := s.factory.Like(ctx, users[liker], blog); err != nil {
				return sum, fmt.Errorf("like %q: %w", b.Title, err)
			}
			sum.Likes++
		}

		n, err := s.applyComments(ctx, users, blog, nil, b.Comments)
		sum.Comments += n
		if err != nil {
			return sum, err
		}
	}

	return sum, nil
}

func (s *Seeder) applyComments(ctx context.Context, users map[string]*models.User, blog *models.Blog, parent *models.Comment, list []CommentFixture) (int, error) {
	created := 0
	for _, c := range list {
		comment, err := s.factory.CreateComment(ctx, users[c.Author], blog, parent, strings.TrimSpace(c.Content))
		if err != nil {
			return created, fmt.Errorf("comment on %q: %w", blog.Title, err)
		}
		created++
		n, err := s.applyComments(ctx, users, blog, comment, c.Replies)
		created += n
		if err != nil {
			return created, err
		}
	}
	return created, nil
}
