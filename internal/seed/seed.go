// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"context"
	"fmt"
	"log"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumUsers int
	NumBlogs int
	// DryRun logs what would be written without touching the database.
	DryRun bool
	// MaxDays bounds how far back generated blogs are dated.
	MaxDays int
	// RandSeed makes generated data reproducible when non-zero.
	RandSeed int64
}

// Summary counts what a seeding run created.
type Summary struct {
	Users    int
	Blogs    int
	Comments int
	Likes    int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d users, %d blogs, %d comments, %d likes", s.Users, s.Blogs, s.Comments, s.Likes)
}

// Seeder populates or wipes the database.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	opts    Options
}

// NewSeeder returns a Seeder writing to db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{
		db: db,
		factory: NewFactory(
			repository.NewUserRepository(db),
			repository.NewBlogRepository(db),
			repository.NewCommentRepository(db),
			opts,
		),
		opts: opts,
	}
}

// Run creates NumUsers authors and NumBlogs blogs spread across them.
func (s *Seeder) Run(ctx context.Context) (Summary, error) {
	var sum Summary
	if s.opts.NumBlogs > 0 && s.opts.NumUsers <= 0 {
		return sum, fmt.Errorf("cannot seed %d blogs without users", s.opts.NumBlogs)
	}
	log.Printf("🌱 Seeding %d users and %d blogs (dry-run=%t)", s.opts.NumUsers, s.opts.NumBlogs, s.opts.DryRun)

	users := make([]*models.User, 0, s.opts.NumUsers)
	for i := 1; i <= s.opts.NumUsers; i++ {
		user, err := s.factory.CreateUser(ctx, s.factory.BuildUser(i), "")
		if err != nil {
			return sum, fmt.Errorf("create user %d: %w", i, err)
		}
		users = append(users, user)
		if s.opts.DryRun {
			log.Printf("  user %s <%s>", user.Username, user.Email)
		}
	}
	sum.Users = len(users)

	for i := 0; i < s.opts.NumBlogs; i++ {
		author := users[gofakeit.Number(0, len(users)-1)]
		blog, err := s.factory.CreateBlog(ctx, s.factory.BuildBlog(author))
		if err != nil {
			return sum, fmt.Errorf("create blog %d: %w", i+1, err)
		}
		sum.Blogs++
		if s.opts.DryRun {
			log.Printf("  blog %q by %s %v", blog.Title, author.Username, blog.Tags)
		}
		if sum.Blogs%100 == 0 {
			log.Printf("Created %d blogs...", sum.Blogs)
		}
	}

	log.Printf("✓ Seeded %s", sum)
	return sum, nil
}

// seededTables lists tables children first.
var seededTables = []string{"likes", "blog_tags", "comments", "blogs", "users"}

// Destroy removes every row the seeder can create, soft-deleted rows included.
func (s *Seeder) Destroy(ctx context.Context) error {
	if s.opts.DryRun {
		log.Printf("🗑️  Would clear tables: %v", seededTables)
		return nil
	}
	log.Println("🗑️  Clearing existing data...")

	db := s.db.WithContext(ctx)
	if db.Dialector.Name() == "postgres" {
		return db.Exec("TRUNCATE TABLE likes, blog_tags, comments, blogs, users RESTART IDENTITY CASCADE").Error
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, table := range seededTables {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}
