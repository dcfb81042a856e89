package repository

import (
	"context"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BlogFilter selects a page of blogs. A non-empty Search matches titles and
// tags by substring; AuthorIDs widens the match to those authors.
type BlogFilter struct {
	Language  models.Language
	Search    string
	AuthorIDs []uint
	Limit     int
	Offset    int
}

// BlogChanges is a partial blog update. Tags, when non-nil, replace the stored tags.
type BlogChanges struct {
	Title    *string
	Content  *string
	Language *models.Language
	Tags     *[]string
}

// BlogRepository defines persistence operations for blogs and their likes.
type BlogRepository interface {
	Create(ctx context.Context, blog *models.Blog, tags []string) error
	GetByID(ctx context.Context, id uint) (*models.Blog, error)
	Exists(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context, filter BlogFilter) ([]models.Blog, int64, error)
	Update(ctx context.Context, id uint, changes BlogChanges) error
	Delete(ctx context.Context, id uint) error
	ToggleLike(ctx context.Context, blogID, userID uint) ([]uint, bool, error)
}

type blogRepository struct {
	db *gorm.DB
}

// NewBlogRepository returns a new BlogRepository implementation.
func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{db: db}
}

// withRelations preloads the author and the ordered tag and like rows.
func withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("TagRows", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("LikeRows", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })
}

func (r *blogRepository) Create(ctx context.Context, blog *models.Blog, tags []string) error {
	defer observability.TrackQuery("insert", "blogs")()
	blog.TagRows = models.TagRowsFrom(0, tags)
	if err := r.db.WithContext(ctx).Omit("Author").Create(blog).Error; err != nil {
		return models.NewInternalError(err)
	}
	blog.Hydrate()
	return nil
}

// GetByID is served through the blog cache.
func (r *blogRepository) GetByID(ctx context.Context, id uint) (*models.Blog, error) {
	var blog models.Blog
	err := cache.Aside(ctx, cache.BlogKey(id), &blog, cache.BlogTTL, func() error {
		defer observability.TrackQuery("select", "blogs")()
		if err := withRelations(r.db.WithContext(ctx)).First(&blog, id).Error; err != nil {
			return notFoundOr(err, "Blog", id)
		}
		blog.Hydrate()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &blog, nil
}

func (r *blogRepository) Exists(ctx context.Context, id uint) (bool, error) {
	defer observability.TrackQuery("select", "blogs")()
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Blog{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *blogRepository) filtered(ctx context.Context, f BlogFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Blog{}).Where("language = ?", f.Language)
	if f.Search == "" {
		return q
	}

	pattern := containsPattern(f.Search)
	match := r.db.Where(`LOWER(title) LIKE ? ESCAPE '\'`, pattern).
		Or(`id IN (SELECT blog_id FROM blog_tags WHERE LOWER(name) LIKE ? ESCAPE '\')`, pattern)
	if len(f.AuthorIDs) > 0 {
		match = match.Or("user_id IN ?", f.AuthorIDs)
	}
	return q.Where(match)
}

// List returns one page of blogs, newest first, and the number of matches.
func (r *blogRepository) List(ctx context.Context, f BlogFilter) ([]models.Blog, int64, error) {
	defer observability.TrackQuery("select", "blogs")()

	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	blogs := make([]models.Blog, 0, f.Limit)
	if int64(f.Offset) >= total {
		return blogs, total, nil
	}

	err := withRelations(r.filtered(ctx, f)).
		Order("created_at DESC").Order("id DESC").
		Limit(f.Limit).Offset(f.Offset).
		Find(&blogs).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	for i := range blogs {
		blogs[i].Hydrate()
	}
	return blogs, total, nil
}

// Update applies the changes, replacing tags in the same transaction.
func (r *blogRepository) Update(ctx context.Context, id uint, c BlogChanges) error {
	defer observability.TrackQuery("update", "blogs")()

	cols := map[string]interface{}{"updated_at": time.Now()}
	if c.Title != nil {
		cols["title"] = *c.Title
	}
	if c.Content != nil {
		cols["content"] = *c.Content
	}
	if c.Language != nil {
		cols["language"] = *c.Language
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Blog{ID: id}).Updates(cols)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if c.Tags == nil {
			return nil
		}
		if err := tx.Where("blog_id = ?", id).Delete(&models.BlogTag{}).Error; err != nil {
			return err
		}
		if rows := models.TagRowsFrom(id, *c.Tags); len(rows) > 0 {
			return tx.Create(&rows).Error
		}
		return nil
	})
	if err != nil {
		return notFoundOr(err, "Blog", id)
	}
	cache.InvalidateBlog(ctx, id)
	return nil
}

// Delete soft deletes the blog. Comments, tags and likes are left in place.
func (r *blogRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "blogs")()
	res := r.db.WithContext(ctx).Delete(&models.Blog{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Blog", id)
	}
	cache.InvalidateBlog(ctx, id)
	return nil
}

// ToggleLike flips userID's membership in the blog's likes and returns the
// resulting set in like order, plus whether the user now likes the blog.
func (r *blogRepository) ToggleLike(ctx context.Context, blogID, userID uint) ([]uint, bool, error) {
	defer observability.TrackQuery("toggle", "likes")()

	likes := make([]uint, 0)
	liked := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("blog_id = ? AND user_id = ?", blogID, userID).Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			like := models.Like{BlogID: blogID, UserID: userID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
				return err
			}
			liked = true
		}
		return tx.Model(&models.Like{}).Where("blog_id = ?", blogID).Order("id ASC").Pluck("user_id", &likes).Error
	})
	if err != nil {
		return nil, false, models.NewInternalError(err)
	}
	cache.InvalidateBlog(ctx, blogID)
	return likes, liked, nil
}
