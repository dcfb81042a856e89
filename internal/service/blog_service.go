package service

import (
	"context"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

type BlogService struct {
	blogs repository.BlogRepository
	users repository.UserRepository
	guard Guard
}

type ListBlogsInput struct {
	Language   string
	Search     string
	PageNumber int
	PageSize   int
}

// BlogPage is one page of a blog listing.
type BlogPage struct {
	Blogs []models.Blog `json:"blogs"`
	Page  int           `json:"page"`
	Pages int           `json:"pages"`
	Total int64         `json:"total"`
}

type CreateBlogInput struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
	Language string   `json:"language"`
}

// UpdateBlogInput is a partial update; nil fields are left unchanged.
type UpdateBlogInput struct {
	Title    *string   `json:"title"`
	Content  *string   `json:"content"`
	Tags     *[]string `json:"tags"`
	Language *string   `json:"language"`
}

func NewBlogService(blogs repository.BlogRepository, users repository.UserRepository) *BlogService {
	return &BlogService{blogs: blogs, users: users}
}

// ListBlogs returns one page of blogs in a language, newest first. A search
// term matches titles, tags and author usernames as a literal substring.
func (s *BlogService) ListBlogs(ctx context.Context, in ListBlogsInput) (page *BlogPage, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "BlogService", "ListBlogs",
		attribute.String("blog.language", in.Language),
		attribute.Int("page.number", in.PageNumber),
	)
	defer func() { observability.EndSpan(span, err) }()

	lang, err := validation.ParseLanguage(in.Language)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	pageNumber, pageSize := normalizePage(in.PageNumber, in.PageSize, DefaultPageSize)

	filter := repository.BlogFilter{
		Language: lang,
		Search:   strings.TrimSpace(in.Search),
		Limit:    pageSize,
		Offset:   pageOffset(pageNumber, pageSize),
	}
	if filter.Search != "" {
		filter.AuthorIDs, err = s.users.FindIDsByUsernameLike(ctx, filter.Search)
		if err != nil {
			return nil, err
		}
	}

	blogs, total, err := s.blogs.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if blogs == nil {
		blogs = []models.Blog{}
	}
	return &BlogPage{
		Blogs: blogs,
		Page:  pageNumber,
		Pages: pageCount(total, pageSize),
		Total: total,
	}, nil
}

func (s *BlogService) GetBlog(ctx context.Context, id uint) (*models.Blog, error) {
	return s.blogs.GetByID(ctx, id)
}

// CreateBlog publishes a blog authored by actor.
func (s *BlogService) CreateBlog(ctx context.Context, actor Actor, in CreateBlogInput) (blog *models.Blog, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "BlogService", "CreateBlog")
	defer func() { observability.EndSpan(span, err) }()

	if err := s.guard.RequireRole(actor, models.RoleAuthor, models.RoleAdmin); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if err := validation.ValidateTitle(title); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	lang, err := validation.ParseLanguage(in.Language)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	tags, err := validation.NormalizeTags(in.Tags)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	blog = &models.Blog{
		Title:    title,
		Content:  in.Content,
		Language: lang,
		UserID:   actor.ID,
	}
	if err := s.blogs.Create(ctx, blog, tags); err != nil {
		return nil, err
	}
	observability.BlogsCreated.WithLabelValues(string(lang)).Inc()

	return s.blogs.GetByID(ctx, blog.ID)
}

// UpdateBlog applies a partial update. Only the author or an admin may edit.
func (s *BlogService) UpdateBlog(ctx context.Context, actor Actor, id uint, in UpdateBlogInput) (blog *models.Blog, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "BlogService", "UpdateBlog", attribute.Int64("blog.id", int64(id)))
	defer func() { observability.EndSpan(span, err) }()

	existing, err := s.blogs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(actor, existing.UserID); err != nil {
		return nil, err
	}

	changes, err := blogChanges(in)
	if err != nil {
		return nil, err
	}
	if err := s.blogs.Update(ctx, id, changes); err != nil {
		return nil, err
	}
	return s.blogs.GetByID(ctx, id)
}

func blogChanges(in UpdateBlogInput) (repository.BlogChanges, error) {
	var c repository.BlogChanges
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if err := validation.ValidateTitle(title); err != nil {
			return c, models.NewValidationError(err.Error())
		}
		c.Title = &title
	}
	if in.Content != nil {
		if err := validation.ValidateContent(*in.Content); err != nil {
			return c, models.NewValidationError(err.Error())
		}
		c.Content = in.Content
	}
	if in.Language != nil {
		lang, err := validation.ParseLanguage(*in.Language)
		if err != nil {
			return c, models.NewValidationError(err.Error())
		}
		c.Language = &lang
	}
	if in.Tags != nil {
		tags, err := validation.NormalizeTags(*in.Tags)
		if err != nil {
			return c, models.NewValidationError(err.Error())
		}
		c.Tags = &tags
	}
	return c, nil
}

func (s *BlogService) DeleteBlog(ctx context.Context, actor Actor, id uint) error {
	blog, err := s.blogs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(actor, blog.UserID); err != nil {
		return err
	}
	return s.blogs.Delete(ctx, id)
}

// ToggleLike flips userID's like on the blog and returns the likes in like order.
func (s *BlogService) ToggleLike(ctx context.Context, blogID, userID uint) (likes []uint, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "BlogService", "ToggleLike", attribute.Int64("blog.id", int64(blogID)))
	defer func() { observability.EndSpan(span, err) }()

	if userID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	ok, err := s.blogs.Exists(ctx, blogID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.NewNotFoundError("Blog", blogID)
	}

	likes, liked, err := s.blogs.ToggleLike(ctx, blogID, userID)
	if err != nil {
		return nil, err
	}
	action := "unlike"
	if liked {
		action = "like"
	}
	observability.LikeToggles.WithLabelValues(action).Inc()
	return likes, nil
}
