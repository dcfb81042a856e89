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

type CommentService struct {
	comments repository.CommentRepository
	blogs    repository.BlogRepository
	guard    Guard
}

type CreateCommentInput struct {
	Content       string `json:"content"`
	ParentComment *uint  `json:"parentComment"`
}

// CommentTreePage is a page of root comments with their full reply trees.
type CommentTreePage struct {
	Comments []CommentNode `json:"comments"`
	Page     int           `json:"page"`
	Pages    int           `json:"pages"`
	Total    int           `json:"total"`
}

func NewCommentService(comments repository.CommentRepository, blogs repository.BlogRepository) *CommentService {
	return &CommentService{comments: comments, blogs: blogs}
}

func (s *CommentService) requireBlog(ctx context.Context, blogID uint) error {
	ok, err := s.blogs.Exists(ctx, blogID)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewNotFoundError("Blog", blogID)
	}
	return nil
}

// ListComments returns the blog's comments flat, newest first.
func (s *CommentService) ListComments(ctx context.Context, blogID uint) ([]*models.Comment, error) {
	if err := s.requireBlog(ctx, blogID); err != nil {
		return nil, err
	}
	return s.comments.ListByBlog(ctx, blogID)
}

// ListCommentTree pages through root comments; each root carries its whole subtree.
func (s *CommentService) ListCommentTree(ctx context.Context, blogID uint, page, pageSize int) (*CommentTreePage, error) {
	flat, err := s.ListComments(ctx, blogID)
	if err != nil {
		return nil, err
	}
	page, pageSize = normalizePage(page, pageSize, DefaultCommentPageSize)

	tree := BuildCommentTree(flat)
	roots := tree.Roots()
	total := len(roots)

	start := pageOffset(page, pageSize)
	if start < 0 || start > total {
		start = total
	}
	end := total
	if total-start > pageSize {
		end = start + pageSize
	}

	return &CommentTreePage{
		Comments: tree.NestRoots(roots[start:end]),
		Page:     page,
		Pages:    pageCount(int64(total), pageSize),
		Total:    total,
	}, nil
}

// CreateComment adds a comment, or a reply when ParentComment is set.
func (s *CommentService) CreateComment(ctx context.Context, actor Actor, blogID uint, in CreateCommentInput) (comment *models.Comment, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "CommentService", "CreateComment", attribute.Int64("blog.id", int64(blogID)))
	defer func() { observability.EndSpan(span, err) }()

	if actor.Anonymous() {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	if err := s.requireBlog(ctx, blogID); err != nil {
		return nil, err
	}

	content := strings.TrimSpace(in.Content)
	if err := validation.ValidateComment(content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	comment = &models.Comment{
		Content: content,
		BlogID:  blogID,
		UserID:  actor.ID,
	}
	kind := "root"
	if in.ParentComment != nil && *in.ParentComment != 0 {
		parent, err := s.comments.GetByID(ctx, *in.ParentComment)
		if err != nil && !models.HasCode(err, models.CodeNotFound) {
			return nil, err
		}
		if parent == nil || parent.BlogID != blogID {
			return nil, models.NewValidationError("Parent comment not found on this blog")
		}
		comment.ParentCommentID = &parent.ID
		kind = "reply"
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	observability.CommentsCreated.WithLabelValues(kind).Inc()
	return comment, nil
}

// DeleteComment removes a comment. The comment author, the blog author and
// admins may delete; on a deleted blog only the comment author and admins.
func (s *CommentService) DeleteComment(ctx context.Context, actor Actor, blogID, commentID uint) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.BlogID != blogID {
		return models.NewNotFoundError("Comment", commentID)
	}

	var owners []uint
	blog, err := s.blogs.GetByID(ctx, blogID)
	switch {
	case err == nil:
		owners = append(owners, blog.UserID)
	case models.HasCode(err, models.CodeNotFound):
	default:
		return err
	}

	if err := s.guard.Authorize(actor, comment.UserID, owners...); err != nil {
		return err
	}
	return s.comments.Delete(ctx, commentID)
}
