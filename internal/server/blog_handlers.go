package server

import (
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListBlogs handles GET /api/blogs
// @Summary List blogs
// @Description Newest first, filtered by language, optionally searched by title, tag or author
// @Tags blogs
// @Produce json
// @Param pageNumber query int false "Page number"
// @Param language query string false "Language code (en, ar)"
// @Param search query string false "Search term"
// @Success 200 {object} service.BlogPage
// @Failure 400 {object} models.ErrorResponse
// @Router /blogs [get]
func (s *Server) ListBlogs(c *fiber.Ctx) error {
	page, err := s.blogService.ListBlogs(c.UserContext(), service.ListBlogsInput{
		Language:   c.Query("language"),
		Search:     c.Query("search"),
		PageNumber: queryPage(c, "pageNumber"),
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(page)
}

// GetBlog handles GET /api/blogs/:id
// @Summary Get blog
// @Tags blogs
// @Produce json
// @Param id path int true "Blog ID"
// @Success 200 {object} models.Blog
// @Failure 404 {object} models.ErrorResponse
// @Router /blogs/{id} [get]
func (s *Server) GetBlog(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	blog, err := s.blogService.GetBlog(c.UserContext(), id)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(blog)
}

// CreateBlog handles POST /api/blogs
// @Summary Create blog
// @Tags blogs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateBlogInput true "Blog"
// @Success 201 {object} models.Blog
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /blogs [post]
func (s *Server) CreateBlog(c *fiber.Ctx) error {
	var req service.CreateBlogInput
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	blog, err := s.blogService.CreateBlog(c.UserContext(), actor(c), req)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(blog)
}

// UpdateBlog handles PUT /api/blogs/:id
// @Summary Update blog
// @Description Partial update by the author or an admin
// @Tags blogs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Blog ID"
// @Param request body service.UpdateBlogInput true "Changed fields"
// @Success 200 {object} models.Blog
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /blogs/{id} [put]
func (s *Server) UpdateBlog(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req service.UpdateBlogInput
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	blog, err := s.blogService.UpdateBlog(c.UserContext(), actor(c), id, req)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(blog)
}

// DeleteBlog handles DELETE /api/blogs/:id
// @Summary Delete blog
// @Tags blogs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Blog ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /blogs/{id} [delete]
func (s *Server) DeleteBlog(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.blogService.DeleteBlog(c.UserContext(), actor(c), id); err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Blog removed"})
}

// ToggleLike handles PUT /api/blogs/:id/like
// @Summary Toggle like
// @Description Adds the caller's like, or removes it if present. Returns the like set.
// @Tags blogs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Blog ID"
// @Success 200 {array} integer
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /blogs/{id}/like [put]
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	likes, err := s.blogService.ToggleLike(c.UserContext(), id, actor(c).ID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(likes)
}
