package server

import (
	"strconv"

	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/blogs/:blogId/comments
// @Summary List comments
// @Description Flat list, newest first
// @Tags comments
// @Produce json
// @Param blogId path int true "Blog ID"
// @Success 200 {array} models.Comment
// @Failure 404 {object} models.ErrorResponse
// @Router /blogs/{blogId}/comments [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	blogID, err := s.parseID(c, "blogId")
	if err != nil {
		return nil
	}
	comments, err := s.commentService.ListComments(c.UserContext(), blogID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(comments)
}

// GetCommentTree handles GET /api/blogs/:blogId/comments/tree
// @Summary Comment tree
// @Description Pages of root comments, each with its nested replies
// @Tags comments
// @Produce json
// @Param blogId path int true "Blog ID"
// @Param pageNumber query int false "Page number"
// @Param pageSize query int false "Roots per page"
// @Success 200 {object} service.CommentTreePage
// @Failure 404 {object} models.ErrorResponse
// @Router /blogs/{blogId}/comments/tree [get]
func (s *Server) GetCommentTree(c *fiber.Ctx) error {
	blogID, err := s.parseID(c, "blogId")
	if err != nil {
		return nil
	}
	pageSize, _ := strconv.Atoi(c.Query("pageSize"))
	tree, err := s.commentService.ListCommentTree(c.UserContext(), blogID, queryPage(c, "pageNumber"), pageSize)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(tree)
}

// CreateComment handles POST /api/blogs/:blogId/comments
// @Summary Create comment
// @Description Root comment, or a reply when parentComment is set
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param blogId path int true "Blog ID"
// @Param request body service.CreateCommentInput true "Comment"
// @Success 201 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /blogs/{blogId}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	blogID, err := s.parseID(c, "blogId")
	if err != nil {
		return nil
	}
	var req service.CreateCommentInput
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	comment, err := s.commentService.CreateComment(c.UserContext(), actor(c), blogID, req)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// DeleteComment handles DELETE /api/blogs/:blogId/comments/:id
// @Summary Delete comment
// @Description Allowed for the comment author, the blog author and admins
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param blogId path int true "Blog ID"
// @Param id path int true "Comment ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /blogs/{blogId}/comments/{id} [delete]
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	blogID, err := s.parseID(c, "blogId")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.commentService.DeleteComment(c.UserContext(), actor(c), blogID, commentID); err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment removed"})
}
