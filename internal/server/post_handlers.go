package server

import (
	"devconnector/internal/models"
	"devconnector/internal/service"

	"github.com/gofiber/fiber/v2"
)

type postRequest struct {
	Text   string `json:"text"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

const defaultPostsLimit = 20

// parsePostID reads the :id param. Ids that cannot name a post get the same
// 404 as a missing post.
func parsePostID(c *fiber.Ctx) (uint, error) {
	return parseID(c, "id", models.NewPostNotFoundError(0))
}

// GetPosts handles GET /api/posts
// @Summary List posts
// @Description Newest first. Without a limit every post is returned.
// @Tags posts
// @Produce json
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Post
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	var in service.ListPostsInput
	if c.Query("limit") != "" {
		page := parsePagination(c, defaultPostsLimit)
		in = service.ListPostsInput{Limit: page.Limit, Offset: page.Offset}
	}

	posts, err := s.postService.List(c.UserContext(), in)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := parsePostID(c)
	if err != nil {
		return nil
	}
	post, err := s.postService.Get(c.UserContext(), postID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(post)
}

// CreatePost handles POST /api/posts
// @Summary Create a post
// @Description Name and avatar default to the author's.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body postRequest true "Post"
// @Success 200 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	id, err := mustIdentity(c)
	if err != nil {
		return nil
	}
	var req postRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.Create(c.UserContext(), id, service.CreatePostInput{
		Text:   req.Text,
		Name:   req.Name,
		Avatar: req.Avatar,
	})
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
// @Summary Delete a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} object{success=bool}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := mustIdentity(c)
	if err != nil {
		return nil
	}
	postID, err := parsePostID(c)
	if err != nil {
		return nil
	}

	if err := s.postService.Delete(c.UserContext(), id, postID); err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// LikePost handles POST /api/posts/like/:id
// @Summary Like a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/like/{id} [post]
func (s *Server) LikePost(c *fiber.Ctx) error {
	id, err := mustIdentity(c)
	if err != nil {
		return nil
	}
	postID, err := parsePostID(c)
	if err != nil {
		return nil
	}

	post, err := s.postService.Like(c.UserContext(), id, postID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(post)
}

// UnlikePost handles POST /api/posts/unlike/:id
// @Summary Remove a like
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/unlike/{id} [post]
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	id, err := mustIdentity(c)
	if err != nil {
		return nil
	}
	postID, err := parsePostID(c)
	if err != nil {
		return nil
	}

	post, err := s.postService.Unlike(c.UserContext(), id, postID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(post)
}

// AddComment handles POST /api/posts/comment/:id
// @Summary Comment on a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body postRequest true "Comment"
// @Success 200 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/comment/{id} [post]
func (s *Server) AddComment(c *fiber.Ctx) error {
	id, err := mustIdentity(c)
	if err != nil {
		return nil
	}
	postID, err := parsePostID(c)
	if err != nil {
		return nil
	}
	var req postRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.AddComment(c.UserContext(), id, postID, service.CommentInput{
		Text:   req.Text,
		Name:   req.Name,
		Avatar: req.Avatar,
	})
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(post)
}

// RemoveComment handles DELETE /api/posts/comment/:id/:comment_id
// @Summary Remove a comment
// @Description Allowed for the comment's author and the post's owner.
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param comment_id path string true "Comment ID"
// @Success 200 {object} models.Post
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/comment/{id}/{comment_id} [delete]
func (s *Server) RemoveComment(c *fiber.Ctx) error {
	id, err := mustIdentity(c)
	if err != nil {
		return nil
	}
	postID, err := parsePostID(c)
	if err != nil {
		return nil
	}

	post, err := s.postService.RemoveComment(c.UserContext(), id, postID, c.Params("comment_id"))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(post)
}
