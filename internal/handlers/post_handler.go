package handlers

import (
	"garden/internal/query"
	"garden/internal/repositories"
	"garden/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// PostHandler serves posts, votes and comments.
type PostHandler struct {
	postService *services.PostService
	validate    *validator.Validate
}

func NewPostHandler(postService *services.PostService, validate *validator.Validate) *PostHandler {
	return &PostHandler{postService: postService, validate: validate}
}

// RegisterRoutes registers the post routes. Literal paths go before the :id routes.
func (h *PostHandler) RegisterRoutes(router fiber.Router, guards Guards) {
	postRoutes := router.Group("/post")
	postRoutes.Get("/", h.HandleListPosts)
	postRoutes.Post("/", guards.Auth, h.HandleCreatePost)
	postRoutes.Post("/create-post", guards.Auth, h.HandleCreatePost)
	postRoutes.Get("/user/my-post", guards.Auth, h.HandleMyPosts)
	postRoutes.Get("/author/:authorId", h.HandlePostsByAuthor)
	postRoutes.Post("/add-comment/:id", guards.Auth, h.HandleAddComment)

	postRoutes.Get("/:id", h.HandleGetPost)
	postRoutes.Get("/:id/audit", guards.Auth, guards.Admin, h.HandleAuditPost)
	postRoutes.Patch("/:id", guards.Auth, h.HandleUpdatePost)
	postRoutes.Delete("/:id", guards.Auth, h.HandleDeletePost)
	postRoutes.Post("/:id/upvote", guards.Auth, h.vote(repositories.UpVote))
	postRoutes.Post("/:id/downvote", guards.Auth, h.vote(repositories.DownVote))
	postRoutes.Post("/:id/comments", guards.Auth, h.HandleAddComment)
	postRoutes.Patch("/:id/comments/:commentId", guards.Auth, h.HandleUpdateComment)
	postRoutes.Delete("/:id/comments/:commentId", guards.Auth, h.HandleDeleteComment)
}

func (h *PostHandler) HandleCreatePost(c *fiber.Ctx) error {
	var in services.CreatePostInput
	if err := bind(c, h.validate, &in); err != nil {
		return err
	}

	post, err := h.postService.CreatePost(c.UserContext(), in)
	if err != nil {
		return err
	}
	return created(c, "Post created successfully", post)
}

func (h *PostHandler) HandleListPosts(c *fiber.Ctx) error {
	params, err := query.Parse(c.Queries(), query.PostSchema)
	if err != nil {
		return err
	}

	posts, meta, err := h.postService.ListPosts(c.UserContext(), params)
	if err != nil {
		return err
	}
	return sendPage(c, "Posts retrieved successfully", "No posts found.!", posts, meta, params.Fields)
}

func (h *PostHandler) HandleGetPost(c *fiber.Ctx) error {
	post, err := h.postService.GetPost(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, "Post retrieved successfully", post)
}

// HandleAuditPost returns a post even when it is soft-deleted.
func (h *PostHandler) HandleAuditPost(c *fiber.Ctx) error {
	post, err := h.postService.AuditPost(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, "Post retrieved successfully", post)
}

func (h *PostHandler) HandlePostsByAuthor(c *fiber.Ctx) error {
	return h.postsBy(c, c.Params("authorId"))
}

func (h *PostHandler) HandleMyPosts(c *fiber.Ctx) error {
	principal, err := caller(c)
	if err != nil {
		return err
	}
	return h.postsBy(c, principal.UserID)
}

func (h *PostHandler) postsBy(c *fiber.Ctx, authorID string) error {
	posts, err := h.postService.PostsByAuthor(c.UserContext(), authorID)
	if err != nil {
		return err
	}
	return sendList(c, "Posts retrieved successfully", "No posts found.!", posts)
}

func (h *PostHandler) HandleUpdatePost(c *fiber.Ctx) error {
	var in services.UpdatePostInput
	if err := bind(c, h.validate, &in); err != nil {
		return err
	}

	post, err := h.postService.UpdatePost(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return ok(c, "Post updated successfully", post)
}

func (h *PostHandler) HandleDeletePost(c *fiber.Ctx) error {
	post, err := h.postService.DeletePost(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, "Post deleted successfully", post)
}

func (h *PostHandler) vote(v repositories.Vote) fiber.Handler {
	message := "Post upvoted successfully"
	if v == repositories.DownVote {
		message = "Post downvoted successfully"
	}
	return func(c *fiber.Ctx) error {
		post, err := h.postService.Vote(c.UserContext(), c.Params("id"), v)
		if err != nil {
			return err
		}
		return ok(c, message, post)
	}
}

// HandleAddComment records the caller as the commentator.
func (h *PostHandler) HandleAddComment(c *fiber.Ctx) error {
	var in services.CommentInput
	if err := bind(c, h.validate, &in); err != nil {
		return err
	}

	principal, err := caller(c)
	if err != nil {
		return err
	}
	post, err := h.postService.AddComment(c.UserContext(), c.Params("id"), principal.UserID, in)
	if err != nil {
		return err
	}
	return created(c, "Comment added successfully", post)
}

func (h *PostHandler) HandleUpdateComment(c *fiber.Ctx) error {
	var in services.CommentInput
	if err := bind(c, h.validate, &in); err != nil {
		return err
	}

	principal, err := caller(c)
	if err != nil {
		return err
	}
	post, err := h.postService.UpdateComment(c.UserContext(), c.Params("id"), c.Params("commentId"), principal.UserID, in)
	if err != nil {
		return err
	}
	return ok(c, "Comment updated successfully", post)
}

func (h *PostHandler) HandleDeleteComment(c *fiber.Ctx) error {
	principal, err := caller(c)
	if err != nil {
		return err
	}
	post, err := h.postService.DeleteComment(c.UserContext(), c.Params("id"), c.Params("commentId"), principal.UserID)
	if err != nil {
		return err
	}
	return ok(c, "Comment deleted successfully", post)
}
