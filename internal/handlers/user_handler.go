package handlers

import (
	"garden/internal/middleware"
	"garden/internal/models"
	"garden/internal/query"
	"garden/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler serves user profiles and favorites.
type UserHandler struct {
	userService *services.UserService
	validate    *validator.Validate
}

func NewUserHandler(userService *services.UserService, validate *validator.Validate) *UserHandler {
	return &UserHandler{userService: userService, validate: validate}
}

// RegisterRoutes registers the user routes.
func (h *UserHandler) RegisterRoutes(router fiber.Router, guards Guards) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/", h.HandleListUsers)
	userRoutes.Patch("/update-profile", guards.Auth, h.HandleUpdateProfile)
	userRoutes.Post("/post/favorite-post", guards.Auth, h.HandleAddFavorite)
	userRoutes.Delete("/post/remove-favorite-post", guards.Auth, h.HandleRemoveFavorite)
	userRoutes.Get("/post/favorite-posts", guards.Auth, h.HandleListFavorites)
	userRoutes.Get("/:userId", guards.Auth, h.HandleGetUser)
	userRoutes.Delete("/:userId", guards.Auth, guards.Admin, h.HandleDeleteUser)
}

func (h *UserHandler) HandleListUsers(c *fiber.Ctx) error {
	params, err := query.Parse(c.Queries(), query.UserSchema)
	if err != nil {
		return err
	}

	users, meta, err := h.userService.ListUsers(c.UserContext(), params)
	if err != nil {
		return err
	}
	return sendPage(c, "Users retrieved successfully", "No users found.!", users, meta, params.Fields)
}

func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	user, err := h.userService.GetUser(c.UserContext(), c.Params("userId"))
	if err != nil {
		return err
	}
	return ok(c, "User retrieved successfully", user)
}

// HandleUpdateProfile updates the profile of the token's owner.
func (h *UserHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var in services.UpdateProfileInput
	if err := bind(c, h.validate, &in); err != nil {
		return err
	}

	principal, err := caller(c)
	if err != nil {
		return err
	}
	user, err := h.userService.UpdateProfile(c.UserContext(), principal.Email, in)
	if err != nil {
		return err
	}
	return ok(c, "Profile updated successfully", user)
}

func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	user, err := h.userService.DeleteUser(c.UserContext(), c.Params("userId"))
	if err != nil {
		return err
	}
	return ok(c, "User deleted successfully", user)
}

func (h *UserHandler) HandleAddFavorite(c *fiber.Ctx) error {
	var in services.FavoriteInput
	if err := bind(c, h.validate, &in); err != nil {
		return err
	}

	principal, err := caller(c)
	if err != nil {
		return err
	}
	favorites, err := h.userService.AddFavorite(c.UserContext(), principal.UserID, in.PostID)
	if err != nil {
		return err
	}
	return ok(c, "Post added to favorites", favorites)
}

// HandleRemoveFavorite accepts postId in the body or, for clients that cannot send a
// DELETE body, in the query string.
func (h *UserHandler) HandleRemoveFavorite(c *fiber.Ctx) error {
	var in services.FavoriteInput
	if len(c.Body()) == 0 {
		in.PostID = c.Query("postId")
		if err := h.validate.Struct(in); err != nil {
			return err
		}
	} else if err := bind(c, h.validate, &in); err != nil {
		return err
	}

	principal, err := caller(c)
	if err != nil {
		return err
	}
	favorites, err := h.userService.RemoveFavorite(c.UserContext(), principal.UserID, in.PostID)
	if err != nil {
		return err
	}
	return ok(c, "Post removed from favorites", favorites)
}

func (h *UserHandler) HandleListFavorites(c *fiber.Ctx) error {
	principal, err := caller(c)
	if err != nil {
		return err
	}
	posts, err := h.userService.ListFavorites(c.UserContext(), principal.UserID)
	if err != nil {
		return err
	}
	return sendList(c, "Favorite posts retrieved successfully", "No favorite posts found.!", posts)
}

// caller returns the authenticated principal of a guarded route.
func caller(c *fiber.Ctx) (*middleware.Principal, error) {
	principal := middleware.PrincipalFrom(c)
	if principal == nil {
		return nil, models.NewUnauthorizedError("You are not authorized")
	}
	return principal, nil
}
