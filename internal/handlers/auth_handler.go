package handlers

import (
	"time"

	"garden/internal/middleware"
	"garden/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const refreshCookie = "refreshToken"

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService  *services.AuthService
	validate     *validator.Validate
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler. secureCookie marks the refresh cookie Secure.
func NewAuthHandler(authService *services.AuthService, validate *validator.Validate, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		validate:     validate,
		secureCookie: secureCookie,
	}
}

// RegisterRoutes registers the authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, guards Guards) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/signup", h.HandleSignup)
	authRoutes.Post("/login", guards.Login, h.HandleLogin)
	authRoutes.Post("/change-password", guards.Auth, h.HandleChangePassword)
	authRoutes.Post("/refresh-token", h.HandleRefreshToken)
	authRoutes.Post("/forget-password", guards.Login, h.HandleForgetPassword)
	authRoutes.Post("/reset-password", h.HandleResetPassword)
}

// HandleSignup handles new user registration.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var in services.SignupInput
	if err := bind(c, h.validate, &in); err != nil {
		return err
	}

	user, err := h.authService.Signup(c.UserContext(), in)
	if err != nil {
		return err
	}
	return ok(c, "User registered successfully", user)
}

// HandleLogin checks credentials, sets the refresh cookie and returns the access token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var in services.LoginInput
	if err := bind(c, h.validate, &in); err != nil {
		return err
	}

	result, err := h.authService.Login(c.UserContext(), in)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     refreshCookie,
		Value:    result.RefreshToken,
		Path:     "/",
		Expires:  time.Now().Add(h.authService.RefreshTTL()),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Status(fiber.StatusOK).JSON(Envelope{
		Success:    true,
		StatusCode: fiber.StatusOK,
		Message:    "User is logged in successfully!",
		Data:       result.User,
		Token:      result.AccessToken,
	})
}

func (h *AuthHandler) HandleChangePassword(c *fiber.Ctx) error {
	var in services.ChangePasswordInput
	if err := bind(c, h.validate, &in); err != nil {
		return err
	}

	principal, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.authService.ChangePassword(c.UserContext(), principal.UserID, in); err != nil {
		return err
	}
	return ok(c, "Password is updated successfully!", nil)
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// HandleRefreshToken reads the refresh token from the cookie, falling back to the body.
func (h *AuthHandler) HandleRefreshToken(c *fiber.Ctx) error {
	token := c.Cookies(refreshCookie)
	if token == "" && len(c.Body()) > 0 {
		var req refreshTokenRequest
		if err := c.BodyParser(&req); err == nil {
			token = req.RefreshToken
		}
	}

	accessToken, err := h.authService.Refresh(c.UserContext(), token)
	if err != nil {
		return err
	}
	return ok(c, "Access token is retrieved successfully!", fiber.Map{"accessToken": accessToken})
}

// HandleForgetPassword never returns the reset link; it is delivered out of band.
func (h *AuthHandler) HandleForgetPassword(c *fiber.Ctx) error {
	var in services.ForgetPasswordInput
	if err := bind(c, h.validate, &in); err != nil {
		return err
	}

	if _, err := h.authService.ForgetPassword(c.UserContext(), in); err != nil {
		return err
	}
	return ok(c, "Reset link is generated successfully!", nil)
}

func (h *AuthHandler) HandleResetPassword(c *fiber.Ctx) error {
	var in services.ResetPasswordInput
	if err := bind(c, h.validate, &in); err != nil {
		return err
	}

	if err := h.authService.ResetPassword(c.UserContext(), middleware.BearerToken(c), in); err != nil {
		return err
	}
	return ok(c, "Password reset successfully!", nil)
}
