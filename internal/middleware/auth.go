package middleware

import (
	"errors"
	"strings"
	"time"

	"garden/internal/models"
	"garden/internal/security"

	"github.com/gofiber/fiber/v2"
)

const principalKey = "principal"

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID    string
	Email     string
	Role      models.Role
	Name      string
	TokenID   string
	ExpiresAt time.Time
}

// IsAdmin reports whether the caller holds the admin role.
func (p *Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// PrincipalFromClaims builds a Principal out of verified token claims.
func PrincipalFromClaims(claims *security.Claims) *Principal {
	return &Principal{
		UserID:    claims.Subject,
		Email:     claims.Email,
		Role:      models.Role(claims.Role),
		Name:      claims.Name,
		TokenID:   claims.Id,
		ExpiresAt: time.Unix(claims.ExpiresAt, 0),
	}
}

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*security.Claims, error)
}

// BearerToken extracts the token from the Authorization header. Both "Bearer <token>"
// and a bare token are accepted.
func BearerToken(c *fiber.Ctx) string {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

// AuthRequired rejects requests without a token verifiable by tokens and stores the
// caller's Principal for later handlers.
func AuthRequired(tokens TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := BearerToken(c)
		if token == "" {
			return models.NewUnauthorizedError("Authorization token missing")
		}

		claims, err := tokens.Verify(token)
		if err == nil && claims.Purpose != "" {
			err = security.ErrInvalidToken
		}
		if err != nil {
			appErr := models.NewForbiddenError("Invalid token!")
			appErr.Err = err
			if errors.Is(err, security.ErrExpiredToken) {
				appErr.Sources = []models.ErrorSource{{Path: "authorization", Message: "token has expired"}}
			}
			return appErr
		}

		c.Locals(principalKey, PrincipalFromClaims(claims))
		return c.Next()
	}
}

// AdminOnly must run after AuthRequired.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := PrincipalFrom(c)
		if p == nil {
			return models.NewUnauthorizedError("You are not authorized")
		}
		if !p.IsAdmin() {
			return models.NewForbiddenError("You are not authorized to access this resource")
		}
		return c.Next()
	}
}

// PrincipalFrom returns the caller stored by AuthRequired, or nil.
func PrincipalFrom(c *fiber.Ctx) *Principal {
	p, _ := c.Locals(principalKey).(*Principal)
	return p
}
