package middleware

import (
	"context"
	"strings"

	"realestate-management/internal/core/domain"
	"realestate-management/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const (
	bearerPrefix = "Bearer "

	localsIdentity = "identity"
	localsToken    = "token"
)

// 401 details, one per way a bearer header can fail
const (
	DetailsHeaderAbsent = "header absent"
	DetailsWrongFormat  = "wrong format, Bearer required"
	DetailsInvalidToken = "token invalid or expired"
)

// TokenValidator resolves a raw token to its account, nil when it must be rejected
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) *domain.UserInfo
}

// AuthMiddleware validates the bearer token and stores the caller's identity
func AuthMiddleware(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return response.AuthFailure(c, "authentication is required", DetailsHeaderAbsent)
		}

		if !strings.HasPrefix(header, bearerPrefix) {
			return response.AuthFailure(c, "authorization header is malformed", DetailsWrongFormat)
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
		info := validator.ValidateToken(c.UserContext(), token)
		if info == nil {
			return response.AuthFailure(c, "token is invalid", DetailsInvalidToken)
		}

		c.Locals(localsIdentity, domain.Identity{
			UserID:   info.ID,
			Username: info.Username,
			Role:     info.Role,
		})
		c.Locals(localsToken, token)

		return c.Next()
	}
}

// AdminOnly allows only ADMIN callers. Must run after AuthMiddleware.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := GetIdentity(c)
		if !ok {
			return response.AuthFailure(c, "authentication is required", DetailsHeaderAbsent)
		}
		if !identity.IsAdmin() {
			return response.Forbidden(c, "administrator role required")
		}
		return c.Next()
	}
}

// GetIdentity returns the identity stored by AuthMiddleware
func GetIdentity(c *fiber.Ctx) (domain.Identity, bool) {
	identity, ok := c.Locals(localsIdentity).(domain.Identity)
	return identity, ok
}

// GetToken returns the raw bearer token accepted by AuthMiddleware
func GetToken(c *fiber.Ctx) string {
	token, _ := c.Locals(localsToken).(string)
	return token
}
