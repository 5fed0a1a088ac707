package auth

import (
	"strings"

	"pastoral-backend/internal/apperr"
	"pastoral-backend/internal/logging"
	"pastoral-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const CtxIdentityKey = "identity"

// Identity is the verified caller. Its ID is the only trusted acting-user id.
type Identity struct {
	ID    uint            `json:"id"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
	Role  models.UserRole `json:"role"`
}

func JWTMiddleware(tokens *Tokens) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		if authHeader == "" {
			return apperr.Unauthenticated()
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			return apperr.Unauthenticated()
		}

		claims, err := tokens.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			return apperr.InvalidCredential(err)
		}

		c.Locals(CtxIdentityKey, Identity{
			ID:    claims.UserID,
			Name:  claims.Name,
			Email: claims.Email,
			Role:  claims.Role,
		})
		c.Locals(logging.LocalsUserID, claims.UserID)

		return c.Next()
	}
}

// CurrentIdentity returns the identity resolved by JWTMiddleware.
func CurrentIdentity(c *fiber.Ctx) (Identity, error) {
	id, ok := c.Locals(CtxIdentityKey).(Identity)
	if !ok {
		return Identity{}, apperr.Unauthenticated()
	}
	return id, nil
}

func RequireRole(allowedRoles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := CurrentIdentity(c)
		if err != nil {
			return err
		}

		for _, r := range allowedRoles {
			if r == id.Role {
				return c.Next()
			}
		}
		return apperr.Forbidden("You do not have permission for this action")
	}
}
