package users

import (
	"pastoral-backend/internal/auth"
	"pastoral-backend/internal/payload"

	"github.com/gofiber/fiber/v2"
)

// GET /api/users
func ListUsersHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := svc.List(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(list)
	}
}

// POST /api/users (ADMIN)
func CreateUserHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentIdentity(c)
		if err != nil {
			return err
		}
		body, err := payload.Decode(c.Body())
		if err != nil {
			return err
		}
		nu, err := ParseNewUser(body)
		if err != nil {
			return err
		}

		u, err := svc.Create(c.UserContext(), actor, nu)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(u)
	}
}
