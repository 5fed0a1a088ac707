package contacts

import (
	"pastoral-backend/internal/auth"
	"pastoral-backend/internal/payload"

	"github.com/gofiber/fiber/v2"
)

// GET /api/members/:id/contacts
func ListContactsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		memberID, err := payload.ParseID(c.Params("id"), "member")
		if err != nil {
			return err
		}
		views, err := svc.ListForMember(c.UserContext(), memberID)
		if err != nil {
			return err
		}
		return c.JSON(views)
	}
}

// POST /api/members/:id/contacts
func CreateContactHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentIdentity(c)
		if err != nil {
			return err
		}
		memberID, err := payload.ParseID(c.Params("id"), "member")
		if err != nil {
			return err
		}
		body, err := payload.Decode(c.Body())
		if err != nil {
			return err
		}
		in, err := ParseInput(body)
		if err != nil {
			return err
		}

		if _, err := svc.Append(c.UserContext(), actor, memberID, in); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true})
	}
}
