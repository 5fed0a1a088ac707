package messages

import (
	"pastoral-backend/internal/auth"
	"pastoral-backend/internal/payload"

	"github.com/gofiber/fiber/v2"
)

// GET /api/messages
func ListMessagesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentIdentity(c)
		if err != nil {
			return err
		}
		views, err := svc.List(c.UserContext(), actor)
		if err != nil {
			return err
		}
		return c.JSON(views)
	}
}

// POST /api/messages
func SendMessageHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentIdentity(c)
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
		if _, err := svc.Send(c.UserContext(), actor, in); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true})
	}
}

// PUT /api/messages/:id/read
func MarkReadHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentIdentity(c)
		if err != nil {
			return err
		}
		id, err := payload.ParseID(c.Params("id"), "message")
		if err != nil {
			return err
		}
		if err := svc.MarkRead(c.UserContext(), actor, id); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true})
	}
}
