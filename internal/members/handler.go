package members

import (
	"pastoral-backend/internal/auth"
	"pastoral-backend/internal/payload"

	"github.com/gofiber/fiber/v2"
)

// GET /api/members
func ListMembersHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		views, err := svc.List(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(views)
	}
}

// GET /api/members/:id
func GetMemberHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := payload.ParseID(c.Params("id"), "member")
		if err != nil {
			return err
		}
		v, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(v)
	}
}

// POST /api/members
func CreateMemberHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentIdentity(c)
		if err != nil {
			return err
		}
		in, err := decodeInput(c)
		if err != nil {
			return err
		}

		id, err := svc.Create(c.UserContext(), actor, in)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"id": id})
	}
}

// PUT /api/members/:id
func UpdateMemberHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentIdentity(c)
		if err != nil {
			return err
		}
		id, err := payload.ParseID(c.Params("id"), "member")
		if err != nil {
			return err
		}
		in, err := decodeInput(c)
		if err != nil {
			return err
		}

		if err := svc.Update(c.UserContext(), actor, id, in); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true})
	}
}

func decodeInput(c *fiber.Ctx) (Input, error) {
	body, err := payload.Decode(c.Body())
	if err != nil {
		return Input{}, err
	}
	return ParseInput(body)
}
