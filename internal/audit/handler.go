package audit

import (
	"strconv"
	"strings"

	"pastoral-backend/internal/apperr"
	"pastoral-backend/internal/models"
	"pastoral-backend/internal/payload"
	"pastoral-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

// GET /api/audit-logs?target_table=members&target_id=1&user_id=2&action=UPDATE&limit=50&offset=0
func ListAuditLogsHandler(s store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var f store.AuditFilter

		f.TargetTable = strings.TrimSpace(c.Query("target_table"))
		if raw := c.Query("target_id"); raw != "" {
			id, err := payload.ParseID(raw, "target")
			if err != nil {
				return err
			}
			f.TargetID = id
		}
		if raw := c.Query("user_id"); raw != "" {
			id, err := payload.ParseID(raw, "user")
			if err != nil {
				return err
			}
			f.UserID = id
		}
		if raw := strings.TrimSpace(c.Query("action")); raw != "" {
			f.Action = models.AuditAction(strings.ToUpper(raw))
		}

		var err error
		if f.Limit, err = intQuery(c, "limit"); err != nil {
			return err
		}
		if f.Offset, err = intQuery(c, "offset"); err != nil {
			return err
		}

		logs, err := List(c.UserContext(), s, f)
		if err != nil {
			return apperr.Internal("listing audit logs", err)
		}
		return c.JSON(logs)
	}
}

func intQuery(c *fiber.Ctx, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperr.InvalidInput(key + " must be a non-negative integer")
	}
	return n, nil
}
