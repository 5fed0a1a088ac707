// Package router assembles the fiber application and its REST surface.
package router

import (
	"context"
	"errors"
	"strings"
	"time"

	"pastoral-backend/internal/apperr"
	"pastoral-backend/internal/audit"
	"pastoral-backend/internal/auth"
	"pastoral-backend/internal/config"
	"pastoral-backend/internal/contacts"
	"pastoral-backend/internal/dashboard"
	"pastoral-backend/internal/logging"
	"pastoral-backend/internal/members"
	"pastoral-backend/internal/messages"
	"pastoral-backend/internal/metrics"
	"pastoral-backend/internal/models"
	"pastoral-backend/internal/store"
	"pastoral-backend/internal/users"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Deps struct {
	Config *config.Config
	Log    *zap.Logger
	Store  store.Store
	// Metrics and Guard are optional.
	Metrics *metrics.Metrics
	Guard   *auth.LoginProtection
}

// ErrorHandler renders every error as {"error": msg}. Internal details are
// logged and replaced by a generic message.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}

		kind := apperr.KindOf(err)
		if kind == apperr.KindInternal {
			fields := []zap.Field{
				zap.Error(err),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
			}
			if rid, ok := c.Locals("requestid").(string); ok {
				fields = append(fields, zap.String("request_id", rid))
			}
			log.Error("unexpected error", fields...)
		}
		return c.Status(apperr.Status(kind)).JSON(fiber.Map{"error": apperr.PublicMessage(err)})
	}
}

func New(d Deps) *fiber.App {
	cfg := d.Config
	app := fiber.New(fiber.Config{
		AppName:      "pastoral-backend",
		ErrorHandler: ErrorHandler(d.Log),
	})

	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logging.RequestLogger(d.Log))
	if d.Metrics != nil {
		app.Use(d.Metrics.Middleware())
		app.Get("/metrics", d.Metrics.Handler())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: joinOrigins(cfg.CORSOriginList()),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,OPTIONS",
	}))

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	recorder := audit.NewRecorder(d.Log, d.Metrics)

	memberSvc := members.NewService(d.Store, recorder, members.Options{
		StrictTransitions:    cfg.StrictStatusTransitions,
		OwnershipScopedEdits: cfg.OwnershipScopedEdits,
	})
	contactSvc := contacts.NewService(d.Store)
	userSvc := users.NewService(d.Store, recorder)
	messageSvc := messages.NewService(d.Store)

	api := app.Group("/api")

	// Public
	api.Get("/health", healthHandler(d.Store))
	api.Post("/login", auth.LoginHandler(auth.LoginDeps{
		Store:   d.Store,
		Tokens:  tokens,
		Guard:   d.Guard,
		Metrics: d.Metrics,
		Log:     d.Log,
	}))

	// Protected
	protected := api.Group("", auth.JWTMiddleware(tokens))

	protected.Get("/me", auth.MeHandler(d.Store))

	protected.Get("/members", members.ListMembersHandler(memberSvc))
	protected.Post("/members", members.CreateMemberHandler(memberSvc))
	protected.Get("/members/:id", members.GetMemberHandler(memberSvc))
	protected.Put("/members/:id", members.UpdateMemberHandler(memberSvc))

	protected.Get("/members/:id/contacts", contacts.ListContactsHandler(contactSvc))
	protected.Post("/members/:id/contacts", contacts.CreateContactHandler(contactSvc))

	protected.Get("/users", users.ListUsersHandler(userSvc))
	protected.Post("/users", auth.RequireRole(models.RoleAdmin), users.CreateUserHandler(userSvc))

	protected.Get("/stats", dashboard.StatsHandler(d.Store))

	protected.Get("/messages", messages.ListMessagesHandler(messageSvc))
	protected.Post("/messages", messages.SendMessageHandler(messageSvc))
	protected.Put("/messages/:id/read", messages.MarkReadHandler(messageSvc))

	protected.Get("/audit-logs",
		auth.RequireRole(models.RoleAdmin, models.RolePastor),
		audit.ListAuditLogsHandler(d.Store),
	)

	return app
}

func healthHandler(s store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := s.Ping(ctx); err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "Database unavailable")
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}

func joinOrigins(origins []string) string {
	if len(origins) == 0 {
		return "*"
	}
	return strings.Join(origins, ",")
}
