package auth

import (
	"errors"
	"strings"
	"sync"

	"pastoral-backend/internal/apperr"
	"pastoral-backend/internal/metrics"
	"pastoral-backend/internal/payload"
	"pastoral-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const msgInvalidCredentials = "Invalid credentials"

type LoginDeps struct {
	Store   store.Store
	Tokens  *Tokens
	Guard   *LoginProtection
	Metrics *metrics.Metrics
	Log     *zap.Logger
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// equalizeTiming burns one bcrypt comparison so unknown emails cost the same
// as wrong passwords.
func equalizeTiming(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// LoginHandler exchanges email and password for a bearer token.
// Logins are never written to the audit ledger.
func LoginHandler(d LoginDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := c.IP()
		if d.Guard != nil && !d.Guard.AllowIP(ip) {
			d.Metrics.IncrementLoginAttempts("throttled")
			d.Log.Warn("login rate limit exceeded", zap.String("ip", ip))
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many login attempts, try again later")
		}

		// Malformed or incomplete credentials get the same answer as wrong ones.
		reject := func(reason string) error {
			d.Metrics.IncrementLoginAttempts("invalid")
			d.Log.Warn("login failed", zap.String("ip", ip), zap.String("reason", reason))
			return apperr.New(apperr.KindUnauthenticated, msgInvalidCredentials)
		}
		body, err := payload.Decode(c.Body())
		if err != nil {
			return reject("malformed body")
		}
		email, err := body.OptionalString("email")
		if err != nil {
			return reject("malformed email")
		}
		password, err := body.OptionalString("password")
		if err != nil {
			return reject("malformed password")
		}
		if email == nil || password == nil || strings.TrimSpace(*email) == "" || *password == "" {
			return reject("missing credentials")
		}
		normalized := strings.ToLower(strings.TrimSpace(*email))

		if d.Guard != nil {
			if locked, _ := d.Guard.Locked(normalized); locked {
				d.Metrics.IncrementLoginAttempts("locked")
				d.Log.Warn("login rejected for locked account", zap.String("email", normalized), zap.String("ip", ip))
				return fiber.NewError(fiber.StatusTooManyRequests, "Too many failed attempts, try again later")
			}
		}

		fail := func(reason string) error {
			if d.Guard != nil {
				d.Guard.RecordFailure(normalized)
			}
			d.Metrics.IncrementLoginAttempts("invalid")
			d.Log.Warn("login failed",
				zap.String("email", normalized),
				zap.String("ip", ip),
				zap.String("reason", reason),
			)
			return apperr.New(apperr.KindUnauthenticated, msgInvalidCredentials)
		}

		user, err := d.Store.Users().GetByEmail(c.UserContext(), normalized)
		if errors.Is(err, store.ErrNotFound) {
			equalizeTiming(*password)
			return fail("unknown email")
		}
		if err != nil {
			return apperr.Internal("loading user", err)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(*password)); err != nil {
			return fail("wrong password")
		}

		token, err := d.Tokens.Issue(user)
		if err != nil {
			return apperr.Internal("issuing token", err)
		}
		if d.Guard != nil {
			d.Guard.RecordSuccess(normalized)
		}
		d.Metrics.IncrementLoginAttempts("success")
		d.Log.Info("login succeeded", zap.Uint("user_id", user.ID))

		return c.JSON(fiber.Map{
			"token": token,
			"user": Identity{
				ID:    user.ID,
				Name:  user.Name,
				Email: user.Email,
				Role:  user.Role,
			},
		})
	}
}

// MeHandler returns the caller's identity, refreshed from the store when possible.
func MeHandler(s store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := CurrentIdentity(c)
		if err != nil {
			return err
		}

		user, err := s.Users().GetByID(c.UserContext(), id.ID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			return apperr.Unauthenticated()
		case err != nil:
			return apperr.Internal("loading user", err)
		}

		return c.JSON(fiber.Map{
			"id":         user.ID,
			"name":       user.Name,
			"email":      user.Email,
			"role":       user.Role,
			"created_at": user.CreatedAt,
		})
	}
}
