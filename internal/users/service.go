// Package users lists staff identities for assignment and lets administrators
// provision new ones.
package users

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"pastoral-backend/internal/apperr"
	"pastoral-backend/internal/audit"
	"pastoral-backend/internal/auth"
	"pastoral-backend/internal/models"
	"pastoral-backend/internal/payload"
	"pastoral-backend/internal/store"

	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 8

type NewUser struct {
	Name     string
	Email    string
	Password string
	Role     models.UserRole
}

func ParseNewUser(body payload.Map) (NewUser, error) {
	var (
		u   NewUser
		err error
	)
	if u.Name, err = body.RequiredString("name"); err != nil {
		return NewUser{}, err
	}
	if u.Email, err = body.RequiredString("email"); err != nil {
		return NewUser{}, err
	}
	u.Email = strings.ToLower(u.Email)
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return NewUser{}, apperr.InvalidInput("email is not a valid address")
	}

	pw, err := body.OptionalString("password")
	if err != nil {
		return NewUser{}, err
	}
	if pw == nil || len(*pw) < MinPasswordLength {
		return NewUser{}, apperr.InvalidInput("password must be at least 8 characters")
	}
	u.Password = *pw

	role, err := body.RequiredString("role")
	if err != nil {
		return NewUser{}, err
	}
	u.Role = models.UserRole(strings.ToUpper(role))
	if !u.Role.Valid() {
		return NewUser{}, apperr.InvalidInput("Invalid role: " + role)
	}
	return u, nil
}

type Service struct {
	store    store.Store
	recorder *audit.Recorder
	cost     int
}

func NewService(s store.Store, rec *audit.Recorder) *Service {
	return &Service{store: s, recorder: rec, cost: bcrypt.DefaultCost}
}

func (s *Service) List(ctx context.Context) ([]models.User, error) {
	list, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, apperr.Internal("listing users", err)
	}
	return list, nil
}

// Create provisions a staff account and audits it in the same transaction.
func (s *Service) Create(ctx context.Context, actor auth.Identity, nu NewUser) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), s.cost)
	if err != nil {
		return nil, apperr.Internal("hashing password", err)
	}
	u := &models.User{Name: nu.Name, Email: nu.Email, PasswordHash: string(hash), Role: nu.Role}

	err = s.recorder.Transact(ctx, s.store, func(tx store.Store, record audit.RecordFunc) error {
		if err := tx.Users().Create(ctx, u); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return apperr.Wrap(apperr.KindConflict, "Email already registered", err)
			}
			return err
		}
		return record(audit.Entry{
			ActorID:     actor.ID,
			Action:      models.AuditActionCreate,
			TargetTable: "users",
			TargetID:    u.ID,
			Details:     "Created user: " + u.Email,
		})
	})
	if err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			return nil, err
		}
		return nil, apperr.Internal("creating user", err)
	}
	return u, nil
}
