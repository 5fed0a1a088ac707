// Package store is the persistence boundary. Services receive a Store and
// open scoped transactions through WithTx so that every mutation and its
// audit entry commit or roll back together.
package store

import (
	"context"
	"errors"

	"pastoral-backend/internal/models"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

type Store interface {
	Users() UserRepository
	Members() MemberRepository
	Contacts() ContactRepository
	Audit() AuditRepository
	Messages() MessageRepository

	// WithTx runs fn inside a transaction. The Store passed to fn is bound to
	// that transaction; a non-nil error from fn rolls everything back.
	WithTx(ctx context.Context, fn func(tx Store) error) error

	Ping(ctx context.Context) error
	Close() error
}

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Exists(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context) ([]models.User, error)
}

type MemberRepository interface {
	Create(ctx context.Context, m *models.Member) error
	// Replace overwrites every mutable column of an existing member.
	Replace(ctx context.Context, m *models.Member) error
	GetByID(ctx context.Context, id uint) (*models.Member, error)
	GetView(ctx context.Context, id uint) (*models.MemberView, error)
	ListViews(ctx context.Context) ([]models.MemberView, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	CountByNeighborhood(ctx context.Context) ([]NeighborhoodCount, error)
}

type ContactRepository interface {
	Append(ctx context.Context, c *models.Contact) error
	ListForMember(ctx context.Context, memberID uint) ([]models.ContactView, error)
}

type AuditRepository interface {
	Append(ctx context.Context, l *models.AuditLog) error
	List(ctx context.Context, f AuditFilter) ([]models.AuditLogView, error)
}

type MessageRepository interface {
	Create(ctx context.Context, m *models.Message) error
	GetByID(ctx context.Context, id uint) (*models.Message, error)
	MarkRead(ctx context.Context, id uint) error
	ListFor(ctx context.Context, userID uint) ([]models.MessageView, error)
}

type StatusCount struct {
	Status models.MemberStatus `json:"status"`
	Count  int64               `json:"count"`
}

type NeighborhoodCount struct {
	Neighborhood *string `json:"neighborhood"`
	Count        int64   `json:"count"`
}

// AuditFilter narrows an audit listing. Zero values mean "any".
type AuditFilter struct {
	UserID      uint
	Action      models.AuditAction
	TargetTable string
	TargetID    uint
	Limit       int
	Offset      int
}
