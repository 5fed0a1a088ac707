package members

import (
	"context"
	"errors"
	"fmt"

	"pastoral-backend/internal/apperr"
	"pastoral-backend/internal/audit"
	"pastoral-backend/internal/auth"
	"pastoral-backend/internal/models"
	"pastoral-backend/internal/store"
)

const targetTable = "members"

type Options struct {
	StrictTransitions    bool
	OwnershipScopedEdits bool
}

// Service owns member lifecycle changes. Every mutation and its audit entry
// share one transaction.
type Service struct {
	store      store.Store
	recorder   *audit.Recorder
	transition TransitionPolicy
	guard      EditGuard
}

func NewService(s store.Store, rec *audit.Recorder, opts Options) *Service {
	svc := &Service{
		store:      s,
		recorder:   rec,
		transition: AnyTransition,
		guard:      AllowAllEdits,
	}
	if opts.StrictTransitions {
		svc.transition = StrictTransition
	}
	if opts.OwnershipScopedEdits {
		svc.guard = OwnerScopedEdits
	}
	return svc
}

func (s *Service) Create(ctx context.Context, actor auth.Identity, in Input) (uint, error) {
	var m models.Member
	in.apply(&m)

	err := s.recorder.Transact(ctx, s.store, func(tx store.Store, record audit.RecordFunc) error {
		if err := checkAssignee(ctx, tx, in.AssignedTo); err != nil {
			return err
		}
		if err := tx.Members().Create(ctx, &m); err != nil {
			return storeError(err, "Assigned user not found")
		}
		return record(audit.Entry{
			ActorID:     actor.ID,
			Action:      models.AuditActionCreate,
			TargetTable: targetTable,
			TargetID:    m.ID,
			Details:     "Created member: " + m.Name,
		})
	})
	if err != nil {
		return 0, asAppError(err, "creating member")
	}
	return m.ID, nil
}

// Update replaces every mutable field of member id.
func (s *Service) Update(ctx context.Context, actor auth.Identity, id uint, in Input) error {
	err := s.recorder.Transact(ctx, s.store, func(tx store.Store, record audit.RecordFunc) error {
		current, err := tx.Members().GetByID(ctx, id)
		if err != nil {
			return storeError(err, "Member not found")
		}
		if err := s.guard(actor, current); err != nil {
			return err
		}
		if err := s.transition(current.Status, in.Status); err != nil {
			return err
		}
		if err := checkAssignee(ctx, tx, in.AssignedTo); err != nil {
			return err
		}

		next := models.Member{ID: current.ID, CreatedAt: current.CreatedAt}
		in.apply(&next)
		if err := tx.Members().Replace(ctx, &next); err != nil {
			return storeError(err, "Member not found")
		}
		return record(audit.Entry{
			ActorID:     actor.ID,
			Action:      models.AuditActionUpdate,
			TargetTable: targetTable,
			TargetID:    id,
			Details:     "Updated member: " + next.Name,
		})
	})
	return asAppError(err, "updating member")
}

func (s *Service) Get(ctx context.Context, id uint) (*models.MemberView, error) {
	v, err := s.store.Members().GetView(ctx, id)
	if err != nil {
		return nil, asAppError(storeError(err, "Member not found"), "getting member")
	}
	return v, nil
}

// List returns every member, most recently created first.
func (s *Service) List(ctx context.Context) ([]models.MemberView, error) {
	views, err := s.store.Members().ListViews(ctx)
	if err != nil {
		return nil, apperr.Internal("listing members", err)
	}
	return views, nil
}

func checkAssignee(ctx context.Context, tx store.Store, id *uint) error {
	if id == nil {
		return nil
	}
	ok, err := tx.Users().Exists(ctx, *id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound(fmt.Sprintf("Assigned user %d not found", *id))
	}
	return nil
}

// storeError converts store sentinels into client-facing kinds.
func storeError(err error, notFound string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return apperr.Wrap(apperr.KindNotFound, notFound, err)
	case errors.Is(err, store.ErrConflict):
		return apperr.Wrap(apperr.KindConflict, "Member already exists", err)
	default:
		return err
	}
}

// asAppError leaves classified errors alone and marks the rest as internal.
func asAppError(err error, op string) error {
	if err == nil {
		return nil
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	return apperr.Internal(op, err)
}
