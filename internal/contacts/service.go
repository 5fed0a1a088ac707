// Package contacts is the per-member outreach ledger. Entries are only ever
// appended; the acting staff member is always recorded as the author.
package contacts

import (
	"context"
	"errors"
	"strings"

	"pastoral-backend/internal/apperr"
	"pastoral-backend/internal/auth"
	"pastoral-backend/internal/models"
	"pastoral-backend/internal/payload"
	"pastoral-backend/internal/store"
)

type Input struct {
	Type            models.ContactType
	Notes           *string
	NextContactDate *string
}

// ParseInput reads type, notes and next_contact_date. Any user_id in the body
// is ignored.
func ParseInput(body payload.Map) (Input, error) {
	raw, err := body.RequiredString("type")
	if err != nil {
		return Input{}, err
	}
	kind := models.ContactType(strings.ToUpper(raw))
	if !kind.Valid() {
		return Input{}, apperr.InvalidInput("Invalid contact type: " + raw)
	}

	notes, err := body.OptionalString("notes")
	if err != nil {
		return Input{}, err
	}
	next, err := body.OptionalDate("next_contact_date")
	if err != nil {
		return Input{}, err
	}
	return Input{Type: kind, Notes: notes, NextContactDate: next}, nil
}

type Service struct {
	store store.Store
}

func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// Append records an interaction with memberID authored by actor.
func (s *Service) Append(ctx context.Context, actor auth.Identity, memberID uint, in Input) (*models.Contact, error) {
	ok, err := s.store.Members().Exists(ctx, memberID)
	if err != nil {
		return nil, apperr.Internal("checking member", err)
	}
	if !ok {
		return nil, apperr.NotFound("Member not found")
	}

	c := &models.Contact{
		MemberID:        memberID,
		UserID:          actor.ID,
		Type:            in.Type,
		Notes:           in.Notes,
		NextContactDate: in.NextContactDate,
	}
	if err := s.store.Contacts().Append(ctx, c); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.Wrap(apperr.KindNotFound, "Member not found", err)
		}
		return nil, apperr.Internal("appending contact", err)
	}
	return c, nil
}

// ListForMember returns a member's interactions newest first.
func (s *Service) ListForMember(ctx context.Context, memberID uint) ([]models.ContactView, error) {
	ok, err := s.store.Members().Exists(ctx, memberID)
	if err != nil {
		return nil, apperr.Internal("checking member", err)
	}
	if !ok {
		return nil, apperr.NotFound("Member not found")
	}

	views, err := s.store.Contacts().ListForMember(ctx, memberID)
	if err != nil {
		return nil, apperr.Internal("listing contacts", err)
	}
	return views, nil
}
