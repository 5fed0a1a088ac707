// Package messages is internal staff mail. A message is visible only to its
// sender and its recipient; one sent without a recipient stays in the
// sender's own list.
package messages

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
	RecipientID *uint
	Content     string
}

func ParseInput(body payload.Map) (Input, error) {
	recipient, err := body.OptionalID("recipient_id")
	if err != nil {
		return Input{}, err
	}
	raw, err := body.OptionalString("content")
	if err != nil {
		return Input{}, err
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return Input{}, apperr.InvalidInput("content is required")
	}
	return Input{RecipientID: recipient, Content: *raw}, nil
}

type Service struct {
	store store.Store
}

func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// List returns the messages the caller sent or received, newest first.
func (s *Service) List(ctx context.Context, actor auth.Identity) ([]models.MessageView, error) {
	views, err := s.store.Messages().ListFor(ctx, actor.ID)
	if err != nil {
		return nil, apperr.Internal("listing messages", err)
	}
	return views, nil
}

func (s *Service) Send(ctx context.Context, actor auth.Identity, in Input) (*models.Message, error) {
	if in.RecipientID != nil {
		ok, err := s.store.Users().Exists(ctx, *in.RecipientID)
		if err != nil {
			return nil, apperr.Internal("checking recipient", err)
		}
		if !ok {
			return nil, apperr.NotFound("Recipient not found")
		}
	}

	msg := &models.Message{SenderID: actor.ID, RecipientID: in.RecipientID, Content: in.Content}
	if err := s.store.Messages().Create(ctx, msg); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.Wrap(apperr.KindNotFound, "Recipient not found", err)
		}
		return nil, apperr.Internal("sending message", err)
	}
	return msg, nil
}

// MarkRead flags a message as read. Only its addressed recipient may do so.
func (s *Service) MarkRead(ctx context.Context, actor auth.Identity, id uint) error {
	msg, err := s.store.Messages().GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound("Message not found")
	}
	if err != nil {
		return apperr.Internal("loading message", err)
	}
	if msg.RecipientID == nil || *msg.RecipientID != actor.ID {
		return apperr.Forbidden("Only the recipient can mark a message as read")
	}
	if msg.IsRead {
		return nil
	}
	if err := s.store.Messages().MarkRead(ctx, id); err != nil {
		return apperr.Internal("marking message read", err)
	}
	return nil
}
