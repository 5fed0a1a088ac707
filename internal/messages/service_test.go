package messages

import (
	"context"
	"encoding/json"
	"testing"

	"pastoral-backend/internal/apperr"
	"pastoral-backend/internal/auth"
	"pastoral-backend/internal/models"
	"pastoral-backend/internal/payload"
	"pastoral-backend/internal/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identity(u *models.User) auth.Identity {
	return auth.Identity{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func TestConversationBetweenTwoUsers(t *testing.T) {
	s, _ := storetest.New(t)
	ctx := context.Background()
	a := identity(storetest.CreateUser(t, s, "Ana", "ana@example.com", models.RoleTeam))
	b := identity(storetest.CreateUser(t, s, "Bruno", "bruno@example.com", models.RoleLeader))
	svc := NewService(s)

	_, err := svc.Send(ctx, a, Input{RecipientID: &b.ID, Content: "Can you visit Joao?"})
	require.NoError(t, err)
	_, err = svc.Send(ctx, b, Input{RecipientID: &a.ID, Content: "Yes, on Sunday"})
	require.NoError(t, err)

	got, err := svc.List(ctx, a)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Yes, on Sunday", got[0].Content)
	assert.Equal(t, "Bruno", got[0].SenderName)
	assert.Equal(t, "Can you visit Joao?", got[1].Content)
	assert.Equal(t, "Ana", got[1].SenderName)
	assert.False(t, got[0].CreatedAt.Before(got[1].CreatedAt))
}

func TestSendValidatesRecipient(t *testing.T) {
	s, _ := storetest.New(t)
	ctx := context.Background()
	a := identity(storetest.CreateUser(t, s, "Ana", "ana@example.com", models.RoleTeam))
	c := identity(storetest.CreateUser(t, s, "Carla", "carla@example.com", models.RoleTeam))
	svc := NewService(s)

	missing := uint(999)
	_, err := svc.Send(ctx, a, Input{RecipientID: &missing, Content: "hello"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	msg, err := svc.Send(ctx, a, Input{Content: "Prayer meeting at 7"})
	require.NoError(t, err)
	assert.Nil(t, msg.RecipientID)
	assert.Equal(t, a.ID, msg.SenderID)

	got, err := svc.List(ctx, c)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = svc.List(ctx, a)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Prayer meeting at 7", got[0].Content)
}

func TestContentStoredVerbatim(t *testing.T) {
	s, _ := storetest.New(t)
	ctx := context.Background()
	a := identity(storetest.CreateUser(t, s, "Ana", "ana@example.com", models.RoleTeam))
	b := identity(storetest.CreateUser(t, s, "Bruno", "bruno@example.com", models.RoleTeam))
	svc := NewService(s)

	content := "  Ligar <Maria> depois das 17h &lt;script&gt;alert(1)&lt;/script&gt; "
	body, err := json.Marshal(map[string]any{"recipient_id": b.ID, "content": content})
	require.NoError(t, err)
	m, err := payload.Decode(body)
	require.NoError(t, err)
	in, err := ParseInput(m)
	require.NoError(t, err)

	_, err = svc.Send(ctx, a, in)
	require.NoError(t, err)

	got, err := svc.List(ctx, b)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, content, got[0].Content)
}

func TestMarkRead(t *testing.T) {
	s, _ := storetest.New(t)
	ctx := context.Background()
	a := identity(storetest.CreateUser(t, s, "Ana", "ana@example.com", models.RoleTeam))
	b := identity(storetest.CreateUser(t, s, "Bruno", "bruno@example.com", models.RoleTeam))
	svc := NewService(s)

	msg, err := svc.Send(ctx, a, Input{RecipientID: &b.ID, Content: "hi"})
	require.NoError(t, err)

	assert.True(t, apperr.Is(svc.MarkRead(ctx, a, msg.ID), apperr.KindForbidden))
	assert.True(t, apperr.Is(svc.MarkRead(ctx, b, msg.ID+50), apperr.KindNotFound))

	require.NoError(t, svc.MarkRead(ctx, b, msg.ID))
	require.NoError(t, svc.MarkRead(ctx, b, msg.ID))

	stored, err := s.Messages().GetByID(ctx, msg.ID)
	require.NoError(t, err)
	assert.True(t, bool(stored.IsRead))
}

func TestParseInput(t *testing.T) {
	m, err := payload.Decode([]byte(`{"recipient_id":null,"content":"<b>Hi</b> all","sender_id":42}`))
	require.NoError(t, err)
	in, err := ParseInput(m)
	require.NoError(t, err)
	assert.Nil(t, in.RecipientID)
	assert.Equal(t, "<b>Hi</b> all", in.Content)

	for _, body := range []string{`{}`, `{"content":"   "}`, `{"content":"\n\t"}`, `{"content":"x","recipient_id":"abc"}`} {
		m, err := payload.Decode([]byte(body))
		require.NoError(t, err)
		_, err = ParseInput(m)
		assert.True(t, apperr.Is(err, apperr.KindInvalidInput), body)
	}
}
