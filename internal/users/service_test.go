package users

import (
	"context"
	"encoding/json"
	"testing"

	"pastoral-backend/internal/apperr"
	"pastoral-backend/internal/audit"
	"pastoral-backend/internal/auth"
	"pastoral-backend/internal/models"
	"pastoral-backend/internal/payload"
	"pastoral-backend/internal/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateUserAuditsAndRejectsDuplicates(t *testing.T) {
	s, db := storetest.New(t)
	admin := storetest.CreateUser(t, s, "Admin", "admin@example.com", models.RoleAdmin)
	svc := NewService(s, audit.NewRecorder(zap.NewNop(), nil))
	svc.cost = bcrypt.MinCost
	ctx := context.Background()
	actor := auth.Identity{ID: admin.ID, Role: models.RoleAdmin}

	u, err := svc.Create(ctx, actor, NewUser{Name: "Lia", Email: "lia@example.com", Password: "longenough", Role: models.RoleTeam})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("longenough")))
	assert.Equal(t, int64(1), storetest.AuditCount(t, db, "users", u.ID))

	_, err = svc.Create(ctx, actor, NewUser{Name: "Lia 2", Email: "lia@example.com", Password: "longenough", Role: models.RoleTeam})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	raw, err := json.Marshal(list[0])
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
}

func TestParseNewUser(t *testing.T) {
	m, err := payload.Decode([]byte(`{"name":"Lia","email":" LIA@Example.com ","password":"longenough","role":"leader"}`))
	require.NoError(t, err)
	nu, err := ParseNewUser(m)
	require.NoError(t, err)
	assert.Equal(t, "lia@example.com", nu.Email)
	assert.Equal(t, models.RoleLeader, nu.Role)

	for _, body := range []string{
		`{"email":"a@b.c","password":"longenough","role":"TEAM"}`,
		`{"name":"Lia","email":"nope","password":"longenough","role":"TEAM"}`,
		`{"name":"Lia","email":"a@b.c","password":"short","role":"TEAM"}`,
		`{"name":"Lia","email":"a@b.c","password":"longenough","role":"BISHOP"}`,
	} {
		m, err := payload.Decode([]byte(body))
		require.NoError(t, err)
		_, err = ParseNewUser(m)
		assert.True(t, apperr.Is(err, apperr.KindInvalidInput), body)
	}
}
