package audit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"pastoral-backend/internal/apperr"
	"pastoral-backend/internal/metrics"
	"pastoral-backend/internal/models"
	"pastoral-backend/internal/store"
	"pastoral-backend/internal/storetest"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTransactWritesAndMirrors(t *testing.T) {
	s, db := storetest.New(t)
	u := storetest.CreateUser(t, s, "Ana", "ana@example.com", models.RoleAdmin)
	core, logs := observer.New(zapcore.InfoLevel)
	m := metrics.New()
	rec := NewRecorder(zap.New(core), m)

	err := rec.Transact(context.Background(), s, func(tx store.Store, record RecordFunc) error {
		return record(Entry{
			ActorID:     u.ID,
			Action:      models.AuditActionCreate,
			TargetTable: "members",
			TargetID:    5,
			Details:     "Created member: Joao",
		})
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), storetest.AuditCount(t, db, "members", 5))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuditEntries.WithLabelValues("members", "CREATE")))

	entries := logs.FilterMessage("audit event").All()
	require.Len(t, entries, 1)
	assert.Equal(t, true, entries[0].ContextMap()["audit"])
	assert.Equal(t, "Created member: Joao", entries[0].ContextMap()["details"])
}

func TestTransactWriteFailurePropagates(t *testing.T) {
	s, db := storetest.New(t)
	core, logs := observer.New(zapcore.InfoLevel)
	rec := NewRecorder(zap.New(core), nil)

	// Actor 404 does not exist, so the foreign key rejects the entry.
	err := rec.Transact(context.Background(), s, func(tx store.Store, record RecordFunc) error {
		return record(Entry{ActorID: 404, Action: models.AuditActionUpdate, TargetTable: "members", TargetID: 1})
	})
	require.Error(t, err)
	assert.Zero(t, storetest.AuditCount(t, db, "members", 1))
	assert.Zero(t, logs.FilterMessage("audit event").Len())
}

func TestRolledBackEntriesAreNotMirrored(t *testing.T) {
	s, db := storetest.New(t)
	u := storetest.CreateUser(t, s, "Ana", "ana@example.com", models.RoleAdmin)
	core, logs := observer.New(zapcore.InfoLevel)
	m := metrics.New()
	rec := NewRecorder(zap.New(core), m)

	err := rec.Transact(context.Background(), s, func(tx store.Store, record RecordFunc) error {
		if err := record(Entry{ActorID: u.ID, Action: models.AuditActionUpdate, TargetTable: "members", TargetID: 9}); err != nil {
			return err
		}
		return errors.New("member update failed")
	})
	require.EqualError(t, err, "member update failed")

	assert.Zero(t, storetest.AuditCount(t, db, "members", 9))
	assert.Zero(t, testutil.ToFloat64(m.AuditEntries.WithLabelValues("members", "UPDATE")))
	assert.Zero(t, logs.FilterMessage("audit event").Len())
}

// failingCommit runs the transaction body and then reports a commit error.
type failingCommit struct{ store.Store }

func (f failingCommit) WithTx(ctx context.Context, fn func(tx store.Store) error) error {
	if err := f.Store.WithTx(ctx, fn); err != nil {
		return err
	}
	return errors.New("commit failed")
}

func TestFailedCommitIsNotMirrored(t *testing.T) {
	s, _ := storetest.New(t)
	u := storetest.CreateUser(t, s, "Ana", "ana@example.com", models.RoleAdmin)
	core, logs := observer.New(zapcore.InfoLevel)
	m := metrics.New()
	rec := NewRecorder(zap.New(core), m)

	err := rec.Transact(context.Background(), failingCommit{s}, func(tx store.Store, record RecordFunc) error {
		return record(Entry{ActorID: u.ID, Action: models.AuditActionCreate, TargetTable: "users", TargetID: u.ID})
	})
	require.EqualError(t, err, "commit failed")

	assert.Zero(t, testutil.ToFloat64(m.AuditEntries.WithLabelValues("users", "CREATE")))
	assert.Zero(t, logs.FilterMessage("audit event").Len())
}

func TestListAuditLogsHandler(t *testing.T) {
	s, _ := storetest.New(t)
	u := storetest.CreateUser(t, s, "Ana", "ana@example.com", models.RoleAdmin)
	ctx := context.Background()
	for _, e := range []models.AuditLog{
		{UserID: u.ID, Action: models.AuditActionCreate, TargetTable: "members", TargetID: 1, Details: "Created member: A"},
		{UserID: u.ID, Action: models.AuditActionUpdate, TargetTable: "members", TargetID: 1, Details: "Updated member: A"},
		{UserID: u.ID, Action: models.AuditActionCreate, TargetTable: "members", TargetID: 2, Details: "Created member: B"},
	} {
		require.NoError(t, s.Audit().Append(ctx, &e))
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(apperr.Status(apperr.KindOf(err))).JSON(fiber.Map{"error": apperr.PublicMessage(err)})
		},
	})
	app.Get("/api/audit-logs", ListAuditLogsHandler(s))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/audit-logs?target_table=members&target_id=1&action=update", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got []models.AuditLogView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "Updated member: A", got[0].Details)
	assert.Equal(t, "Ana", got[0].UserName)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/audit-logs?limit=-1", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/audit-logs?limit=2&offset=1", nil))
	require.NoError(t, err)
	got = nil
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 2)
	assert.Equal(t, "Updated member: A", got[0].Details)
}
