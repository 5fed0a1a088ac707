package audit

import (
	"context"
	"fmt"

	"pastoral-backend/internal/metrics"
	"pastoral-backend/internal/models"
	"pastoral-backend/internal/store"

	"go.uber.org/zap"
)

// Entry describes one state change to be written to the ledger.
type Entry struct {
	ActorID     uint
	Action      models.AuditAction
	TargetTable string
	TargetID    uint
	Details     string
}

// Recorder writes ledger entries inside the transaction of the mutation they
// document, and mirrors them to the log and metrics once that transaction has
// committed.
type Recorder struct {
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewRecorder(log *zap.Logger, m *metrics.Metrics) *Recorder {
	return &Recorder{log: log, metrics: m}
}

// RecordFunc appends one entry through the surrounding transaction.
type RecordFunc func(Entry) error

// Transact runs fn in a transaction on s. Entries passed to record are written
// through the transaction; a failed write fails it. Nothing is logged or
// counted unless the transaction commits.
func (r *Recorder) Transact(ctx context.Context, s store.Store, fn func(tx store.Store, record RecordFunc) error) error {
	var written []models.AuditLog
	err := s.WithTx(ctx, func(tx store.Store) error {
		return fn(tx, func(e Entry) error {
			entry, err := r.write(ctx, tx, e)
			if err != nil {
				return err
			}
			written = append(written, entry)
			return nil
		})
	})
	if err != nil {
		return err
	}
	for _, entry := range written {
		r.committed(entry)
	}
	return nil
}

func (r *Recorder) write(ctx context.Context, tx store.Store, e Entry) (models.AuditLog, error) {
	entry := models.AuditLog{
		UserID:      e.ActorID,
		Action:      e.Action,
		TargetTable: e.TargetTable,
		TargetID:    e.TargetID,
		Details:     e.Details,
	}
	if err := tx.Audit().Append(ctx, &entry); err != nil {
		return models.AuditLog{}, fmt.Errorf("writing audit entry for %s %d: %w", e.TargetTable, e.TargetID, err)
	}
	return entry, nil
}

func (r *Recorder) committed(entry models.AuditLog) {
	r.metrics.IncrementAuditEntries(entry.TargetTable, string(entry.Action))
	r.log.Info("audit event",
		zap.Bool("audit", true),
		zap.Uint("audit_id", entry.ID),
		zap.Uint("actor_id", entry.UserID),
		zap.String("action", string(entry.Action)),
		zap.String("target_table", entry.TargetTable),
		zap.Uint("target_id", entry.TargetID),
		zap.String("details", entry.Details),
	)
}

// List returns ledger entries newest first.
func List(ctx context.Context, s store.Store, f store.AuditFilter) ([]models.AuditLogView, error) {
	return s.Audit().List(ctx, f)
}
