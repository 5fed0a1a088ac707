// Package storetest opens throwaway sqlite-backed stores for tests.
package storetest

import (
	"context"
	"path/filepath"
	"testing"

	"pastoral-backend/internal/database"
	"pastoral-backend/internal/models"
	"pastoral-backend/internal/store"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// New returns a migrated store on a temp-file database removed after the test.
func New(t *testing.T) (*store.GormStore, *gorm.DB) {
	t.Helper()

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "pastoral-test.db"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	s := store.NewGormStore(db)
	t.Cleanup(func() { _ = s.Close() })
	return s, db
}

// CreateUser inserts a staff user whose password equals "password".
func CreateUser(t *testing.T, s store.Store, name, email string, role models.UserRole) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	u := &models.User{Name: name, Email: email, PasswordHash: string(hash), Role: role}
	if err := s.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("creating user %s: %v", email, err)
	}
	return u
}

// AuditCount counts audit entries for one target row.
func AuditCount(t *testing.T, db *gorm.DB, table string, id uint) int64 {
	t.Helper()

	var n int64
	if err := db.Model(&models.AuditLog{}).
		Where("target_table = ? AND target_id = ?", table, id).
		Count(&n).Error; err != nil {
		t.Fatalf("counting audit rows: %v", err)
	}
	return n
}
