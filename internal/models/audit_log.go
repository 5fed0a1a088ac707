package models

import (
	"time"

	"gorm.io/gorm"
)

type AuditAction string

const (
	AuditActionCreate AuditAction = "CREATE"
	AuditActionUpdate AuditAction = "UPDATE"
)

// AuditLog records one state-changing operation. Rows are never updated or deleted.
type AuditLog struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	UserID      uint        `gorm:"index;not null" json:"user_id"`
	User        *User       `gorm:"foreignKey:UserID" json:"-"`
	Action      AuditAction `gorm:"size:20;not null;index" json:"action"`
	TargetTable string      `gorm:"size:50;index:idx_audit_target" json:"target_table"`
	TargetID    uint        `gorm:"index:idx_audit_target" json:"target_id"`
	Details     string      `gorm:"type:text" json:"details"`
	CreatedAt   time.Time   `gorm:"index" json:"created_at"`
}

func (AuditLog) BeforeUpdate(*gorm.DB) error { return ErrAppendOnly }
func (AuditLog) BeforeDelete(*gorm.DB) error { return ErrAppendOnly }

type AuditLogView struct {
	AuditLog
	UserName string `json:"user_name"`
}

func NewAuditLogView(l AuditLog) AuditLogView {
	v := AuditLogView{AuditLog: l}
	if l.User != nil {
		v.UserName = l.User.Name
	}
	return v
}
