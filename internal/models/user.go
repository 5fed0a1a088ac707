package models

import "time"

type UserRole string

const (
	RoleAdmin  UserRole = "ADMIN"
	RolePastor UserRole = "PASTOR"
	RoleLeader UserRole = "LEADER"
	RoleTeam   UserRole = "TEAM"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RolePastor, RoleLeader, RoleTeam:
		return true
	}
	return false
}

// User is a staff identity. Role changes happen outside the API.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"type:text;not null" json:"name"`
	Email        string    `gorm:"type:text;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         UserRole  `gorm:"size:20;not null;index" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`
}
