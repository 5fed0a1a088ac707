package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrAppendOnly is returned by model hooks guarding ledger tables.
var ErrAppendOnly = errors.New("append-only record cannot be modified")

type ContactType string

const (
	ContactCall       ContactType = "CALL"
	ContactVisit      ContactType = "VISIT"
	ContactCounseling ContactType = "COUNSELING"
	ContactEvent      ContactType = "EVENT"
	ContactOther      ContactType = "OTHER"
)

func (t ContactType) Valid() bool {
	switch t {
	case ContactCall, ContactVisit, ContactCounseling, ContactEvent, ContactOther:
		return true
	}
	return false
}

// Contact is one outreach interaction with a member.
type Contact struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	MemberID        uint        `gorm:"index;not null" json:"member_id"`
	Member          *Member     `gorm:"foreignKey:MemberID" json:"-"`
	UserID          uint        `gorm:"index;not null" json:"user_id"`
	User            *User       `gorm:"foreignKey:UserID" json:"-"`
	Type            ContactType `gorm:"size:20;not null" json:"type"`
	Notes           *string     `gorm:"type:text" json:"notes"`
	NextContactDate *string     `gorm:"size:10" json:"next_contact_date"`
	CreatedAt       time.Time   `gorm:"index" json:"created_at"`
}

func (Contact) BeforeUpdate(*gorm.DB) error { return ErrAppendOnly }
func (Contact) BeforeDelete(*gorm.DB) error { return ErrAppendOnly }

type ContactView struct {
	Contact
	UserName string `json:"user_name"`
}

func NewContactView(c Contact) ContactView {
	v := ContactView{Contact: c}
	if c.User != nil {
		v.UserName = c.User.Name
	}
	return v
}
