package models

import "time"

type MemberStatus string

const (
	StatusVisitor      MemberStatus = "VISITOR"
	StatusFollowing    MemberStatus = "FOLLOWING"
	StatusDiscipleship MemberStatus = "DISCIPLESHIP"
	StatusIntegrated   MemberStatus = "INTEGRATED"
	StatusAway         MemberStatus = "AWAY"
)

// MemberStatuses lists every lifecycle label in pastoral order.
var MemberStatuses = []MemberStatus{
	StatusVisitor,
	StatusFollowing,
	StatusDiscipleship,
	StatusIntegrated,
	StatusAway,
}

func (s MemberStatus) Valid() bool {
	for _, v := range MemberStatuses {
		if v == s {
			return true
		}
	}
	return false
}

type Member struct {
	ID               uint         `gorm:"primaryKey" json:"id"`
	Name             string       `gorm:"type:text;not null" json:"name"`
	Dob              *string      `gorm:"size:10" json:"dob"`
	Gender           *string      `gorm:"type:text" json:"gender"`
	MaritalStatus    *string      `gorm:"type:text" json:"marital_status"`
	Phone            *string      `gorm:"type:text" json:"phone"`
	Whatsapp         *string      `gorm:"type:text" json:"whatsapp"`
	Email            *string      `gorm:"type:text" json:"email"`
	Address          *string      `gorm:"type:text" json:"address"`
	Neighborhood     *string      `gorm:"type:text;index" json:"neighborhood"`
	City             *string      `gorm:"type:text" json:"city"`
	FirstVisitDate   *string      `gorm:"size:10" json:"first_visit_date"`
	InvitedBy        *string      `gorm:"type:text" json:"invited_by"`
	PreviousChurch   *string      `gorm:"type:text" json:"previous_church"`
	IsBaptized       Flag         `gorm:"type:integer;not null" json:"is_baptized"`
	WantsBaptism     Flag         `gorm:"type:integer;not null" json:"wants_baptism"`
	InGroup          Flag         `gorm:"type:integer;not null" json:"in_group"`
	InterestMinistry *string      `gorm:"type:text" json:"interest_ministry"`
	PastoralNotes    *string      `gorm:"type:text" json:"pastoral_notes"`
	Status           MemberStatus `gorm:"size:20;not null;index" json:"status"`

	// AssignedTo is the staff member responsible for follow-up.
	AssignedTo *uint `gorm:"index" json:"assigned_to"`
	Assignee   *User `gorm:"foreignKey:AssignedTo;constraint:OnDelete:SET NULL" json:"-"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MemberView is a member joined with its assignee's display name.
type MemberView struct {
	Member
	AssignedName *string `json:"assigned_name"`
}

func NewMemberView(m Member) MemberView {
	v := MemberView{Member: m}
	if m.Assignee != nil {
		name := m.Assignee.Name
		v.AssignedName = &name
	}
	return v
}
