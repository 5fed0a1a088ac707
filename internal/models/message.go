package models

import "time"

// Message is internal staff mail. A nil RecipientID means the message is
// unaddressed and only its sender sees it.
type Message struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SenderID    uint      `gorm:"index;not null" json:"sender_id"`
	Sender      *User     `gorm:"foreignKey:SenderID" json:"-"`
	RecipientID *uint     `gorm:"index" json:"recipient_id"`
	Recipient   *User     `gorm:"foreignKey:RecipientID" json:"-"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	IsRead      Flag      `gorm:"type:integer;not null" json:"is_read"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

type MessageView struct {
	Message
	SenderName string `json:"sender_name"`
}

func NewMessageView(m Message) MessageView {
	v := MessageView{Message: m}
	if m.Sender != nil {
		v.SenderName = m.Sender.Name
	}
	return v
}
