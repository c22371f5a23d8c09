package models

import "time"

type Attachment struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	TicketID    uint64    `gorm:"not null" json:"ticketId"`
	Filename    string    `gorm:"type:varchar(255);not null" json:"filename"`
	ContentType string    `gorm:"type:varchar(255)" json:"contentType"`
	Size        int64     `json:"size"`
	Data        []byte    `gorm:"not null" json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TableName keeps the table name used by the original schema.
func (Attachment) TableName() string {
	return "ticket_attachments"
}
