package models

import "time"

type Ticket struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Project     string    `gorm:"type:varchar(255)" json:"project"`
	WorkType    string    `gorm:"type:varchar(100)" json:"workType"`
	Status      string    `gorm:"type:varchar(50);not null;default:'todo'" json:"status"`
	Summary     string    `gorm:"type:varchar(500)" json:"summary"`
	Description string    `gorm:"type:text" json:"description"`
	AssigneeID  *uint64   `json:"assigneeId"`
	Team        string    `gorm:"type:varchar(255)" json:"team"`
	GameName    string    `gorm:"type:varchar(255)" json:"gameName"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Relations
	Assignee    *User        `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	Attachments []Attachment `gorm:"foreignKey:TicketID" json:"attachments"`
}
