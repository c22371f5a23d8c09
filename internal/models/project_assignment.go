package models

import "time"

// ProjectAssignment links a user to a project by name. A pending
// assignment becomes accepted once the invited user activates.
type ProjectAssignment struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	UserID      uint64    `gorm:"not null" json:"user_id"`
	ProjectName string    `gorm:"type:varchar(255);not null" json:"project_name"`
	Status      string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt   time.Time `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
