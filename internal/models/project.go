package models

import "time"

type Project struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	GameName  string    `gorm:"type:varchar(255);not null" json:"game_name"`
	Phase     string    `gorm:"type:varchar(100)" json:"phase"`
	Category  string    `gorm:"type:varchar(500)" json:"category"`
	CreatedAt time.Time `json:"created_at"`
}
