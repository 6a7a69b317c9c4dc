package models

import "time"

type Category struct {
	ID          uint      `gorm:"primaryKey" json:"category_id"`
	Name        string    `gorm:"type:varchar(100);unique;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
