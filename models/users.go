package models

import "time"

type User struct {
	ID           uint   `gorm:"primaryKey" json:"user_id"`
	Username     string `gorm:"type:varchar(100);unique;not null" json:"username"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	FullName     string `gorm:"type:varchar(255);not null" json:"full_name"`
	Role         string `gorm:"type:varchar(50);not null" json:"role"` // admin, cashier
	IsActive     bool   `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
