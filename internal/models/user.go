package models

import "time"

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleFarmer   UserRole = "farmer"
	RoleBuyer    UserRole = "buyer"
	RoleExporter UserRole = "exporter"
)

type User struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	Name         string   `gorm:"size:100;not null" json:"name"`
	Email        string   `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"size:255;not null" json:"-"`
	Role         UserRole `gorm:"size:20;not null" json:"role"`
	Phone        string   `gorm:"size:30" json:"phone"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
