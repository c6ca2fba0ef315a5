package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles. The system must always retain at least one superuser.
const (
	RoleUser      = "user"
	RoleSuperuser = "superuser"
)

// User represents an account. Email is stored lower-cased and trimmed.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string         `gorm:"size:255" json:"-"` // bcrypt hash
	Role      string         `gorm:"size:50;default:user" json:"role"` // user, superuser
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

// IsValidRole reports whether role is one of the known user roles.
func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleSuperuser
}
