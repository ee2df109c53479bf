package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID          int64      `json:"id" db:"id" example:"1"`
	Email       string     `json:"email" db:"email" example:"tutor@edusiastic.com"`
	Password    string     `json:"-" db:"password"` // hashed, excluded from JSON
	FirstName   string     `json:"firstName" db:"first_name" example:"Ade"`
	LastName    string     `json:"lastName" db:"last_name" example:"Okafor"`
	RoleType    RoleType   `json:"roleType" db:"role_type" example:"TEACHER"`
	IsActive    bool       `json:"isActive" db:"is_active" example:"true"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at" example:"2024-01-02T15:30:00Z"`
}

// FullName returns the user's display name
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
