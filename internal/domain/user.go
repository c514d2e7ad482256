package domain

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is a persisted account record. PasswordHash never leaves the
// service layer: it is excluded from JSON and blanked on listings.
type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"not null"`
	Name         string     `json:"name"`
	Role         Role       `json:"role" gorm:"not null"`
	Active       bool       `json:"isActive" gorm:"not null"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLoginAt  *time.Time `json:"lastLogin,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
