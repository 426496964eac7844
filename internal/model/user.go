package model

import "time"

// Role is a user's authorization role.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RolePetugas Role = "PETUGAS"
	RoleOwner   Role = "OWNER"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RolePetugas || r == RoleOwner
}

// User is an operator, administrator or owner account.
type User struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	FullName     string    `gorm:"size:128;not null" json:"full_name"`
	Username     string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	PasswordHash string    `gorm:"size:128;not null" json:"-"`
	Role         Role      `gorm:"size:16;not null" json:"role"`
	Active       bool      `gorm:"not null" json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
