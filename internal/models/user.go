package models

import "time"

// Role values recognised throughout the application.
const (
	RoleVolunteer     = "volunteer"
	RoleAdministrator = "administrator"
)

// Account is the credential record owned by the authentication layer.
// Nothing outside the auth service reads the password hash.
type Account struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserProfile links a username to an account and carries a denormalised role copy.
type UserProfile struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Username  string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"size:255;not null" json:"email"`
	Role      string    `gorm:"size:32;not null;default:volunteer" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserRole is the authoritative role record resolved after authentication.
type UserRole struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"size:36;uniqueIndex;not null" json:"user_id"`
	Role      string    `gorm:"size:32;not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName keeps the original collection name.
func (UserProfile) TableName() string { return "user_profiles" }

// TableName keeps the original collection name.
func (UserRole) TableName() string { return "user_roles" }
