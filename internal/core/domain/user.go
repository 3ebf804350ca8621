package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Roles lists every role a user may hold.
var Roles = []string{RoleUser, RoleAdmin}

// IsValidRole reports whether role is one of Roles.
func IsValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// User models an account in the credential store.
type User struct {
	ID           uint      `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserUpdate carries the mutable fields of a user. Nil fields are left as is.
type UserUpdate struct {
	Username *string
	Role     *string
}

// Empty reports whether the update changes nothing.
func (u UserUpdate) Empty() bool {
	return u.Username == nil && u.Role == nil
}

// Apply copies the non-nil fields onto user.
func (u UserUpdate) Apply(user *User) {
	if u.Username != nil {
		user.Username = *u.Username
	}
	if u.Role != nil {
		user.Role = *u.Role
	}
}
