// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Name         string    `db:"name"`
	Role         string    `db:"role"`
	IsAdmin      bool      `db:"is_admin"`
	TokenVersion int       `db:"token_version"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// EffectiveAdmin is the only admin predicate. The is_admin column predates
// roles and is still honored.
func (u *User) EffectiveAdmin() bool {
	return u.Role == RoleAdmin || u.IsAdmin
}

// SetRole keeps the legacy flag in step with the role.
func (u *User) SetRole(role string) {
	u.Role = role
	u.IsAdmin = role == RoleAdmin
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
