package model

// User role constants
const (
	RoleAdmin   = "admin"
	RolePatient = "patient"
)

// User represents a portal account. Role is elevated only through the
// admin-gated promotion endpoint.
type User struct {
	Base
	Email        string `db:"email" json:"email"`
	Name         string `db:"name" json:"name,omitempty"`
	Role         string `db:"role" json:"role"`
	PasswordHash string `db:"password_hash" json:"-"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CreateUserRequest represents self-registration parameters. Password is
// optional; accounts created through the social login flow carry none.
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"omitempty,max=120"`
	Password string `json:"password" binding:"omitempty,min=8"`
}

type AdminStatusResponse struct {
	IsAdmin bool `json:"isAdmin"`
}
