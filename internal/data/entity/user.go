package entity

import "github.com/google/uuid"

type UserRole string

const (
	RoleAdmin      UserRole = "ADMIN"
	RoleUser       UserRole = "USER"
	RoleStoreOwner UserRole = "STORE_OWNER"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleStoreOwner:
		return true
	}
	return false
}

type User struct {
	Base
	Name         string   `db:"name"`
	Email        string   `db:"email"`
	Address      string   `db:"address"`
	PasswordHash string   `db:"password"`
	Role         UserRole `db:"role"`
}

// Profile is the public part of a user, without the credential.
type Profile struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Address string    `json:"address"`
	Role    UserRole  `json:"role"`
}

func (u *User) Profile() Profile {
	return Profile{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Address: u.Address,
		Role:    u.Role,
	}
}

// Principal is the authenticated caller of a service operation.
type Principal struct {
	UserID uuid.UUID
	Role   UserRole
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

type UserFilter struct {
	Name    string
	Email   string
	Address string
	Role    UserRole
	Sort    string // name, email, address, role
	Desc    bool
}
