package models

import "github.com/octabyte/salon-gommon/enums"

// User is the authenticated dashboard operator, as returned by the auth endpoints.
type User struct {
	ID    int64      `json:"id" validate:"required,gt=0"`
	Name  string     `json:"name"`
	Email string     `json:"email,omitempty"`
	Role  enums.Role `json:"role"`
}

func (u User) IsAdmin() bool {
	return u.Role == enums.RoleAdmin
}
