package models

import "github.com/octabyte/salon-gommon/enums"

// Account is a dashboard user as managed from the administration screen.
type Account struct {
	ID        int64      `json:"id,omitempty"`
	Name      string     `json:"name" validate:"required"`
	Email     string     `json:"email" validate:"required,email"`
	Password  string     `json:"password,omitempty"`
	Role      enums.Role `json:"role" validate:"oneof=1 2"`
	CreatedAt string     `json:"createdAt,omitempty"`
}

// AccountPage is one page of a user search.
type AccountPage struct {
	Users []Account `json:"users"`
	Total int       `json:"total"`
	Pages int       `json:"pages"`
}

// AccountInput is the create/edit form for an account. ConfirmPassword is
// checked locally and never sent.
type AccountInput struct {
	ID              int64      `json:"id,omitempty"`
	Name            string     `json:"name" validate:"required"`
	Email           string     `json:"email" validate:"required,email"`
	Password        string     `json:"password,omitempty"`
	ConfirmPassword string     `json:"-"`
	Role            enums.Role `json:"role" validate:"oneof=1 2"`
}
