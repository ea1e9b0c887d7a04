package models

import "github.com/octabyte/salon-gommon/enums"

// ClientQuery filters GET /api/clientes/search-pagination.
type ClientQuery struct {
	Page      int
	Size      int
	Nombre    string
	Email     string
	Telefono  string
	SortField string
	SortOrder enums.SortOrder
}

// AccountQuery filters GET /api/user/search-pagination.
type AccountQuery struct {
	Page      int
	Size      int
	Nombre    string
	Email     string
	Role      string
	SortField string
	SortOrder enums.SortOrder
}
