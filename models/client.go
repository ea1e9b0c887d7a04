package models

// Client is a salon customer record (/api/clientes).
type Client struct {
	ID        int64  `json:"id,omitempty"`
	Nombre    string `json:"nombre" validate:"required"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Telefono  string `json:"telefono,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// ClientPage is one page of a client search. The backend has used both
// "clients" and "clientes" for the item key.
type ClientPage struct {
	Clients []Client `json:"clients"`
	Total   int      `json:"total"`
	Pages   int      `json:"pages"`
}
