package models

// Coloration is a service catalog entry (/api/coloraciones).
type Coloration struct {
	ID          int64  `json:"id,omitempty"`
	Nombre      string `json:"nombre" validate:"required"`
	Descripcion string `json:"descripcion,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}
