package models

// Report is a performed service with its formula and notes (/api/reportes).
type Report struct {
	ID              int64   `json:"id"`
	ClienteID       int64   `json:"clienteId,omitempty"`
	ColoracionID    int64   `json:"coloracionId,omitempty"`
	ClienteNombre   string  `json:"clienteNombre"`
	ClienteTelefono string  `json:"clienteTelefono,omitempty"`
	ClienteEmail    string  `json:"clienteEmail,omitempty"`
	Fecha           string  `json:"fecha,omitempty"`
	HoraServicio    string  `json:"horaServicio,omitempty"`
	Coloracion      string  `json:"coloracion,omitempty"`
	ColoracionDesc  string  `json:"coloracion_desc,omitempty"`
	Formula         string  `json:"formula,omitempty"`
	Observaciones   string  `json:"observaciones,omitempty"`
	Precio          float64 `json:"precio,omitempty"`
	CreatedAt       string  `json:"createdAt,omitempty"`
	UpdatedAt       string  `json:"updatedAt,omitempty"`
}

// ReportUpdate is the body of PUT /api/reportes/{id}. Coloracion carries the
// coloration id, not its name.
type ReportUpdate struct {
	IDReporte     int64   `json:"idReporte"`
	ClienteID     int64   `json:"clienteId" validate:"required,gt=0"`
	Coloracion    int64   `json:"coloracion" validate:"required,gt=0"`
	Formula       string  `json:"formula"`
	Observaciones string  `json:"observaciones"`
	Precio        float64 `json:"precio"`
}
