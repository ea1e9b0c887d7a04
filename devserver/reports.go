package devserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/octabyte/salon-gommon/models"
)

const (
	timeLayout     = "2006-01-02T15:04:05Z"
	reportNotFound = "Reporte no encontrado"
)

func (s *Server) listReports(c echo.Context) error {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	return ok(c, map[string]any{"reportes": byID(s.db.reports)})
}

func (s *Server) getReport(c echo.Context) error {
	id, valid := idParam(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "Identificador inválido")
	}

	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	report, found := s.db.reports[id]
	if !found {
		return fail(c, http.StatusNotFound, reportNotFound)
	}
	return ok(c, map[string]any{"reporte": report})
}

func (s *Server) createReport(c echo.Context) error {
	var in models.ReportUpdate
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "Solicitud inválida")
	}
	if err := c.Validate(&in); err != nil {
		return fail(c, http.StatusBadRequest, "Selecciona cliente y servicio")
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	now := s.opts.Now().UTC().Format(timeLayout)
	report := models.Report{ID: s.db.id(), Fecha: now, CreatedAt: now}
	if msg := s.applyReport(&report, in); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}
	s.db.reports[report.ID] = report
	return ok(c, report)
}

func (s *Server) updateReport(c echo.Context) error {
	id, valid := idParam(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "Identificador inválido")
	}
	var in models.ReportUpdate
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "Solicitud inválida")
	}
	if err := c.Validate(&in); err != nil {
		return fail(c, http.StatusBadRequest, "Selecciona cliente y servicio")
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	report, found := s.db.reports[id]
	if !found {
		return fail(c, http.StatusNotFound, reportNotFound)
	}
	if msg := s.applyReport(&report, in); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}
	report.UpdatedAt = s.opts.Now().UTC().Format(timeLayout)
	s.db.reports[id] = report
	return ok(c, report)
}

// applyReport copies in onto report, denormalizing the client and
// coloration. It returns a user-facing message when a reference is unknown.
// Caller holds the write lock.
func (s *Server) applyReport(report *models.Report, in models.ReportUpdate) string {
	client, found := s.db.clients[in.ClienteID]
	if !found {
		return clientNotFound
	}
	col, found := s.db.colorations[in.Coloracion]
	if !found {
		return colorationNotFound
	}

	report.ClienteID = client.ID
	report.ClienteNombre = client.Nombre
	report.ClienteTelefono = client.Telefono
	report.ClienteEmail = client.Email
	report.ColoracionID = col.ID
	report.Coloracion = col.Nombre
	report.ColoracionDesc = col.Descripcion
	report.Formula = in.Formula
	report.Observaciones = in.Observaciones
	report.Precio = in.Precio
	return ""
}
