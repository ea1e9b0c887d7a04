package devserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/octabyte/salon-gommon/models"
)

const colorationNotFound = "Coloración no encontrada"

func (s *Server) listColorations(c echo.Context) error {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	return ok(c, byID(s.db.colorations))
}

// searchColorations wraps its result in {coloraciones}, unlike the list.
func (s *Server) searchColorations(c echo.Context) error {
	query := c.QueryParam("query")

	s.db.mu.RLock()
	all := byID(s.db.colorations)
	s.db.mu.RUnlock()

	matched := make([]models.Coloration, 0, len(all))
	for _, col := range all {
		if contains(col.Nombre, query) || contains(col.Descripcion, query) {
			matched = append(matched, col)
		}
	}
	return ok(c, map[string]any{"coloraciones": matched})
}

func (s *Server) createColoration(c echo.Context) error {
	var in models.Coloration
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "Solicitud inválida")
	}
	if err := c.Validate(&in); err != nil {
		return fail(c, http.StatusBadRequest, "El nombre es obligatorio")
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	now := s.opts.Now().UTC().Format(timeLayout)
	in.ID, in.CreatedAt, in.UpdatedAt = s.db.id(), now, now
	s.db.colorations[in.ID] = in
	return ok(c, in)
}

func (s *Server) updateColoration(c echo.Context) error {
	id, valid := idParam(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "Identificador inválido")
	}
	var in models.Coloration
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "Solicitud inválida")
	}
	if err := c.Validate(&in); err != nil {
		return fail(c, http.StatusBadRequest, "El nombre es obligatorio")
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	current, found := s.db.colorations[id]
	if !found {
		return fail(c, http.StatusNotFound, colorationNotFound)
	}
	current.Nombre, current.Descripcion = in.Nombre, in.Descripcion
	current.UpdatedAt = s.opts.Now().UTC().Format(timeLayout)
	s.db.colorations[id] = current
	return ok(c, current)
}

func (s *Server) deleteColoration(c echo.Context) error {
	id, valid := idParam(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "Identificador inválido")
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, found := s.db.colorations[id]; !found {
		return fail(c, http.StatusNotFound, colorationNotFound)
	}
	delete(s.db.colorations, id)
	return ok(c, nil)
}
