package devserver

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/octabyte/salon-gommon/models"
)

const clientNotFound = "Cliente no encontrado"

func (s *Server) listClients(c echo.Context) error {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	return ok(c, byID(s.db.clients))
}

func (s *Server) searchClients(c echo.Context) error {
	nombre, email, telefono := c.QueryParam("nombre"), c.QueryParam("email"), c.QueryParam("telefono")

	s.db.mu.RLock()
	all := byID(s.db.clients)
	s.db.mu.RUnlock()

	matched := make([]models.Client, 0, len(all))
	for _, cl := range all {
		if contains(cl.Nombre, nombre) && contains(cl.Email, email) && contains(cl.Telefono, telefono) {
			matched = append(matched, cl)
		}
	}

	byCreated := c.QueryParam("sortField") == "created_at"
	desc := descending(c)
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i].Nombre, matched[j].Nombre
		if byCreated {
			a, b = matched[i].CreatedAt, matched[j].CreatedAt
		}
		if desc {
			return a > b
		}
		return a < b
	})

	page, total, pages := paginate(matched, intQuery(c, "page", 1), intQuery(c, "size", 10))
	return ok(c, models.ClientPage{Clients: page, Total: total, Pages: pages})
}

func (s *Server) createClient(c echo.Context) error {
	var in models.Client
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "Solicitud inválida")
	}
	if err := c.Validate(&in); err != nil {
		return fail(c, http.StatusBadRequest, "El nombre es obligatorio y el email debe ser válido")
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	in.ID = s.db.id()
	in.CreatedAt = s.opts.Now().UTC().Format(timeLayout)
	s.db.clients[in.ID] = in
	return ok(c, in)
}

func (s *Server) updateClient(c echo.Context) error {
	id, valid := idParam(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "Identificador inválido")
	}
	var in models.Client
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "Solicitud inválida")
	}
	if err := c.Validate(&in); err != nil {
		return fail(c, http.StatusBadRequest, "El nombre es obligatorio y el email debe ser válido")
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	current, found := s.db.clients[id]
	if !found {
		return fail(c, http.StatusNotFound, clientNotFound)
	}
	current.Nombre, current.Email, current.Telefono = in.Nombre, in.Email, in.Telefono
	s.db.clients[id] = current
	return ok(c, current)
}

func (s *Server) deleteClient(c echo.Context) error {
	id, valid := idParam(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "Identificador inválido")
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, found := s.db.clients[id]; !found {
		return fail(c, http.StatusNotFound, clientNotFound)
	}
	delete(s.db.clients, id)
	return ok(c, nil)
}
