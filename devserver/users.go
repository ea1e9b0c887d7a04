package devserver

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/octabyte/salon-gommon/enums"
	"github.com/octabyte/salon-gommon/models"
	"github.com/octabyte/salon-gommon/resources"
	salonctx "github.com/octabyte/salon-gommon/utils/context"
	"golang.org/x/crypto/bcrypt"
)

var errEmailTaken = errors.New("email already registered")

const (
	accountNotFound = "Usuario no encontrado"
	emailTaken      = "El email ya está registrado"
)

func (s *Server) searchAccounts(c echo.Context) error {
	nombre, email := c.QueryParam("nombre"), c.QueryParam("email")
	role, _ := strconv.Atoi(c.QueryParam("role"))

	s.db.mu.RLock()
	matched := make([]models.Account, 0, len(s.db.accounts))
	for _, acc := range byID(s.db.accounts) {
		if contains(acc.Name, nombre) && contains(acc.Email, email) && (role == 0 || int(acc.Role) == role) {
			matched = append(matched, acc.Account)
		}
	}
	s.db.mu.RUnlock()

	field := c.QueryParam("sortField")
	desc := descending(c)
	sort.SliceStable(matched, func(i, j int) bool {
		var a, b string
		switch field {
		case "email":
			a, b = matched[i].Email, matched[j].Email
		case "createdAt", "created_at":
			a, b = matched[i].CreatedAt, matched[j].CreatedAt
		default:
			a, b = matched[i].Name, matched[j].Name
		}
		if desc {
			return a > b
		}
		return a < b
	})

	page, total, pages := paginate(matched, intQuery(c, "page", 1), intQuery(c, "size", 10))
	return ok(c, models.AccountPage{Users: page, Total: total, Pages: pages})
}

func (s *Server) createAccount(c echo.Context) error {
	var in models.AccountInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "Solicitud inválida")
	}
	if err := c.Validate(&in); err != nil {
		return fail(c, http.StatusBadRequest, "Nombre, email y rol son obligatorios")
	}
	if !resources.IsStrongPassword(in.Password) {
		return fail(c, http.StatusBadRequest, "La contraseña no cumple los requisitos")
	}

	acc, err := s.AddAccount(in.Name, in.Email, in.Password, in.Role)
	if errors.Is(err, errEmailTaken) {
		return fail(c, http.StatusConflict, emailTaken)
	}
	if err != nil {
		return err
	}
	return ok(c, acc)
}

func (s *Server) updateAccount(c echo.Context) error {
	var in models.AccountInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "Solicitud inválida")
	}
	if err := c.Validate(&in); err != nil || in.ID <= 0 {
		return fail(c, http.StatusBadRequest, "Nombre, email y rol son obligatorios")
	}

	var hash []byte
	if in.Password != "" {
		if !resources.IsStrongPassword(in.Password) {
			return fail(c, http.StatusBadRequest, "La contraseña no cumple los requisitos")
		}
		var err error
		if hash, err = bcrypt.GenerateFromPassword([]byte(in.Password), s.opts.BcryptCost); err != nil {
			return err
		}
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	acc, found := s.db.accounts[in.ID]
	if !found {
		return fail(c, http.StatusNotFound, accountNotFound)
	}
	for id, other := range s.db.accounts {
		if id != in.ID && strings.EqualFold(other.Email, in.Email) {
			return fail(c, http.StatusConflict, emailTaken)
		}
	}

	acc.Name, acc.Email, acc.Role = in.Name, in.Email, in.Role
	if hash != nil {
		acc.passwordHash = hash
	}
	return ok(c, acc.Account)
}

func (s *Server) deleteAccount(c echo.Context) error {
	id, valid := idParam(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "Identificador inválido")
	}
	if me, _ := salonctx.GetSessionFromContext(c.Request().Context()); me.ID == id {
		return fail(c, http.StatusBadRequest, "No puedes eliminar tu propio usuario")
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, found := s.db.accounts[id]; !found {
		return fail(c, http.StatusNotFound, accountNotFound)
	}
	delete(s.db.accounts, id)
	for hash, grant := range s.db.refresh {
		if grant.userID == id {
			delete(s.db.refresh, hash)
		}
	}
	return ok(c, nil)
}

// AddAccount registers a dashboard user directly, bypassing the admin API.
func (s *Server) AddAccount(name, email, password string, role enums.Role) (models.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.opts.BcryptCost)
	if err != nil {
		return models.Account{}, fmt.Errorf("hash password: %w", err)
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, acc := range s.db.accounts {
		if strings.EqualFold(acc.Email, email) {
			return models.Account{}, errEmailTaken
		}
	}

	acc := &account{
		Account: models.Account{
			ID:        s.db.id(),
			Name:      name,
			Email:     email,
			Role:      role,
			CreatedAt: s.opts.Now().UTC().Format(timeLayout),
		},
		passwordHash: hash,
	}
	s.db.accounts[acc.ID] = acc
	return acc.Account, nil
}
