package devserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/octabyte/salon-gommon/models"
	"github.com/octabyte/salon-gommon/utils/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const invalidRefreshMessage = "401 Unauthorized: refresh token inválido o expirado"

func (s *Server) login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Solicitud inválida")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Email y contraseña son obligatorios")
	}

	s.db.mu.RLock()
	var found *account
	for _, acc := range s.db.accounts {
		if strings.EqualFold(acc.Email, req.Email) {
			found = acc
			break
		}
	}
	s.db.mu.RUnlock()

	if found == nil || bcrypt.CompareHashAndPassword(found.passwordHash, []byte(req.Password)) != nil {
		return fail(c, http.StatusBadRequest, "Credenciales inválidas")
	}

	session, err := s.issueSession(sessionUser(found.Account))
	if err != nil {
		return err
	}
	logger.LogInfo("login", zap.Int64("user_id", found.ID))
	return ok(c, session)
}

// refresh rotates the refresh token: the presented one is consumed.
func (s *Server) refresh(c echo.Context) error {
	var req models.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Solicitud inválida")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusUnauthorized, invalidRefreshMessage)
	}

	hash := hashToken(req.RefreshToken)

	s.db.mu.Lock()
	grant, found := s.db.refresh[hash]
	delete(s.db.refresh, hash)
	acc := s.db.accounts[req.UserID]
	s.db.mu.Unlock()

	if !found || grant.userID != req.UserID || !s.opts.Now().Before(grant.expiresAt) || acc == nil {
		return fail(c, http.StatusUnauthorized, invalidRefreshMessage)
	}

	session, err := s.issueSession(sessionUser(acc.Account))
	if err != nil {
		return err
	}
	return ok(c, session)
}

func (s *Server) issueSession(user models.User) (*models.Session, error) {
	access, err := s.tokens.accessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, grant, err := s.tokens.refreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	s.db.mu.Lock()
	s.db.refresh[hashToken(refresh)] = grant
	s.db.mu.Unlock()

	return &models.Session{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

func sessionUser(acc models.Account) models.User {
	return models.User{ID: acc.ID, Name: acc.Name, Email: acc.Email, Role: acc.Role}
}
