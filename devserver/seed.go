package devserver

import (
	"fmt"

	"github.com/octabyte/salon-gommon/enums"
	"github.com/octabyte/salon-gommon/models"
)

const (
	SeedAdminEmail    = "admin@salon.local"
	SeedAdminPassword = "Admin1234"
	SeedStaffEmail    = "estilista@salon.local"
	SeedStaffPassword = "Estilo1234"
)

// Seed loads a small demo data set: an admin, a stylist, two clients, two
// colorations and one report.
func (s *Server) Seed() error {
	if _, err := s.AddAccount("Administración", SeedAdminEmail, SeedAdminPassword, enums.RoleAdmin); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if _, err := s.AddAccount("Estilista", SeedStaffEmail, SeedStaffPassword, enums.RoleStaff); err != nil {
		return fmt.Errorf("seed staff: %w", err)
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	now := s.opts.Now().UTC().Format(timeLayout)

	for _, cl := range []models.Client{
		{Nombre: "Ana López", Email: "ana@example.com", Telefono: "555-0101"},
		{Nombre: "Beatriz Ruiz", Email: "bea@example.com", Telefono: "555-0102"},
	} {
		cl.ID, cl.CreatedAt = s.db.id(), now
		s.db.clients[cl.ID] = cl
	}
	for _, col := range []models.Coloration{
		{Nombre: "Balayage", Descripcion: "Aclarado a mano alzada"},
		{Nombre: "Tinte raíz", Descripcion: "Retoque de raíz"},
	} {
		col.ID, col.CreatedAt, col.UpdatedAt = s.db.id(), now, now
		s.db.colorations[col.ID] = col
	}

	clients, colorations := byID(s.db.clients), byID(s.db.colorations)
	report := models.Report{ID: s.db.id(), Fecha: now, CreatedAt: now}
	if msg := s.applyReport(&report, models.ReportUpdate{
		ClienteID:     clients[0].ID,
		Coloracion:    colorations[0].ID,
		Formula:       "9.1 + 30vol",
		Observaciones: "Cuero cabelludo sensible",
		Precio:        85,
	}); msg != "" {
		return fmt.Errorf("seed report: %s", msg)
	}
	s.db.reports[report.ID] = report
	return nil
}
