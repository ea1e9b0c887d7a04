package resources

import (
	"context"
	"fmt"
	"net/http"

	"github.com/octabyte/salon-gommon/enums"
	"github.com/octabyte/salon-gommon/models"
	"github.com/tidwall/gjson"
)

const unnamedClient = "Sin nombre"

type ReportsAPI struct {
	*base
}

func (r *ReportsAPI) List(ctx context.Context) ([]models.Report, error) {
	data, err := r.get(ctx, enums.ReportsResource+"/")
	if err != nil {
		return nil, err
	}

	elems := items(data, "reportes")
	out := make([]models.Report, 0, len(elems))
	for _, e := range elems {
		out = append(out, normalizeReport(e))
	}
	return out, nil
}

func (r *ReportsAPI) Get(ctx context.Context, id int64) (*models.Report, error) {
	data, err := r.get(ctx, itemPath(enums.ReportsResource, id))
	if err != nil {
		return nil, err
	}

	report := normalizeReport(unwrap(data, "reporte"))
	if report.ID == 0 {
		report.ID = id
	}
	return &report, nil
}

// Update saves the editable fields of a report and returns the stored
// version, falling back to the submitted values for anything not echoed.
func (r *ReportsAPI) Update(ctx context.Context, id int64, update models.ReportUpdate) (*models.Report, error) {
	if err := r.validate.Struct(update); err != nil {
		return nil, fmt.Errorf("invalid report: %w", err)
	}
	update.IDReporte = id

	data, err := r.call(ctx, http.MethodPut, itemPath(enums.ReportsResource, id), update)
	if err != nil {
		return nil, err
	}

	stored := unwrap(data, "reporte")
	report := normalizeReport(stored)
	if report.ID == 0 {
		report.ID = id
	}
	if report.ClienteID == 0 {
		report.ClienteID = update.ClienteID
	}
	if report.ColoracionID == 0 {
		report.ColoracionID = update.Coloracion
	}
	if !stored.Get("formula").Exists() && !stored.Get("detalle").Exists() {
		report.Formula = update.Formula
	}
	if !stored.Get("observaciones").Exists() && !stored.Get("nota").Exists() {
		report.Observaciones = update.Observaciones
	}
	if !stored.Get("precio").Exists() {
		report.Precio = update.Precio
	}
	return &report, nil
}

// normalizeReport maps every field name the backend has used onto Report.
func normalizeReport(r gjson.Result) models.Report {
	report := models.Report{
		ID:              firstInt(r, "id", "reporteId"),
		ClienteID:       firstInt(r, "clienteId", "cliente.id"),
		ColoracionID:    firstInt(r, "coloracionId", "coloracion.id"),
		ClienteNombre:   firstString(r, "clienteNombre", "cliente.nombre"),
		ClienteTelefono: firstString(r, "clienteTelefono", "cliente.telefono"),
		ClienteEmail:    firstString(r, "clienteEmail", "cliente.email"),
		Fecha:           firstString(r, "fecha", "fechaServicio", "createdAt"),
		HoraServicio:    firstString(r, "horaServicio"),
		Coloracion:      firstString(r, "coloracion", "tipo", "coloracion.nombre"),
		ColoracionDesc:  firstString(r, "coloracion_desc", "coloracion.descripcion"),
		Formula:         firstString(r, "formula", "detalle"),
		Observaciones:   firstString(r, "observaciones", "nota"),
		Precio:          r.Get("precio").Float(),
		CreatedAt:       firstString(r, "createdAt"),
		UpdatedAt:       firstString(r, "updatedAt"),
	}
	if report.ClienteNombre == "" {
		report.ClienteNombre = unnamedClient
	}
	return report
}
