package resources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"
	"github.com/octabyte/salon-gommon/enums"
	"github.com/octabyte/salon-gommon/models"
	"github.com/tidwall/gjson"
)

type ColorationsAPI struct {
	*base
}

func (c *ColorationsAPI) List(ctx context.Context) ([]models.Coloration, error) {
	return c.fetch(ctx, enums.ColorationsResource+"/")
}

// Search filters colorations by free text. An empty query lists everything.
func (c *ColorationsAPI) Search(ctx context.Context, query string) ([]models.Coloration, error) {
	if query == "" {
		return c.List(ctx)
	}
	return c.fetch(ctx, enums.ColorationsResource+"/search?query="+url.QueryEscape(query))
}

func (c *ColorationsAPI) Create(ctx context.Context, coloration models.Coloration) (*models.Coloration, error) {
	if err := c.validate.Struct(coloration); err != nil {
		return nil, fmt.Errorf("invalid coloration: %w", err)
	}
	return c.save(ctx, http.MethodPost, enums.ColorationsResource+"/", coloration)
}

func (c *ColorationsAPI) Update(ctx context.Context, coloration models.Coloration) (*models.Coloration, error) {
	if coloration.ID <= 0 {
		return nil, fmt.Errorf("invalid coloration: missing id")
	}
	if err := c.validate.Struct(coloration); err != nil {
		return nil, fmt.Errorf("invalid coloration: %w", err)
	}
	return c.save(ctx, http.MethodPut, itemPath(enums.ColorationsResource, coloration.ID), coloration)
}

func (c *ColorationsAPI) Delete(ctx context.Context, id int64) error {
	_, err := c.call(ctx, http.MethodDelete, itemPath(enums.ColorationsResource, id), nil)
	return err
}

func (c *ColorationsAPI) fetch(ctx context.Context, path string) ([]models.Coloration, error) {
	data, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	elems := items(data, "coloraciones")
	out := make([]models.Coloration, 0, len(elems))
	for _, e := range elems {
		col := decodeColoration(e)
		if col.Nombre == "" {
			continue
		}
		out = append(out, col)
	}
	return out, nil
}

func (c *ColorationsAPI) save(ctx context.Context, method, path string, coloration models.Coloration) (*models.Coloration, error) {
	body := struct {
		Nombre      string `json:"nombre"`
		Descripcion string `json:"descripcion"`
	}{coloration.Nombre, coloration.Descripcion}

	data, err := c.call(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	stored := unwrap(data, "coloracion")
	if !stored.IsObject() {
		return &coloration, nil
	}
	col := decodeColoration(stored)
	return &col, nil
}

// decodeColoration reads a catalog entry; older payloads name it by
// coloracion or tipo instead of nombre.
func decodeColoration(r gjson.Result) models.Coloration {
	var col models.Coloration
	_ = json.Unmarshal([]byte(r.Raw), &col)
	col.ID = firstInt(r, "id")
	if col.Nombre == "" {
		col.Nombre = firstString(r, "coloracion", "tipo")
	}
	return col
}
