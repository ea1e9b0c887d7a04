package resources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/octabyte/salon-gommon/enums"
	"github.com/octabyte/salon-gommon/models"
)

type ClientsAPI struct {
	*base
}

// Search runs a paginated client search.
func (c *ClientsAPI) Search(ctx context.Context, q models.ClientQuery) (*models.ClientPage, error) {
	data, err := c.get(ctx, enums.ClientsResource+"/search-pagination?"+clientQueryValues(q).Encode())
	if err != nil {
		return nil, err
	}

	clients, err := decodeAll[models.Client](items(data, "clients", "clientes"))
	if err != nil {
		return nil, fmt.Errorf("decode clients: %w", err)
	}

	total, pages := pageCounts(data, len(clients))
	return &models.ClientPage{Clients: clients, Total: total, Pages: pages}, nil
}

func (c *ClientsAPI) List(ctx context.Context) ([]models.Client, error) {
	data, err := c.get(ctx, enums.ClientsResource+"/")
	if err != nil {
		return nil, err
	}
	clients, err := decodeAll[models.Client](items(data, "clientes", "clients"))
	if err != nil {
		return nil, fmt.Errorf("decode clients: %w", err)
	}
	return clients, nil
}

func (c *ClientsAPI) Create(ctx context.Context, client models.Client) (*models.Client, error) {
	if err := c.validate.Struct(client); err != nil {
		return nil, fmt.Errorf("invalid client: %w", err)
	}
	client.ID = 0
	return c.save(ctx, http.MethodPost, enums.ClientsResource+"/", client)
}

func (c *ClientsAPI) Update(ctx context.Context, client models.Client) (*models.Client, error) {
	if client.ID <= 0 {
		return nil, fmt.Errorf("invalid client: missing id")
	}
	if err := c.validate.Struct(client); err != nil {
		return nil, fmt.Errorf("invalid client: %w", err)
	}
	return c.save(ctx, http.MethodPut, itemPath(enums.ClientsResource, client.ID), client)
}

func (c *ClientsAPI) Delete(ctx context.Context, id int64) error {
	_, err := c.call(ctx, http.MethodDelete, itemPath(enums.ClientsResource, id), nil)
	return err
}

// save sends client and returns the stored record, or client itself when the
// backend echoes nothing.
func (c *ClientsAPI) save(ctx context.Context, method, path string, client models.Client) (*models.Client, error) {
	data, err := c.call(ctx, method, path, client)
	if err != nil {
		return nil, err
	}
	stored := unwrap(data, "cliente")
	if !stored.IsObject() {
		return &client, nil
	}
	var out models.Client
	if err := json.Unmarshal([]byte(stored.Raw), &out); err != nil {
		return nil, fmt.Errorf("decode client: %w", err)
	}
	return &out, nil
}

func clientQueryValues(q models.ClientQuery) url.Values {
	v := paging(q.Page, q.Size, q.SortField, q.SortOrder, "nombre")
	v.Set("nombre", q.Nombre)
	v.Set("email", q.Email)
	v.Set("telefono", q.Telefono)
	return v
}

func paging(page, size int, sortField string, order enums.SortOrder, defaultField string) url.Values {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	if sortField == "" {
		sortField = defaultField
	}
	if order == "" {
		order = enums.SortAsc
	}

	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	v.Set("size", strconv.Itoa(size))
	v.Set("sortField", sortField)
	v.Set("sortOrder", string(order))
	return v
}
