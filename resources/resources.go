// Package resources is the typed client for the dashboard's CRUD screens.
// Responses are decoded tolerantly since the backend has shipped several
// shapes for the same payload.
package resources

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/octabyte/salon-gommon/api"
	"github.com/tidwall/gjson"
)

// Resources groups the per-screen clients over one authenticated facade.
type Resources struct {
	Clients     *ClientsAPI
	Colorations *ColorationsAPI
	Reports     *ReportsAPI
	Users       *UsersAPI
}

func New(facade *api.Authenticated) *Resources {
	b := &base{api: facade, validate: validator.New(validator.WithRequiredStructEnabled())}
	return &Resources{
		Clients:     &ClientsAPI{base: b},
		Colorations: &ColorationsAPI{base: b},
		Reports:     &ReportsAPI{base: b},
		Users:       &UsersAPI{base: b},
	}
}

type base struct {
	api      *api.Authenticated
	validate *validator.Validate
}

// call performs one request and returns the envelope's data for inspection.
func (b *base) call(ctx context.Context, method, path string, body any) (gjson.Result, error) {
	var raw json.RawMessage
	if err := b.api.Do(ctx, method, path, body, &raw); err != nil {
		return gjson.Result{}, err
	}
	return gjson.ParseBytes(raw), nil
}

func (b *base) get(ctx context.Context, path string) (gjson.Result, error) {
	return b.call(ctx, http.MethodGet, path, nil)
}

func itemPath(resource string, id int64) string {
	return resource + "/" + strconv.FormatInt(id, 10)
}

// items returns the array under the first present key, or data itself when
// it is an array.
func items(data gjson.Result, keys ...string) []gjson.Result {
	if data.IsArray() {
		return data.Array()
	}
	for _, key := range keys {
		if v := data.Get(key); v.IsArray() {
			return v.Array()
		}
	}
	return nil
}

// unwrap returns data[key] when it is an object, else data.
func unwrap(data gjson.Result, key string) gjson.Result {
	if v := data.Get(key); v.IsObject() {
		return v
	}
	return data
}

func firstString(r gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := r.Get(p); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return ""
}

func firstInt(r gjson.Result, paths ...string) int64 {
	for _, p := range paths {
		if v := r.Get(p); v.Type == gjson.Number || v.Type == gjson.String {
			if n := v.Int(); n != 0 {
				return n
			}
		}
	}
	return 0
}

// decodeAll unmarshals each element into a T.
func decodeAll[T any](elems []gjson.Result) ([]T, error) {
	out := make([]T, 0, len(elems))
	for _, e := range elems {
		var item T
		if err := json.Unmarshal([]byte(e.Raw), &item); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// pageCounts applies the list fallbacks: total defaults to the item count,
// pages to 1 when anything came back.
func pageCounts(data gjson.Result, n int) (total, pages int) {
	total = n
	if v := data.Get("total"); v.Exists() {
		total = int(v.Int())
	}
	if n > 0 {
		pages = 1
	}
	if v := data.Get("pages"); v.Exists() {
		pages = int(v.Int())
	}
	return total, pages
}
