package resources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"github.com/goccy/go-json"
	"github.com/octabyte/salon-gommon/enums"
	"github.com/octabyte/salon-gommon/models"
)

var (
	ErrWeakPassword     = errors.New("password must have at least 8 characters, one uppercase letter, one lowercase letter and one digit")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

const minPasswordLength = 8

type UsersAPI struct {
	*base
}

func (u *UsersAPI) Search(ctx context.Context, q models.AccountQuery) (*models.AccountPage, error) {
	v := paging(q.Page, q.Size, q.SortField, q.SortOrder, "name")
	v.Set("nombre", q.Nombre)
	v.Set("email", q.Email)
	v.Set("role", q.Role)

	data, err := u.get(ctx, enums.UsersResource+"/search-pagination?"+v.Encode())
	if err != nil {
		return nil, err
	}

	users, err := decodeAll[models.Account](items(data, "users", "usuarios"))
	if err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	total, pages := pageCounts(data, len(users))
	return &models.AccountPage{Users: users, Total: total, Pages: pages}, nil
}

// Create registers a new account. The password is mandatory and must be
// strong.
func (u *UsersAPI) Create(ctx context.Context, in models.AccountInput) (*models.Account, error) {
	if in.Password != in.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if !IsStrongPassword(in.Password) {
		return nil, ErrWeakPassword
	}
	if err := u.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid user: %w", err)
	}
	in.ID = 0

	return u.save(ctx, http.MethodPost, enums.UsersResource+"/create-user", in)
}

// Update edits an account. A blank password leaves the current one
// unchanged.
func (u *UsersAPI) Update(ctx context.Context, in models.AccountInput) (*models.Account, error) {
	if in.ID <= 0 {
		return nil, fmt.Errorf("invalid user: missing id")
	}
	if in.Password != in.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if strings.TrimSpace(in.Password) == "" {
		in.Password = ""
	} else if !IsStrongPassword(in.Password) {
		return nil, ErrWeakPassword
	}
	if err := u.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid user: %w", err)
	}

	return u.save(ctx, http.MethodPut, enums.UsersResource+"/update-user", in)
}

func (u *UsersAPI) Delete(ctx context.Context, id int64) error {
	_, err := u.call(ctx, http.MethodDelete, enums.UsersResource+"/delete-user/"+strconv.FormatInt(id, 10), nil)
	return err
}

func (u *UsersAPI) save(ctx context.Context, method, path string, in models.AccountInput) (*models.Account, error) {
	data, err := u.call(ctx, method, path, in)
	if err != nil {
		return nil, err
	}

	stored := unwrap(data, "user")
	if !stored.IsObject() {
		return &models.Account{ID: in.ID, Name: in.Name, Email: in.Email, Role: in.Role}, nil
	}
	var out models.Account
	if err := json.Unmarshal([]byte(stored.Raw), &out); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	out.Password = ""
	return &out, nil
}

// IsStrongPassword reports whether p has at least 8 characters including an
// uppercase letter, a lowercase letter and a digit.
func IsStrongPassword(p string) bool {
	if len([]rune(p)) < minPasswordLength {
		return false
	}
	var upper, lower, digit bool
	for _, r := range p {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}
