package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/octabyte/salon-gommon/enums"
	"github.com/octabyte/salon-gommon/models"
)

func subcommand(group string, args []string) (string, []string, error) {
	if len(args) == 0 {
		return "", nil, fmt.Errorf("%w: %s needs a subcommand", errUsage, group)
	}
	return args[0], args[1:], nil
}

func (a *app) clients(ctx context.Context, args []string) error {
	sub, rest, err := subcommand("clients", args)
	if err != nil {
		return err
	}

	fs := newFlagSet("clients " + sub)
	var q models.ClientQuery
	var order string
	var in models.Client
	fs.IntVar(&q.Page, "page", 1, "page number")
	fs.IntVar(&q.Size, "size", 10, "page size")
	fs.StringVar(&q.SortField, "sort", "nombre", "nombre or created_at")
	fs.StringVar(&order, "order", string(enums.SortAsc), "asc or desc")
	fs.Int64Var(&in.ID, "id", 0, "client id")
	fs.StringVar(&in.Nombre, "nombre", "", "name")
	fs.StringVar(&in.Email, "email", "", "email")
	fs.StringVar(&in.Telefono, "telefono", "", "phone")
	if err := parse(fs, rest); err != nil {
		return err
	}

	switch sub {
	case "list":
		return printResult(a, func() (any, error) { return a.resources.Clients.List(ctx) })
	case "search":
		q.Nombre, q.Email, q.Telefono, q.SortOrder = in.Nombre, in.Email, in.Telefono, enums.SortOrder(order)
		return printResult(a, func() (any, error) { return a.resources.Clients.Search(ctx, q) })
	case "create":
		return printResult(a, func() (any, error) { return a.resources.Clients.Create(ctx, in) })
	case "update":
		return printResult(a, func() (any, error) { return a.resources.Clients.Update(ctx, in) })
	case "delete":
		return a.resources.Clients.Delete(ctx, in.ID)
	default:
		return fmt.Errorf("%w: unknown clients subcommand %q", errUsage, sub)
	}
}

func (a *app) colorations(ctx context.Context, args []string) error {
	sub, rest, err := subcommand("colorations", args)
	if err != nil {
		return err
	}

	fs := newFlagSet("colorations " + sub)
	var in models.Coloration
	query := fs.String("query", "", "free text search")
	fs.Int64Var(&in.ID, "id", 0, "coloration id")
	fs.StringVar(&in.Nombre, "nombre", "", "name")
	fs.StringVar(&in.Descripcion, "descripcion", "", "description")
	if err := parse(fs, rest); err != nil {
		return err
	}

	switch sub {
	case "list":
		return printResult(a, func() (any, error) { return a.resources.Colorations.List(ctx) })
	case "search":
		return printResult(a, func() (any, error) { return a.resources.Colorations.Search(ctx, *query) })
	case "create":
		return printResult(a, func() (any, error) { return a.resources.Colorations.Create(ctx, in) })
	case "update":
		return printResult(a, func() (any, error) { return a.resources.Colorations.Update(ctx, in) })
	case "delete":
		return a.resources.Colorations.Delete(ctx, in.ID)
	default:
		return fmt.Errorf("%w: unknown colorations subcommand %q", errUsage, sub)
	}
}

func (a *app) reports(ctx context.Context, args []string) error {
	sub, rest, err := subcommand("reports", args)
	if err != nil {
		return err
	}

	fs := newFlagSet("reports " + sub)
	var in models.ReportUpdate
	id := fs.Int64("id", 0, "report id")
	fs.Int64Var(&in.ClienteID, "cliente", 0, "client id")
	fs.Int64Var(&in.Coloracion, "coloracion", 0, "coloration id")
	fs.StringVar(&in.Formula, "formula", "", "formula")
	fs.StringVar(&in.Observaciones, "observaciones", "", "notes")
	fs.Float64Var(&in.Precio, "precio", 0, "price")
	if err := parse(fs, rest); err != nil {
		return err
	}

	switch sub {
	case "list":
		return printResult(a, func() (any, error) { return a.resources.Reports.List(ctx) })
	case "get":
		return printResult(a, func() (any, error) { return a.resources.Reports.Get(ctx, *id) })
	case "update":
		return printResult(a, func() (any, error) { return a.resources.Reports.Update(ctx, *id, in) })
	default:
		return fmt.Errorf("%w: unknown reports subcommand %q", errUsage, sub)
	}
}

func (a *app) users(ctx context.Context, args []string) error {
	sub, rest, err := subcommand("users", args)
	if err != nil {
		return err
	}

	fs := newFlagSet("users " + sub)
	var q models.AccountQuery
	var in models.AccountInput
	var order string
	role := fs.Int("role", int(enums.RoleStaff), "1 staff, 2 admin")
	fs.IntVar(&q.Page, "page", 1, "page number")
	fs.IntVar(&q.Size, "size", 10, "page size")
	fs.StringVar(&q.SortField, "sort", "name", "name, email or createdAt")
	fs.StringVar(&order, "order", string(enums.SortAsc), "asc or desc")
	fs.Int64Var(&in.ID, "id", 0, "user id")
	fs.StringVar(&in.Name, "name", "", "display name")
	fs.StringVar(&in.Email, "email", "", "email")
	fs.StringVar(&in.Password, "password", "", "password")
	fs.StringVar(&in.ConfirmPassword, "confirm", "", "password confirmation")
	if err := parse(fs, rest); err != nil {
		return err
	}
	in.Role = enums.Role(*role)

	switch sub {
	case "search":
		q.Nombre, q.Email, q.SortOrder = in.Name, in.Email, enums.SortOrder(order)
		if isSet(fs, "role") {
			q.Role = fmt.Sprint(*role)
		}
		return printResult(a, func() (any, error) { return a.resources.Users.Search(ctx, q) })
	case "create":
		return printResult(a, func() (any, error) { return a.resources.Users.Create(ctx, in) })
	case "update":
		return printResult(a, func() (any, error) { return a.resources.Users.Update(ctx, in) })
	case "delete":
		return a.resources.Users.Delete(ctx, in.ID)
	default:
		return fmt.Errorf("%w: unknown users subcommand %q", errUsage, sub)
	}
}

// isSet reports whether name was given on the command line.
func isSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func printResult(a *app, fetch func() (any, error)) error {
	v, err := fetch()
	if err != nil {
		return err
	}
	return a.print(v)
}
