package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/octabyte/salon-gommon/api"
	"github.com/octabyte/salon-gommon/auth"
	"github.com/octabyte/salon-gommon/config"
	redisdb "github.com/octabyte/salon-gommon/db/redis"
	"github.com/octabyte/salon-gommon/enums"
	"github.com/octabyte/salon-gommon/resources"
	"github.com/octabyte/salon-gommon/session"
	"github.com/octabyte/salon-gommon/storage"
)

var errUsage = errors.New("usage: salonctl <login|logout|whoami|refresh|clients|colorations|reports|users> [flags]")

// app is one invocation's wiring: a restored session plus the clients that
// use it.
type app struct {
	out       io.Writer
	session   *session.Store
	auth      *auth.API
	resources *resources.Resources
	closers   []func()
}

func newApp(ctx context.Context, cfg *config.Config, out io.Writer) (*app, error) {
	client, err := api.New(cfg.APIClientConfig(serviceName))
	if err != nil {
		return nil, err
	}

	a := &app{out: out, auth: auth.New(client)}

	store, err := a.openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a.session = session.NewStore(store, a.auth, cfg.SessionConfig())
	a.closers = append(a.closers, a.session.Close)
	a.session.Init(ctx)
	if err := a.session.Wait(ctx); err != nil {
		a.close()
		return nil, err
	}

	a.resources = resources.New(api.NewAuthenticated(client, a.session))
	return a, nil
}

func (a *app) openStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage.Driver {
	case enums.StorageDriverMemory:
		return storage.NewMemory(), nil
	case enums.StorageDriverRedis:
		client, err := redisdb.NewRedisClient(ctx, cfg.RedisClientConfig())
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		return redisdb.NewStorage(client, redisdb.DefaultKeyPrefix, 0), nil
	default:
		return storage.NewFile(cfg.Storage.Path)
	}
}

// close releases resources in reverse order of acquisition.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func (a *app) print(v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, string(raw))
	return err
}

func run(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	a, err := newApp(ctx, cfg, out)
	if err != nil {
		return err
	}
	defer a.close()

	command, rest := args[0], args[1:]
	switch command {
	case "login":
		return a.login(ctx, rest)
	case "logout":
		a.session.Logout(ctx)
		return nil
	case "whoami":
		return a.whoami()
	case "refresh":
		return a.refresh(ctx)
	}

	if err := a.session.Guard(ctx); err != nil {
		return fmt.Errorf("%w: run salonctl login first", err)
	}

	switch command {
	case "clients":
		return a.clients(ctx, rest)
	case "colorations":
		return a.colorations(ctx, rest)
	case "reports":
		return a.reports(ctx, rest)
	case "users":
		return a.users(ctx, rest)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}
